package response_models

import "time"

type ListSummaryResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	ItemCount    int64     `json:"itemCount"`
	ClaimedCount int64     `json:"claimedCount"`
	CreatedAt    time.Time `json:"createdAt"`
	Image        string    `json:"image"`
}

type CreatedListResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type StyleResponse struct {
	BackgroundColor   string `json:"backgroundColor"`
	AccentColor       string `json:"accentColor"`
	FontFamily        string `json:"fontFamily"`
	BorderRadius      string `json:"borderRadius"`
	ItemSpacing       string `json:"itemSpacing"`
	BackgroundImage   string `json:"backgroundImage"`
	BackgroundPattern string `json:"backgroundPattern"`
	TitleColor        string `json:"titleColor"`
	TextColor         string `json:"textColor"`
}

type ListResponse struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Image       string        `json:"image"`
	CreatedAt   time.Time     `json:"createdAt"`
	UserID      string        `json:"userId"`
	Style       StyleResponse `json:"style"`
}

type ExistsResponse struct {
	Exists bool `json:"exists"`
}

type ClaimedBy struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type ItemResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Claimed     bool       `json:"claimed"`
	ClaimedBy   *ClaimedBy `json:"claimedBy,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ImageResponse struct {
	Image string `json:"image"`
}
