package request_models

type CreateListRequest struct {
	Title       string `json:"title" binding:"required,max=255"`
	Description string `json:"description"`
}

// Pointer fields distinguish "absent" from "set to empty".
type StyleRequest struct {
	BackgroundColor   *string `json:"backgroundColor"`
	AccentColor       *string `json:"accentColor"`
	FontFamily        *string `json:"fontFamily"`
	BorderRadius      *string `json:"borderRadius"`
	ItemSpacing       *string `json:"itemSpacing"`
	BackgroundImage   *string `json:"backgroundImage"`
	BackgroundPattern *string `json:"backgroundPattern"`
	TitleColor        *string `json:"titleColor"`
	TextColor         *string `json:"textColor"`
}

type UpdateListRequest struct {
	Title       *string       `json:"title" binding:"omitempty,max=255"`
	Description *string       `json:"description"`
	Image       *string       `json:"image"`
	Style       *StyleRequest `json:"style"`
}

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Claimed     *bool   `json:"claimed"`
}

type ClaimItemRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}
