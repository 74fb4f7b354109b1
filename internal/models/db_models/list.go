package db_models

type List struct {
	BaseModel
	UserID      uint   `gorm:"index;not null"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
	Image       string `gorm:"type:text"`

	Items []Item     `gorm:"constraint:OnDelete:CASCADE"`
	Style *ListStyle `gorm:"constraint:OnDelete:CASCADE"`
}

type Item struct {
	BaseModel
	ListID         uint   `gorm:"index;not null"`
	Name           string `gorm:"size:255;not null"`
	Description    string `gorm:"type:text"`
	Claimed        bool   `gorm:"not null;default:false"`
	ClaimedByName  string `gorm:"size:255"`
	ClaimedByPhone string `gorm:"size:50"`
}

const (
	DefaultBackgroundColor = "#ffffff"
	DefaultAccentColor     = "#0078ff"
	DefaultFontFamily      = "Inter, sans-serif"
	DefaultBorderRadius    = "rounded-2xl"
	DefaultItemSpacing     = "4"
)

type ListStyle struct {
	BaseModel
	ListID            uint   `gorm:"uniqueIndex;not null"`
	BackgroundColor   string `gorm:"size:50"`
	AccentColor       string `gorm:"size:50"`
	FontFamily        string `gorm:"size:255"`
	BorderRadius      string `gorm:"size:50"`
	ItemSpacing       string `gorm:"size:10"`
	BackgroundImage   string `gorm:"size:255"`
	BackgroundPattern string `gorm:"size:255"`
	TitleColor        string `gorm:"size:50"`
	TextColor         string `gorm:"size:50"`
}

func DefaultListStyle(listID uint) *ListStyle {
	return &ListStyle{
		ListID:          listID,
		BackgroundColor: DefaultBackgroundColor,
		AccentColor:     DefaultAccentColor,
		FontFamily:      DefaultFontFamily,
		BorderRadius:    DefaultBorderRadius,
		ItemSpacing:     DefaultItemSpacing,
	}
}

// WithDefaults returns a copy where empty defaulted fields are filled in.
// A nil style yields the full default style.
func (s *ListStyle) WithDefaults() ListStyle {
	if s == nil {
		return *DefaultListStyle(0)
	}
	out := *s
	if out.BackgroundColor == "" {
		out.BackgroundColor = DefaultBackgroundColor
	}
	if out.AccentColor == "" {
		out.AccentColor = DefaultAccentColor
	}
	if out.FontFamily == "" {
		out.FontFamily = DefaultFontFamily
	}
	if out.BorderRadius == "" {
		out.BorderRadius = DefaultBorderRadius
	}
	if out.ItemSpacing == "" {
		out.ItemSpacing = DefaultItemSpacing
	}
	return out
}
