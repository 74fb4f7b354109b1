package db_models

type BillingPeriod string

const (
	PeriodDay   BillingPeriod = "day"
	PeriodWeek  BillingPeriod = "week"
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

type Plan struct {
	BaseModel
	Code        string        `gorm:"size:32;uniqueIndex;not null"` // "weekly", "monthly"
	Name        string        `gorm:"size:255;not null"`
	Description string        `gorm:"type:text"`
	Period      BillingPeriod `gorm:"size:16;not null"`
	PeriodCount int           `gorm:"not null;default:1"`
	Price       float64       `gorm:"type:decimal(10,2);not null"`
	Currency    string        `gorm:"size:3;not null;default:BRL"`
	IsActive    bool          `gorm:"not null;default:true"`
}
