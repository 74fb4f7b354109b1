package db_models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CheckoutKind string

const (
	CheckoutClaim        CheckoutKind = "claim"
	CheckoutSubscription CheckoutKind = "subscription"
)

type CheckoutStep string

const (
	StepForm    CheckoutStep = "form"
	StepPayment CheckoutStep = "payment"
	StepSuccess CheckoutStep = "success"
	StepError   CheckoutStep = "error"
)

type Checkout struct {
	ID   string       `gorm:"size:36;primaryKey"`
	Kind CheckoutKind `gorm:"size:16;not null"`
	Step CheckoutStep `gorm:"size:16;index;not null"`

	ListID   *uint
	ItemID   *uint
	UserID   *uint
	PlanCode string `gorm:"size:32"`

	PayerName     string `gorm:"size:255"`
	PayerEmail    string `gorm:"size:255"`
	PayerDocument string `gorm:"size:32"`
	PayerPhone    string `gorm:"size:50"`

	Amount  float64 `gorm:"type:decimal(10,2)"`
	Attempt int     `gorm:"not null;default:0"`

	PaymentID     string `gorm:"size:64;index"`
	QRCode        string `gorm:"type:text"`
	QRCodeBase64  string `gorm:"type:text"`
	TicketURL     string `gorm:"type:text"`
	GatewayStatus string `gorm:"size:32"`
	Message       string `gorm:"size:255"`
	LastError     string `gorm:"type:text"`

	ExpiresAt   *time.Time `gorm:"index"`
	FinalizedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (c *Checkout) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// IdempotencyKey identifies one charge attempt of this checkout.
func (c *Checkout) IdempotencyKey() string {
	return c.ID + "-" + strconv.Itoa(c.Attempt)
}
