package db_models

import (
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentPending     PaymentStatus = "pending"
	PaymentApproved    PaymentStatus = "approved"
	PaymentInProcess   PaymentStatus = "in_process"
	PaymentRejected    PaymentStatus = "rejected"
	PaymentRefunded    PaymentStatus = "refunded"
	PaymentCancelled   PaymentStatus = "cancelled"
	PaymentInMediation PaymentStatus = "in_mediation"
	PaymentChargedBack PaymentStatus = "charged_back"
)

type PaymentPurpose string

const (
	PurposeSubscription PaymentPurpose = "subscription"
	PurposeClaim        PaymentPurpose = "claim"
	PurposeOther        PaymentPurpose = "other"
)

const AnonymousUser = "anonymous"

type Payment struct {
	BaseModel
	PaymentID      string         `gorm:"size:64;uniqueIndex;not null"` // gateway id
	UserID         string         `gorm:"size:64;index;not null"`
	Amount         float64        `gorm:"type:decimal(10,2);not null"`
	Description    string         `gorm:"type:text"`
	Status         PaymentStatus  `gorm:"size:32;index;not null"`
	Purpose        PaymentPurpose `gorm:"size:16;not null"`
	PlanCode       string         `gorm:"size:32"`
	IdempotencyKey string         `gorm:"size:128;index"`

	// last gateway payload seen for this payment
	Metadata datatypes.JSON
}
