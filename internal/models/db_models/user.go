package db_models

import "time"

type User struct {
	BaseModel
	Name               string `gorm:"size:255;not null"`
	Email              string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash       string `gorm:"size:255;not null"`
	HasSubscription    bool   `gorm:"not null;default:false"`
	SubscriptionExpiry *time.Time

	Lists []List `gorm:"constraint:OnDelete:CASCADE"`
}

// SubscriptionActive reports whether the flag is set and the expiry, when
// present, is still in the future.
func (u *User) SubscriptionActive(now time.Time) bool {
	if !u.HasSubscription {
		return false
	}
	return u.SubscriptionExpiry == nil || u.SubscriptionExpiry.After(now)
}
