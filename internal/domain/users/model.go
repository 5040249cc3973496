package users

import "time"

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Username     string  `gorm:"not null;uniqueIndex:idx_users_username" json:"username"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"-"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"-"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `json:"-"`
	IsVerified   bool    `json:"-"`

	// Reputation is denormalized: adjusted when the user's decklists
	// receive or lose votes (±1) and favorites (±5).
	Reputation int `gorm:"not null;default:0" json:"reputation"`

	// Donation total in cents, recorded by the Stripe webhook.
	Donation int64 `gorm:"not null;default:0" json:"-"`

	// Notification opt-ins.
	IsNotifAuthor    bool `gorm:"not null;default:true" json:"-"`
	IsNotifCommenter bool `gorm:"not null;default:true" json:"-"`
	IsNotifMention   bool `gorm:"not null;default:true" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type VerificationToken struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"not null;index"`
	Token  string `gorm:"not null;uniqueIndex"`

	CreatedAt time.Time
}

// IsAdmin reports whether the user holds the elevated role that allows
// editing decklists they do not own.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}
