package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the account row. Identity fields are written by the auth provider; profile fields
// by onboarding; content links by the phishing content generator. Never deleted in-app.
type User struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"not null;column:name" json:"name"`
	Email         string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	EmailVerified bool      `gorm:"not null;default:false;column:email_verified" json:"emailVerified"`
	Image         *string   `gorm:"column:image" json:"image"`

	Age       *int    `gorm:"column:age" json:"age"`
	Gender    *string `gorm:"column:gender" json:"gender"`
	Interests *string `gorm:"column:interests" json:"interests"`

	// Incremented outside this service; read-only here.
	Streak int `gorm:"not null;default:0;column:streak" json:"streak"`

	EmailMessageID *uuid.UUID `gorm:"type:uuid;column:email_message_id;index" json:"emailMessageId"`
	TextMessageID  *uuid.UUID `gorm:"type:uuid;column:text_message_id;index" json:"textMessageId"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Gender values offered by the onboarding form. Free text is still accepted and stored as-is.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)
