package content

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names the two simulation channels.
type Kind string

const (
	KindEmail Kind = "email"
	KindText  Kind = "text"
)

// EmailMessage is a generated phishing-email simulation. The row carries no owner column:
// a user owns it through user.email_message_id, and a row no user points at is an orphan.
type EmailMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Sender      string    `gorm:"column:sender;not null" json:"sender"`
	SenderEmail string    `gorm:"column:sender_email;not null" json:"senderEmail"`
	Subject     string    `gorm:"column:subject;not null" json:"subject"`
	Content     string    `gorm:"column:content;not null" json:"content"`
	// JSON-serialized []string. Readers must tolerate NULL and garbage.
	RedFlags  *string   `gorm:"column:red_flags" json:"redFlags"`
	IsScam    bool      `gorm:"column:is_scam;not null" json:"isScam"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (EmailMessage) TableName() string { return "email_message" }

func (m *EmailMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TextMessage is a generated SMS simulation; same ownership rules as EmailMessage.
type TextMessage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Sender      string    `gorm:"column:sender;not null" json:"sender"`
	SenderPhone string    `gorm:"column:sender_phone" json:"senderPhone"`
	Content     string    `gorm:"column:content;not null" json:"content"`
	RedFlags    *string   `gorm:"column:red_flags" json:"redFlags"`
	IsScam      bool      `gorm:"column:is_scam;not null" json:"isScam"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (TextMessage) TableName() string { return "text_message" }

func (m *TextMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
