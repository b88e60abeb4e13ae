package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/modules/simulation"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type EmailDisplay struct {
	ID          uuid.UUID `json:"id"`
	Sender      string    `json:"sender"`
	SenderEmail string    `json:"senderEmail"`
	Subject     string    `json:"subject"`
	Content     string    `json:"content"`
	RedFlags    []string  `json:"redFlags"`
	IsPhishing  bool      `json:"isPhishing"`
	IsScam      *bool     `json:"isScam,omitempty"`
}

type TextDisplay struct {
	ID          uuid.UUID `json:"id"`
	Sender      string    `json:"sender"`
	SenderPhone string    `json:"senderPhone"`
	Content     string    `json:"content"`
	RedFlags    []string  `json:"redFlags"`
	IsPhishing  bool      `json:"isPhishing"`
	IsScam      *bool     `json:"isScam,omitempty"`
}

type Messages struct {
	Email *EmailDisplay `json:"email"`
	Text  *TextDisplay  `json:"text"`
}

type MessageService interface {
	FetchPersonalizedMessages(dbc dbctx.Context, userID uuid.UUID) (*Messages, error)
}

type messageService struct {
	log    *logger.Logger
	users  repos.UserRepo
	emails repos.EmailMessageRepo
	texts  repos.TextMessageRepo
	// reportLabel exposes the generator's stored is_scam alongside isPhishing.
	reportLabel bool
}

func NewMessageService(baseLog *logger.Logger, users repos.UserRepo, emails repos.EmailMessageRepo, texts repos.TextMessageRepo, reportLabel bool) MessageService {
	return &messageService{
		log:         baseLog.With("service", "MessageService"),
		users:       users,
		emails:      emails,
		texts:       texts,
		reportLabel: reportLabel,
	}
}

// FetchPersonalizedMessages resolves the user's content links. A missing link or row is a
// nil entry; unreadable red flags fall back to the fixed lists.
func (s *messageService) FetchPersonalizedMessages(dbc dbctx.Context, userID uuid.UUID) (*Messages, error) {
	if userID == uuid.Nil {
		return nil, apierr.ErrUnauthorized
	}
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Storage("load user", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
	}
	out := &Messages{}

	if u.EmailMessageID != nil {
		m, err := s.emails.GetByID(dbc, *u.EmailMessageID)
		if err != nil {
			return nil, apierr.Storage("load email message", err)
		}
		if m != nil {
			out.Email = &EmailDisplay{
				ID:          m.ID,
				Sender:      m.Sender,
				SenderEmail: m.SenderEmail,
				Subject:     m.Subject,
				Content:     m.Content,
				RedFlags:    simulation.ParseRedFlags(types.KindEmail, m.RedFlags),
				IsPhishing:  true,
				IsScam:      s.label(m.IsScam),
			}
		} else {
			s.log.Warn("User links a missing email message", "user_id", userID, "email_message_id", *u.EmailMessageID)
		}
	}

	if u.TextMessageID != nil {
		m, err := s.texts.GetByID(dbc, *u.TextMessageID)
		if err != nil {
			return nil, apierr.Storage("load text message", err)
		}
		if m != nil {
			out.Text = &TextDisplay{
				ID:          m.ID,
				Sender:      m.Sender,
				SenderPhone: m.SenderPhone,
				Content:     m.Content,
				RedFlags:    simulation.ParseRedFlags(types.KindText, m.RedFlags),
				IsPhishing:  true,
				IsScam:      s.label(m.IsScam),
			}
		} else {
			s.log.Warn("User links a missing text message", "user_id", userID, "text_message_id", *u.TextMessageID)
		}
	}
	return out, nil
}

func (s *messageService) label(v bool) *bool {
	if !s.reportLabel {
		return nil
	}
	return &v
}
