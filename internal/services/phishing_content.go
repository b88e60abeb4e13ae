package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/modules/simulation"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/llm"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type GenerationResult struct {
	EmailID uuid.UUID `json:"email_message_id"`
	TextID  uuid.UUID `json:"text_message_id"`
}

// PhishingContentService produces a learner's personalized email and text simulations and
// links them to the user row.
type PhishingContentService interface {
	Generate(dbc dbctx.Context, userID uuid.UUID) (GenerationResult, error)
	// GenerateWithProgress reports "generate" and "persist" as each phase starts.
	GenerateWithProgress(dbc dbctx.Context, userID uuid.UUID, progress func(stage string)) (GenerationResult, error)
}

type phishingContentService struct {
	db     *gorm.DB
	log    *logger.Logger
	ai     llm.Client
	users  repos.UserRepo
	emails repos.EmailMessageRepo
	texts  repos.TextMessageRepo
}

func NewPhishingContentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	ai llm.Client,
	users repos.UserRepo,
	emails repos.EmailMessageRepo,
	texts repos.TextMessageRepo,
) PhishingContentService {
	return &phishingContentService{
		db:     db,
		log:    baseLog.With("service", "PhishingContentService"),
		ai:     ai,
		users:  users,
		emails: emails,
		texts:  texts,
	}
}

func (s *phishingContentService) Generate(dbc dbctx.Context, userID uuid.UUID) (GenerationResult, error) {
	return s.GenerateWithProgress(dbc, userID, nil)
}

func (s *phishingContentService) GenerateWithProgress(dbc dbctx.Context, userID uuid.UUID, progress func(stage string)) (GenerationResult, error) {
	if progress == nil {
		progress = func(string) {}
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if userID == uuid.Nil {
		return GenerationResult{}, fmt.Errorf("generate content: missing user id: %w", apierr.ErrInvalidArgument)
	}
	if s.ai == nil {
		observability.Current().IncGeneration("generation_failed")
		return GenerationResult{}, apierr.Generation("generate content", fmt.Errorf("no generation client configured"))
	}
	u, err := s.users.GetByID(dbc, userID)
	if err != nil {
		observability.Current().IncGeneration("storage_failed")
		return GenerationResult{}, apierr.Storage("load user", err)
	}
	if u == nil {
		return GenerationResult{}, fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
	}
	profile := simulation.ProfileOf(u)

	progress("generate")
	started := time.Now()
	email, text, err := s.generateBoth(ctx, profile)
	if err != nil {
		observability.Current().IncGeneration("generation_failed")
		s.log.Warn("Phishing content generation failed", "user_id", userID, "error", err)
		return GenerationResult{}, apierr.Generation("generate content", err)
	}
	s.log.Debug("Phishing content generated", "user_id", userID, "duration", time.Since(started).String())

	progress("persist")
	res, err := s.persist(dbc, userID, email, text)
	if err != nil {
		observability.Current().IncGeneration("storage_failed")
		s.log.Error("Persisting phishing content failed", "user_id", userID, "error", err)
		return GenerationResult{}, apierr.Storage("persist content", err)
	}
	observability.Current().IncGeneration("success")
	return res, nil
}

// generateBoth issues both requests concurrently. The group has no shared context so a
// failure on one side does not cancel the other.
func (s *phishingContentService) generateBoth(ctx context.Context, profile simulation.Profile) (simulation.GeneratedEmail, simulation.GeneratedText, error) {
	var (
		g     errgroup.Group
		email simulation.GeneratedEmail
		text  simulation.GeneratedText
	)
	g.Go(func() error {
		system, user := simulation.PromptEmail(profile)
		obj, err := s.ai.GenerateJSON(ctx, system, user, simulation.SchemaNameEmail, simulation.SchemaEmail())
		if err != nil {
			return fmt.Errorf("email: %w", err)
		}
		email, err = simulation.DecodeEmail(obj)
		return err
	})
	g.Go(func() error {
		system, user := simulation.PromptText(profile)
		obj, err := s.ai.GenerateJSON(ctx, system, user, simulation.SchemaNameText, simulation.SchemaText())
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		text, err = simulation.DecodeText(obj)
		return err
	})
	if err := g.Wait(); err != nil {
		return simulation.GeneratedEmail{}, simulation.GeneratedText{}, err
	}
	return email, text, nil
}

// persist upserts both rows and relinks the user in one transaction.
func (s *phishingContentService) persist(dbc dbctx.Context, userID uuid.UUID, email simulation.GeneratedEmail, text simulation.GeneratedText) (GenerationResult, error) {
	root := dbc.Tx
	if root == nil {
		root = s.db
	}
	var out GenerationResult
	err := root.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		u, err := s.users.GetByID(inner, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("user %s disappeared", userID)
		}

		emailID, err := s.upsertEmail(inner, u.EmailMessageID, email)
		if err != nil {
			return fmt.Errorf("upsert email: %w", err)
		}
		textID, err := s.upsertText(inner, u.TextMessageID, text)
		if err != nil {
			return fmt.Errorf("upsert text: %w", err)
		}
		if err := s.users.SetContentLinks(inner, userID, emailID, textID); err != nil {
			return fmt.Errorf("link content: %w", err)
		}
		out = GenerationResult{EmailID: emailID, TextID: textID}
		return nil
	})
	if err != nil {
		return GenerationResult{}, err
	}
	return out, nil
}

func (s *phishingContentService) upsertEmail(dbc dbctx.Context, current *uuid.UUID, g simulation.GeneratedEmail) (uuid.UUID, error) {
	redFlags := simulation.EncodeRedFlags(g.RedFlags)
	if current != nil && *current != uuid.Nil {
		ok, err := s.emails.UpdateFields(dbc, *current, map[string]interface{}{
			"sender":       g.SenderName,
			"sender_email": g.SenderEmail,
			"subject":      g.Subject,
			"content":      g.Body,
			"red_flags":    redFlags,
			"is_scam":      g.IsScam,
		})
		if err != nil {
			return uuid.Nil, err
		}
		if ok {
			return *current, nil
		}
	}
	row := &types.EmailMessage{
		Sender:      g.SenderName,
		SenderEmail: g.SenderEmail,
		Subject:     g.Subject,
		Content:     g.Body,
		RedFlags:    redFlags,
		IsScam:      g.IsScam,
	}
	if err := s.emails.Create(dbc, row); err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}

func (s *phishingContentService) upsertText(dbc dbctx.Context, current *uuid.UUID, g simulation.GeneratedText) (uuid.UUID, error) {
	redFlags := simulation.EncodeRedFlags(g.RedFlags)
	if current != nil && *current != uuid.Nil {
		ok, err := s.texts.UpdateFields(dbc, *current, map[string]interface{}{
			"sender":       g.SenderName,
			"sender_phone": g.SenderPhone,
			"content":      g.Body,
			"red_flags":    redFlags,
			"is_scam":      g.IsScam,
		})
		if err != nil {
			return uuid.Nil, err
		}
		if ok {
			return *current, nil
		}
	}
	row := &types.TextMessage{
		Sender:      g.SenderName,
		SenderPhone: g.SenderPhone,
		Content:     g.Body,
		RedFlags:    redFlags,
		IsScam:      g.IsScam,
	}
	if err := s.texts.Create(dbc, row); err != nil {
		return uuid.Nil, err
	}
	return row.ID, nil
}
