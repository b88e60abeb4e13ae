package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const (
	DefaultActivityLimit = 10
	MaxActivityLimit     = 100

	SignupDescription = "Joined Verifeye"
	SignupXP          = 100
	SignupEmoji       = "🎉"
)

type ActivityInput struct {
	UserID      uuid.UUID
	Type        types.ActivityType
	Description string
	XPAmount    int
	Emoji       string
	Metadata    map[string]any
	// IdempotencyKey replaces the "<type>:<description>" dedupe key when set.
	IdempotencyKey string
}

type RecordResult struct {
	Created bool      `json:"created"`
	ID      uuid.UUID `json:"id"`
}

// XPObserver is told about XP granted by newly inserted activities.
type XPObserver interface {
	OnXP(ctx context.Context, userID uuid.UUID, xp int)
}

type ActivityService interface {
	RecordActivity(dbc dbctx.Context, in ActivityInput) (RecordResult, error)
	TotalXP(dbc dbctx.Context, userID uuid.UUID) (int, error)
	RecentActivities(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Activity, error)
	CreateSignupActivity(dbc dbctx.Context, userID uuid.UUID) (RecordResult, error)
}

type activityService struct {
	log      *logger.Logger
	repo     repos.ActivityRepo
	observer XPObserver
}

func NewActivityService(baseLog *logger.Logger, repo repos.ActivityRepo, observer XPObserver) ActivityService {
	return &activityService{
		log:      baseLog.With("service", "ActivityService"),
		repo:     repo,
		observer: observer,
	}
}

func DedupeKey(t types.ActivityType, description string) string {
	return string(t) + ":" + description
}

func (s *activityService) RecordActivity(dbc dbctx.Context, in ActivityInput) (RecordResult, error) {
	if in.UserID == uuid.Nil {
		return RecordResult{}, fmt.Errorf("record activity: missing user id: %w", apierr.ErrInvalidArgument)
	}
	if !in.Type.Valid() {
		return RecordResult{}, fmt.Errorf("record activity: unknown type %q: %w", in.Type, apierr.ErrInvalidArgument)
	}
	if in.XPAmount < 0 {
		return RecordResult{}, fmt.Errorf("record activity: negative xp %d: %w", in.XPAmount, apierr.ErrInvalidArgument)
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = DedupeKey(in.Type, in.Description)
	}

	existing, err := s.repo.GetByDedupeKey(dbc, in.UserID, key)
	if err != nil {
		return RecordResult{}, apierr.Storage("lookup activity", err)
	}
	if existing != nil {
		observability.Current().IncActivity(string(in.Type), false)
		return RecordResult{Created: false, ID: existing.ID}, nil
	}

	meta := datatypes.JSON("{}")
	if in.Metadata != nil {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return RecordResult{}, fmt.Errorf("record activity: metadata: %w", apierr.ErrInvalidArgument)
		}
		meta = datatypes.JSON(b)
	}
	row := &types.Activity{
		UserID:      in.UserID,
		Type:        in.Type,
		Description: in.Description,
		XPAmount:    in.XPAmount,
		Emoji:       in.Emoji,
		Metadata:    meta,
		DedupeKey:   key,
	}
	created, err := s.repo.CreateIfAbsent(dbc, row)
	if err != nil {
		return RecordResult{}, apierr.Storage("insert activity", err)
	}
	if !created {
		// Lost a race with a concurrent insert of the same key.
		existing, err = s.repo.GetByDedupeKey(dbc, in.UserID, key)
		if err != nil {
			return RecordResult{}, apierr.Storage("lookup activity", err)
		}
		if existing == nil {
			return RecordResult{}, apierr.Storage("lookup activity", fmt.Errorf("conflicting row for %q vanished", key))
		}
		observability.Current().IncActivity(string(in.Type), false)
		return RecordResult{Created: false, ID: existing.ID}, nil
	}

	observability.Current().IncActivity(string(in.Type), true)
	if s.observer != nil && in.XPAmount > 0 {
		s.observer.OnXP(dbc.Ctx, in.UserID, in.XPAmount)
	}
	s.log.Debug("Activity recorded", "user_id", in.UserID, "type", in.Type, "xp", in.XPAmount)
	return RecordResult{Created: true, ID: row.ID}, nil
}

func (s *activityService) TotalXP(dbc dbctx.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, nil
	}
	xp, err := s.repo.SumXP(dbc, userID)
	if err != nil {
		return 0, apierr.Storage("sum xp", err)
	}
	if xp < 0 {
		xp = 0
	}
	return xp, nil
}

// RecentActivities returns the user's activities oldest first.
func (s *activityService) RecentActivities(dbc dbctx.Context, userID uuid.UUID, limit int) ([]*types.Activity, error) {
	if userID == uuid.Nil {
		return []*types.Activity{}, nil
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	rows, err := s.repo.ListByUser(dbc, userID, limit)
	if err != nil {
		return nil, apierr.Storage("list activities", err)
	}
	return rows, nil
}

func (s *activityService) CreateSignupActivity(dbc dbctx.Context, userID uuid.UUID) (RecordResult, error) {
	return s.RecordActivity(dbc, ActivityInput{
		UserID:      userID,
		Type:        types.ActivitySignup,
		Description: SignupDescription,
		XPAmount:    SignupXP,
		Emoji:       SignupEmoji,
	})
}
