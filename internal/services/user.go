package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const maxAge = 130

// ProfileInput carries onboarding answers. Zero and blank values are stored as NULL.
type ProfileInput struct {
	Age       *int    `json:"age"`
	Gender    *string `json:"gender"`
	Interests *string `json:"interests"`
}

type UserService interface {
	GetMe(dbc dbctx.Context) (*types.User, error)
	SaveProfile(dbc dbctx.Context, in ProfileInput) error
	GetStreak(dbc dbctx.Context) (int, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(baseLog *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      baseLog.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func requestUserID(dbc dbctx.Context) (uuid.UUID, error) {
	id := ctxutil.UserID(dbc.Ctx)
	if id == uuid.Nil {
		return uuid.Nil, apierr.ErrUnauthorized
	}
	return id, nil
}

func (s *userService) GetMe(dbc dbctx.Context) (*types.User, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	u, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return nil, apierr.Storage("get user", err)
	}
	if u == nil {
		return nil, fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
	}
	return u, nil
}

func normalizeProfile(in ProfileInput) (map[string]interface{}, error) {
	updates := map[string]interface{}{
		"age":       nil,
		"gender":    nil,
		"interests": nil,
	}
	if in.Age != nil && *in.Age != 0 {
		if *in.Age < 0 || *in.Age > maxAge {
			return nil, fmt.Errorf("age %d out of range: %w", *in.Age, apierr.ErrInvalidArgument)
		}
		updates["age"] = *in.Age
	}
	if in.Gender != nil {
		if g := strings.ToLower(strings.TrimSpace(*in.Gender)); g != "" {
			updates["gender"] = g
		}
	}
	if in.Interests != nil {
		if v := strings.TrimSpace(*in.Interests); v != "" {
			updates["interests"] = v
		}
	}
	return updates, nil
}

func (s *userService) SaveProfile(dbc dbctx.Context, in ProfileInput) error {
	userID, err := requestUserID(dbc)
	if err != nil {
		return err
	}
	updates, err := normalizeProfile(in)
	if err != nil {
		return err
	}
	ok, err := s.userRepo.UpdateFields(dbc, userID, updates)
	if err != nil {
		return apierr.Storage("update profile", err)
	}
	if !ok {
		return fmt.Errorf("user %s: %w", userID, apierr.ErrNotFound)
	}
	return nil
}

func (s *userService) GetStreak(dbc dbctx.Context) (int, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return 0, err
	}
	u, err := s.userRepo.GetByID(dbc, userID)
	if err != nil {
		return 0, apierr.Storage("get streak", err)
	}
	if u == nil {
		return 0, nil
	}
	return u.Streak, nil
}
