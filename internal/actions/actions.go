// Package actions exposes the in-process calls used by server-rendered pages. Every call
// returns a result value; failures are logged and folded into the result, never returned.
package actions

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

const (
	ErrMsgUnauthorized        = "Unauthorized"
	ErrMsgUpdateProfile       = "Failed to update profile"
	ErrMsgFetchMessages       = "Failed to fetch messages"
	ErrMsgCreateActivity      = "Failed to create activity"
	ErrMsgInvalidProfileValue = "Invalid profile values"
)

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type MessagesResult struct {
	Result
	Email *services.EmailDisplay `json:"email"`
	Text  *services.TextDisplay  `json:"text"`
}

type XPResult struct {
	XP int `json:"xp"`
}

type StreakResult struct {
	Streak int `json:"streak"`
}

type ActivityView struct {
	ID          uuid.UUID          `json:"id"`
	UserID      uuid.UUID          `json:"userId"`
	Type        types.ActivityType `json:"type"`
	Description string             `json:"description"`
	XPAmount    int                `json:"xpAmount"`
	Emoji       string             `json:"emoji"`
	Metadata    map[string]any     `json:"metadata"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type ActivitiesResult struct {
	Activities []ActivityView `json:"activities"`
}

type SignupResult struct {
	Result
	ActivityID    *uuid.UUID `json:"activityId,omitempty"`
	AlreadyExists bool       `json:"alreadyExists,omitempty"`
}

type Actions struct {
	log        *logger.Logger
	users      services.UserService
	messages   services.MessageService
	activities services.ActivityService
}

func New(baseLog *logger.Logger, users services.UserService, messages services.MessageService, activities services.ActivityService) *Actions {
	return &Actions{
		log:        baseLog.With("component", "Actions"),
		users:      users,
		messages:   messages,
		activities: activities,
	}
}

func (a *Actions) SaveUserProfile(dbc dbctx.Context, in services.ProfileInput) Result {
	if ctxutil.UserID(dbc.Ctx) == uuid.Nil {
		return Result{Error: ErrMsgUnauthorized}
	}
	if err := a.users.SaveProfile(dbc, in); err != nil {
		switch {
		case errors.Is(err, apierr.ErrUnauthorized):
			return Result{Error: ErrMsgUnauthorized}
		case errors.Is(err, apierr.ErrInvalidArgument):
			return Result{Error: ErrMsgInvalidProfileValue}
		}
		a.log.Error("Error updating user profile", "user_id", ctxutil.UserID(dbc.Ctx), "error", err)
		return Result{Error: ErrMsgUpdateProfile}
	}
	return Result{Success: true}
}

func (a *Actions) FetchUserMessages(dbc dbctx.Context) MessagesResult {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return MessagesResult{Result: Result{Error: ErrMsgUnauthorized}}
	}
	msgs, err := a.messages.FetchPersonalizedMessages(dbc, userID)
	if err != nil {
		a.log.Error("Error fetching user messages", "user_id", userID, "error", err)
		return MessagesResult{Result: Result{Error: ErrMsgFetchMessages}}
	}
	return MessagesResult{Result: Result{Success: true}, Email: msgs.Email, Text: msgs.Text}
}

func (a *Actions) GetUserXP(dbc dbctx.Context) XPResult {
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return XPResult{}
	}
	xp, err := a.activities.TotalXP(dbc, userID)
	if err != nil {
		a.log.Error("Error getting user XP", "user_id", userID, "error", err)
		return XPResult{}
	}
	return XPResult{XP: xp}
}

func (a *Actions) GetUserStreak(dbc dbctx.Context) StreakResult {
	if ctxutil.UserID(dbc.Ctx) == uuid.Nil {
		return StreakResult{}
	}
	streak, err := a.users.GetStreak(dbc)
	if err != nil {
		a.log.Error("Error getting user streak", "user_id", ctxutil.UserID(dbc.Ctx), "error", err)
		return StreakResult{}
	}
	return StreakResult{Streak: streak}
}

// GetUserActivities returns the caller's oldest activities first.
func (a *Actions) GetUserActivities(dbc dbctx.Context, limit int) ActivitiesResult {
	out := ActivitiesResult{Activities: []ActivityView{}}
	userID := ctxutil.UserID(dbc.Ctx)
	if userID == uuid.Nil {
		return out
	}
	rows, err := a.activities.RecentActivities(dbc, userID, limit)
	if err != nil {
		a.log.Error("Error getting user activities", "user_id", userID, "error", err)
		return out
	}
	for _, r := range rows {
		out.Activities = append(out.Activities, toActivityView(r))
	}
	return out
}

// CreateSignupActivity is called by the auth provider's sign-up hook; it takes the new user's
// id rather than a session.
func (a *Actions) CreateSignupActivity(dbc dbctx.Context, userID uuid.UUID) SignupResult {
	res, err := a.activities.CreateSignupActivity(dbc, userID)
	if err != nil {
		a.log.Error("Error creating signup activity", "user_id", userID, "error", err)
		return SignupResult{Result: Result{Error: ErrMsgCreateActivity}}
	}
	id := res.ID
	return SignupResult{Result: Result{Success: true}, ActivityID: &id, AlreadyExists: !res.Created}
}

func toActivityView(r *types.Activity) ActivityView {
	v := ActivityView{
		ID:          r.ID,
		UserID:      r.UserID,
		Type:        r.Type,
		Description: r.Description,
		XPAmount:    r.XPAmount,
		Emoji:       r.Emoji,
		CreatedAt:   r.CreatedAt,
		Metadata:    map[string]any{},
	}
	if len(r.Metadata) > 0 {
		var m map[string]any
		if err := json.Unmarshal(r.Metadata, &m); err == nil && m != nil {
			v.Metadata = m
		}
	}
	return v
}
