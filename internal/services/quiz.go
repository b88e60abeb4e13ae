package services

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/modules/quiz"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const (
	QuizCorrectXP   = 50
	QuizIncorrectXP = 10
)

type QuizResult struct {
	quiz.Result
	Kind      types.ContentKind `json:"kind"`
	ContentID uuid.UUID         `json:"contentId"`
	Answer    string            `json:"answer"`
	XPAwarded int               `json:"xpAwarded"`
	// Repeat is true when the answer was already graded; the first grade is returned.
	Repeat bool `json:"repeat"`
}

type QuizService interface {
	SubmitAnswer(dbc dbctx.Context, kind types.ContentKind, answer string) (*QuizResult, error)
}

type quizService struct {
	db         *gorm.DB
	log        *logger.Logger
	messages   MessageService
	activities ActivityService
	activity   repos.ActivityRepo
	responses  repos.UserResponseRepo
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	messages MessageService,
	activities ActivityService,
	activity repos.ActivityRepo,
	responses repos.UserResponseRepo,
) QuizService {
	return &quizService{
		db:         db,
		log:        baseLog.With("service", "QuizService"),
		messages:   messages,
		activities: activities,
		activity:   activity,
		responses:  responses,
	}
}

type gradeMetadata struct {
	Kind        types.ContentKind `json:"kind"`
	ContentID   uuid.UUID         `json:"contentId"`
	Answer      string            `json:"answer"`
	Correct     bool              `json:"correct"`
	Headline    string            `json:"headline"`
	Explanation string            `json:"explanation"`
}

// asMap mirrors the json tags above so priorGrade can decode the stored metadata.
func (m gradeMetadata) asMap() map[string]any {
	return map[string]any{
		"kind":        string(m.Kind),
		"contentId":   m.ContentID.String(),
		"answer":      m.Answer,
		"correct":     m.Correct,
		"headline":    m.Headline,
		"explanation": m.Explanation,
	}
}

func quizKey(kind types.ContentKind, contentID uuid.UUID) string {
	return fmt.Sprintf("quiz:%s:%s", kind, contentID)
}

func (s *quizService) SubmitAnswer(dbc dbctx.Context, kind types.ContentKind, answer string) (*QuizResult, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	guess, err := quiz.ParseAnswer(kind, answer)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, apierr.ErrInvalidArgument)
	}
	msgs, err := s.messages.FetchPersonalizedMessages(dbc, userID)
	if err != nil {
		return nil, err
	}
	var (
		contentID  uuid.UUID
		isPhishing bool
	)
	switch {
	case kind == types.KindEmail && msgs.Email != nil:
		contentID, isPhishing = msgs.Email.ID, msgs.Email.IsPhishing
	case kind == types.KindText && msgs.Text != nil:
		contentID, isPhishing = msgs.Text.ID, msgs.Text.IsPhishing
	default:
		return nil, fmt.Errorf("no %s simulation for user: %w", kind, apierr.ErrNotFound)
	}

	key := quizKey(kind, contentID)
	if prior, err := s.priorGrade(dbc, userID, key); err != nil || prior != nil {
		return prior, err
	}

	graded := quiz.Grade(kind, guess, isPhishing)
	xp := QuizIncorrectXP
	if graded.Correct {
		xp = QuizCorrectXP
	}
	meta := gradeMetadata{
		Kind:        kind,
		ContentID:   contentID,
		Answer:      answer,
		Correct:     graded.Correct,
		Headline:    graded.Headline,
		Explanation: graded.Explanation,
	}

	root := dbc.Tx
	if root == nil {
		root = s.db
	}
	var rec RecordResult
	err = root.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		var err error
		rec, err = s.activities.RecordActivity(inner, ActivityInput{
			UserID:         userID,
			Type:           types.ActivityPracticeCompleted,
			Description:    fmt.Sprintf("Practiced spotting a phishing %s", kind),
			XPAmount:       xp,
			Emoji:          "🎯",
			Metadata:       meta.asMap(),
			IdempotencyKey: key,
		})
		if err != nil {
			return err
		}
		if !rec.Created {
			return nil
		}
		correct := graded.Correct
		feedback := graded.Explanation
		if err := s.responses.Create(inner, &types.UserResponse{
			UserID:    userID,
			Response:  answer,
			IsCorrect: &correct,
			Feedback:  &feedback,
		}); err != nil {
			return apierr.Storage("record response", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !rec.Created {
		// A concurrent submission won; report its grade.
		prior, err := s.priorGrade(dbc, userID, key)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			return prior, nil
		}
	}
	observability.Current().IncQuizAnswer(string(kind), graded.Correct)
	return &QuizResult{
		Result:    graded,
		Kind:      kind,
		ContentID: contentID,
		Answer:    answer,
		XPAwarded: xp,
	}, nil
}

func (s *quizService) priorGrade(dbc dbctx.Context, userID uuid.UUID, key string) (*QuizResult, error) {
	prior, err := s.activity.GetByDedupeKey(dbc, userID, key)
	if err != nil {
		return nil, apierr.Storage("lookup quiz grade", err)
	}
	if prior == nil {
		return nil, nil
	}
	var meta gradeMetadata
	if len(prior.Metadata) > 0 {
		if err := json.Unmarshal(prior.Metadata, &meta); err != nil {
			s.log.Warn("Unreadable quiz metadata", "activity_id", prior.ID, "error", err)
		}
	}
	return &QuizResult{
		Result: quiz.Result{
			Correct:     meta.Correct,
			Headline:    meta.Headline,
			Explanation: meta.Explanation,
		},
		Kind:      meta.Kind,
		ContentID: meta.ContentID,
		Answer:    meta.Answer,
		XPAwarded: prior.XPAmount,
		Repeat:    true,
	}, nil
}
