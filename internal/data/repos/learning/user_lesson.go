package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type UserLessonRepo interface {
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserLesson, error)
	MarkCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID, at time.Time) error
}

type userLessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserLessonRepo(db *gorm.DB, baseLog *logger.Logger) UserLessonRepo {
	return &userLessonRepo{
		db:  db,
		log: baseLog.With("repo", "UserLessonRepo"),
	}
}

func (r *userLessonRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserLesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.UserLesson
	if userID == uuid.Nil {
		return out, nil
	}
	if err := transaction.WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkCompleted upserts the (user, lesson) row as fully complete. A second call only bumps
// last_accessed_at; completed_at keeps the first completion time.
func (r *userLessonRepo) MarkCompleted(dbc dbctx.Context, userID, lessonID uuid.UUID, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	row := &types.UserLesson{
		UserID:         userID,
		LessonID:       lessonID,
		IsCompleted:    true,
		Progress:       100,
		LastAccessedAt: at,
		CompletedAt:    &at,
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"is_completed":     true,
				"progress":         100,
				"last_accessed_at": at,
				"completed_at":     gorm.Expr("COALESCE(user_lesson.completed_at, ?)", at),
				"updated_at":       at,
			}),
		}).
		Create(row).Error
}
