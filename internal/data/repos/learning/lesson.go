package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type LessonRepo interface {
	// UpsertByKey inserts new lessons and refreshes catalog fields of existing ones. IDs of
	// existing rows are kept.
	UpsertByKey(dbc dbctx.Context, lessons []*types.Lesson) error
	GetByKey(dbc dbctx.Context, key string) (*types.Lesson, error)
	ListAll(dbc dbctx.Context) ([]*types.Lesson, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{
		db:  db,
		log: baseLog.With("repo", "LessonRepo"),
	}
}

func (r *lessonRepo) UpsertByKey(dbc dbctx.Context, lessons []*types.Lesson) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return nil
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "lesson_key"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"course_key", "title", "description", "position", "xp_reward", "is_published", "updated_at",
			}),
		}).
		Create(&lessons).Error
}

func (r *lessonRepo) GetByKey(dbc dbctx.Context, key string) (*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if key == "" {
		return nil, nil
	}
	var l types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Where("lesson_key = ?", key).
		Limit(1).
		Find(&l).Error; err != nil {
		return nil, err
	}
	if l.ID == uuid.Nil {
		return nil, nil
	}
	return &l, nil
}

func (r *lessonRepo) ListAll(dbc dbctx.Context) ([]*types.Lesson, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var out []*types.Lesson
	if err := transaction.WithContext(dbc.Ctx).
		Order("course_key ASC").
		Order("position ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
