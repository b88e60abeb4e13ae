package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/modules/curriculum"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type LessonCompletion struct {
	LessonKey        string    `json:"lessonKey"`
	ActivityID       uuid.UUID `json:"activityId"`
	XPAwarded        int       `json:"xpAwarded"`
	AlreadyCompleted bool      `json:"alreadyCompleted"`
}

type CurriculumService interface {
	// Seed writes the embedded catalog into the lesson table. Safe to run on every start.
	Seed(ctx context.Context) error
	ListCourses(dbc dbctx.Context) ([]curriculum.CourseView, error)
	CompleteLesson(dbc dbctx.Context, lessonKey string) (*LessonCompletion, error)
	ListBadges(dbc dbctx.Context) ([]curriculum.BadgeView, error)
}

type curriculumService struct {
	db          *gorm.DB
	log         *logger.Logger
	catalog     *curriculum.Catalog
	lessons     repos.LessonRepo
	userLessons repos.UserLessonRepo
	activities  ActivityService
}

func NewCurriculumService(
	db *gorm.DB,
	baseLog *logger.Logger,
	catalog *curriculum.Catalog,
	lessons repos.LessonRepo,
	userLessons repos.UserLessonRepo,
	activities ActivityService,
) CurriculumService {
	return &curriculumService{
		db:          db,
		log:         baseLog.With("service", "CurriculumService"),
		catalog:     catalog,
		lessons:     lessons,
		userLessons: userLessons,
		activities:  activities,
	}
}

func (s *curriculumService) Seed(ctx context.Context) error {
	rows := s.catalog.LessonRows()
	if err := s.lessons.UpsertByKey(dbctx.Of(ctx), rows); err != nil {
		return apierr.Storage("seed lessons", err)
	}
	s.log.Info("Curriculum seeded", "lessons", len(rows))
	return nil
}

// completedKeys maps the learner's completed lessons back to catalog keys.
func (s *curriculumService) completedKeys(dbc dbctx.Context, userID uuid.UUID) (map[string]bool, error) {
	progress, err := s.userLessons.ListByUser(dbc, userID)
	if err != nil {
		return nil, apierr.Storage("list user lessons", err)
	}
	out := map[string]bool{}
	if len(progress) == 0 {
		return out, nil
	}
	all, err := s.lessons.ListAll(dbc)
	if err != nil {
		return nil, apierr.Storage("list lessons", err)
	}
	keyByID := make(map[uuid.UUID]string, len(all))
	for _, l := range all {
		keyByID[l.ID] = l.Key
	}
	for _, ul := range progress {
		if !ul.IsCompleted {
			continue
		}
		if key, ok := keyByID[ul.LessonID]; ok {
			out[key] = true
		}
	}
	return out, nil
}

func (s *curriculumService) ListCourses(dbc dbctx.Context) ([]curriculum.CourseView, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	done, err := s.completedKeys(dbc, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.Progress(done), nil
}

func (s *curriculumService) ListBadges(dbc dbctx.Context) ([]curriculum.BadgeView, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	done, err := s.completedKeys(dbc, userID)
	if err != nil {
		return nil, err
	}
	return s.catalog.BadgeProgress(done), nil
}

// CompleteLesson marks the lesson done and grants its XP once. Only the learner's current
// lesson or an already completed one may be completed.
func (s *curriculumService) CompleteLesson(dbc dbctx.Context, lessonKey string) (*LessonCompletion, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	def, course, ok := s.catalog.Lesson(lessonKey)
	if !ok {
		return nil, fmt.Errorf("lesson %q: %w", lessonKey, apierr.ErrNotFound)
	}
	lesson, err := s.lessons.GetByKey(dbc, lessonKey)
	if err != nil {
		return nil, apierr.Storage("get lesson", err)
	}
	if lesson == nil {
		return nil, fmt.Errorf("lesson %q not seeded: %w", lessonKey, apierr.ErrNotFound)
	}
	done, err := s.completedKeys(dbc, userID)
	if err != nil {
		return nil, err
	}
	view := curriculum.CourseProgress(course, done)
	for _, lv := range view.Lessons {
		if lv.Key == lessonKey && lv.Status == curriculum.StatusLocked {
			return nil, fmt.Errorf("lesson %q is locked: %w", lessonKey, apierr.ErrInvalidArgument)
		}
	}

	root := dbc.Tx
	if root == nil {
		root = s.db
	}
	var rec RecordResult
	err = root.WithContext(dbc.Ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: dbc.Ctx, Tx: tx}
		if err := s.userLessons.MarkCompleted(inner, userID, lesson.ID, time.Now().UTC()); err != nil {
			return apierr.Storage("mark lesson completed", err)
		}
		var err error
		rec, err = s.activities.RecordActivity(inner, ActivityInput{
			UserID:         userID,
			Type:           types.ActivityCompleteLesson,
			Description:    "Completed " + def.Title,
			XPAmount:       def.Points,
			Emoji:          "📚",
			Metadata:       map[string]any{"lessonKey": def.Key, "courseKey": course.Key},
			IdempotencyKey: "lesson:" + def.Key,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	out := &LessonCompletion{
		LessonKey:        def.Key,
		ActivityID:       rec.ID,
		AlreadyCompleted: !rec.Created,
	}
	if rec.Created {
		out.XPAwarded = def.Points
	}
	return out, nil
}
