package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Key         string    `gorm:"column:lesson_key;not null;uniqueIndex" json:"key"`
	CourseKey   string    `gorm:"column:course_key;not null;index" json:"courseKey"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;not null" json:"description"`
	Order       int       `gorm:"column:position;not null" json:"order"`
	XPReward    int       `gorm:"column:xp_reward;not null;default:0" json:"xpReward"`
	IsPublished bool      `gorm:"column:is_published;not null;default:false" json:"isPublished"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type LessonItemType string

const (
	LessonItemText             LessonItemType = "text"
	LessonItemInteractiveEmail LessonItemType = "interactive_email"
	LessonItemInteractiveText  LessonItemType = "interactive_text"
)

// LessonItem is per-user generated content inside a lesson. Content may be NULL until the
// generator reaches it.
type LessonItem struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"lessonId"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"userId"`
	Type          LessonItemType `gorm:"column:type;not null" json:"type"`
	Content       *string        `gorm:"column:content" json:"content"`
	Order         int            `gorm:"column:position;not null" json:"order"`
	IsAIGenerated bool           `gorm:"column:is_ai_generated;not null;default:true" json:"isAiGenerated"`
	Metadata      datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	CreatedAt     time.Time      `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (LessonItem) TableName() string { return "lesson_item" }

func (li *LessonItem) BeforeCreate(tx *gorm.DB) error {
	if li.ID == uuid.Nil {
		li.ID = uuid.New()
	}
	return nil
}

type UserLesson struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson,priority:1" json:"userId"`
	LessonID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson,priority:2" json:"lessonId"`
	IsCompleted    bool       `gorm:"column:is_completed;not null;default:false" json:"isCompleted"`
	Progress       int        `gorm:"column:progress;not null;default:0" json:"progress"`
	LastAccessedAt time.Time  `gorm:"column:last_accessed_at;not null" json:"lastAccessedAt"`
	CompletedAt    *time.Time `gorm:"column:completed_at" json:"completedAt"`
	CreatedAt      time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (UserLesson) TableName() string { return "user_lesson" }

func (ul *UserLesson) BeforeCreate(tx *gorm.DB) error {
	if ul.ID == uuid.Nil {
		ul.ID = uuid.New()
	}
	if ul.LastAccessedAt.IsZero() {
		ul.LastAccessedAt = time.Now().UTC()
	}
	return nil
}

// UserResponse is a learner's answer to an interactive item. LessonItemID is nil for answers
// to the onboarding simulations, which are not lesson items.
type UserResponse struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"userId"`
	LessonItemID *uuid.UUID `gorm:"type:uuid;index" json:"lessonItemId"`
	Response     string     `gorm:"column:response;not null" json:"response"`
	IsCorrect    *bool      `gorm:"column:is_correct" json:"isCorrect"`
	Feedback     *string    `gorm:"column:feedback" json:"feedback"`
	CreatedAt    time.Time  `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

func (UserResponse) TableName() string { return "user_response" }

func (ur *UserResponse) BeforeCreate(tx *gorm.DB) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	return nil
}
