package gamification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActivityType string

const (
	ActivitySignup            ActivityType = "signup"
	ActivityCompleteLesson    ActivityType = "complete_lesson"
	ActivityStreakMilestone   ActivityType = "streak_milestone"
	ActivityDailyLogin        ActivityType = "daily_login"
	ActivityPracticeCompleted ActivityType = "practice_completed"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivitySignup, ActivityCompleteLesson, ActivityStreakMilestone, ActivityDailyLogin, ActivityPracticeCompleted:
		return true
	default:
		return false
	}
}

// Activity is one append-only gamification event. A user's XP is the sum of XPAmount over
// their rows; there is no running counter.
//
// DedupeKey is unique per user. It is "<type>:<description>" unless the caller supplied an
// explicit idempotency key.
type Activity struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_activity_user_dedupe,priority:1" json:"userId"`
	Type        ActivityType   `gorm:"column:type;not null;index" json:"type"`
	Description string         `gorm:"column:description;not null" json:"description"`
	XPAmount    int            `gorm:"column:xp_amount;not null;default:0" json:"xpAmount"`
	Emoji       string         `gorm:"column:emoji;not null" json:"emoji"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	DedupeKey   string         `gorm:"column:dedupe_key;not null;uniqueIndex:idx_activity_user_dedupe,priority:2" json:"-"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"createdAt"`
}

func (Activity) TableName() string { return "activity" }

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return nil
}
