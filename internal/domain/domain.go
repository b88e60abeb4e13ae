package domain

import (
	"github.com/yungbote/verifeye-backend/internal/domain/content"
	"github.com/yungbote/verifeye-backend/internal/domain/gamification"
	"github.com/yungbote/verifeye-backend/internal/domain/jobs"
	"github.com/yungbote/verifeye-backend/internal/domain/learning"
	"github.com/yungbote/verifeye-backend/internal/domain/user"
)

type User = user.User

type Activity = gamification.Activity
type ActivityType = gamification.ActivityType

const (
	ActivitySignup            = gamification.ActivitySignup
	ActivityCompleteLesson    = gamification.ActivityCompleteLesson
	ActivityStreakMilestone   = gamification.ActivityStreakMilestone
	ActivityDailyLogin        = gamification.ActivityDailyLogin
	ActivityPracticeCompleted = gamification.ActivityPracticeCompleted
)

type ContentKind = content.Kind

const (
	KindEmail = content.KindEmail
	KindText  = content.KindText
)

type EmailMessage = content.EmailMessage
type TextMessage = content.TextMessage

type Lesson = learning.Lesson
type LessonItem = learning.LessonItem
type LessonItemType = learning.LessonItemType
type UserLesson = learning.UserLesson
type UserResponse = learning.UserResponse

type JobRun = jobs.JobRun

const (
	JobStatusQueued    = jobs.StatusQueued
	JobStatusRunning   = jobs.StatusRunning
	JobStatusSucceeded = jobs.StatusSucceeded
	JobStatusFailed    = jobs.StatusFailed
)

// Models lists every table owned by the service, in migration order.
func Models() []interface{} {
	return []interface{}{
		&EmailMessage{},
		&TextMessage{},
		&User{},
		&Activity{},
		&Lesson{},
		&LessonItem{},
		&UserLesson{},
		&UserResponse{},
		&JobRun{},
	}
}
