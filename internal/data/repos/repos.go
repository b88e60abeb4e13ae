package repos

import (
	"github.com/yungbote/verifeye-backend/internal/data/repos/content"
	"github.com/yungbote/verifeye-backend/internal/data/repos/gamification"
	"github.com/yungbote/verifeye-backend/internal/data/repos/jobs"
	"github.com/yungbote/verifeye-backend/internal/data/repos/learning"
	"github.com/yungbote/verifeye-backend/internal/data/repos/user"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type ActivityRepo = gamification.ActivityRepo
type XPTotal = gamification.XPTotal

type EmailMessageRepo = content.EmailMessageRepo
type TextMessageRepo = content.TextMessageRepo

type LessonRepo = learning.LessonRepo
type UserLessonRepo = learning.UserLessonRepo
type UserResponseRepo = learning.UserResponseRepo

type JobRunRepo = jobs.JobRunRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return gamification.NewActivityRepo(db, baseLog)
}

func NewEmailMessageRepo(db *gorm.DB, baseLog *logger.Logger) EmailMessageRepo {
	return content.NewEmailMessageRepo(db, baseLog)
}
func NewTextMessageRepo(db *gorm.DB, baseLog *logger.Logger) TextMessageRepo {
	return content.NewTextMessageRepo(db, baseLog)
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return learning.NewLessonRepo(db, baseLog)
}
func NewUserLessonRepo(db *gorm.DB, baseLog *logger.Logger) UserLessonRepo {
	return learning.NewUserLessonRepo(db, baseLog)
}
func NewUserResponseRepo(db *gorm.DB, baseLog *logger.Logger) UserResponseRepo {
	return learning.NewUserResponseRepo(db, baseLog)
}

func NewJobRunRepo(db *gorm.DB, baseLog *logger.Logger) JobRunRepo {
	return jobs.NewJobRunRepo(db, baseLog)
}
