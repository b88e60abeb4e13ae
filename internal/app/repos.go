package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type Repos struct {
	User         repos.UserRepo
	Activity     repos.ActivityRepo
	EmailMessage repos.EmailMessageRepo
	TextMessage  repos.TextMessageRepo
	Lesson       repos.LessonRepo
	UserLesson   repos.UserLessonRepo
	UserResponse repos.UserResponseRepo
	JobRun       repos.JobRunRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:         repos.NewUserRepo(db, log),
		Activity:     repos.NewActivityRepo(db, log),
		EmailMessage: repos.NewEmailMessageRepo(db, log),
		TextMessage:  repos.NewTextMessageRepo(db, log),
		Lesson:       repos.NewLessonRepo(db, log),
		UserLesson:   repos.NewUserLessonRepo(db, log),
		UserResponse: repos.NewUserResponseRepo(db, log),
		JobRun:       repos.NewJobRunRepo(db, log),
	}
}
