package services

import (
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

type OnboardingResult struct {
	Job *types.JobRun `json:"job"`
	// JobCreated is false when an earlier generation job was still pending.
	JobCreated bool `json:"jobCreated"`
}

// OnboardingService finishes the welcome flow: profile, signup XP, then content generation
// queued for the worker pool.
type OnboardingService interface {
	CompleteOnboarding(dbc dbctx.Context, in ProfileInput) (*OnboardingResult, error)
}

type onboardingService struct {
	log        *logger.Logger
	users      UserService
	activities ActivityService
	jobs       JobService
}

func NewOnboardingService(baseLog *logger.Logger, users UserService, activities ActivityService, jobs JobService) OnboardingService {
	return &onboardingService{
		log:        baseLog.With("service", "OnboardingService"),
		users:      users,
		activities: activities,
		jobs:       jobs,
	}
}

func (s *onboardingService) CompleteOnboarding(dbc dbctx.Context, in ProfileInput) (*OnboardingResult, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	if err := s.users.SaveProfile(dbc, in); err != nil {
		return nil, err
	}
	if _, err := s.activities.CreateSignupActivity(dbc, userID); err != nil {
		return nil, err
	}
	job, created, err := s.jobs.EnqueueUnique(dbc, userID, JobTypePhishingContentGenerate, map[string]any{
		"user_id": userID.String(),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Onboarding completed", "user_id", userID, "job_id", job.ID, "job_created", created)
	return &OnboardingResult{Job: job, JobCreated: created}, nil
}
