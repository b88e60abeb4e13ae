package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

func (e *testEnv) onboardingService() OnboardingService {
	return NewOnboardingService(
		e.log,
		NewUserService(e.log, e.users),
		e.activityService(),
		NewJobService(e.log, e.jobRuns),
	)
}

func TestOnboardingScenario(t *testing.T) {
	env := newTestEnv(t)
	svc := env.onboardingService()
	ai := newFakeLLM()
	u := env.seedUser(t)
	dbc := asUser(u.ID)

	profile := ProfileInput{
		Age:       testutil.PtrInt(34),
		Gender:    testutil.PtrString("female"),
		Interests: testutil.PtrString("gardening"),
	}
	res, err := svc.CompleteOnboarding(dbc, profile)
	if err != nil {
		t.Fatalf("CompleteOnboarding: %v", err)
	}
	if res.Job == nil || !res.JobCreated || res.Job.JobType != JobTypePhishingContentGenerate || res.Job.Status != types.JobStatusQueued {
		t.Fatalf("expected a queued generation job: %+v", res)
	}

	again, err := svc.CompleteOnboarding(dbc, profile)
	if err != nil {
		t.Fatalf("CompleteOnboarding (again): %v", err)
	}
	if again.JobCreated || again.Job.ID != res.Job.ID {
		t.Fatalf("pending job should be reused: %+v", again)
	}
	if xp, _ := env.activityService().TotalXP(dbc, u.ID); xp != SignupXP {
		t.Fatalf("signup xp granted once, got %d", xp)
	}

	// What the worker does for the queued job.
	if _, err := env.phishingService(ai).Generate(dbc, u.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, p := range ai.prompts {
		if !strings.Contains(p, "gardening") || !strings.Contains(p, "female") {
			t.Fatalf("prompt should embed the profile: %q", p)
		}
	}

	linked := env.reloadUser(t, u.ID)
	if linked.EmailMessageID == nil || linked.TextMessageID == nil {
		t.Fatalf("both links must be set: %+v", linked)
	}
	msgs, err := env.messageService(false).FetchPersonalizedMessages(dbc, u.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if msgs.Email == nil || msgs.Text == nil {
		t.Fatalf("expected both simulations: %+v", msgs)
	}
	if len(msgs.Email.RedFlags) < 3 || len(msgs.Text.RedFlags) < 3 {
		t.Fatalf("expected at least 3 red flags each: %v / %v", msgs.Email.RedFlags, msgs.Text.RedFlags)
	}
}

func TestOnboardingRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.onboardingService().CompleteOnboarding(anonymous(), ProfileInput{}); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}
