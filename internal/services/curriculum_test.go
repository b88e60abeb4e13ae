package services

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/verifeye-backend/internal/modules/curriculum"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

func (e *testEnv) curriculumService(t *testing.T) CurriculumService {
	t.Helper()
	cat, err := curriculum.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	svc := NewCurriculumService(e.db, e.log, cat, e.lessons, e.userLessons, e.activityService())
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	return svc
}

func TestCurriculumSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := env.curriculumService(t)
	if err := svc.Seed(context.Background()); err != nil {
		t.Fatalf("Seed (again): %v", err)
	}
	all, err := env.lessons.ListAll(anonymous())
	if err != nil || len(all) != 10 {
		t.Fatalf("expected 10 lessons, got %d err=%v", len(all), err)
	}
}

func TestCompleteLesson(t *testing.T) {
	env := newTestEnv(t)
	svc := env.curriculumService(t)
	u := env.seedUser(t)
	dbc := asUser(u.ID)

	if _, err := svc.CompleteLesson(dbc, "common-red-flags"); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("second lesson should be locked: %v", err)
	}
	if _, err := svc.CompleteLesson(dbc, "no-such-lesson"); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown lesson: %v", err)
	}

	res, err := svc.CompleteLesson(dbc, "what-are-scams")
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if res.XPAwarded != 100 || res.AlreadyCompleted {
		t.Fatalf("unexpected completion: %+v", res)
	}
	again, err := svc.CompleteLesson(dbc, "what-are-scams")
	if err != nil || !again.AlreadyCompleted || again.XPAwarded != 0 || again.ActivityID != res.ActivityID {
		t.Fatalf("repeat completion: %+v %v", again, err)
	}
	if xp, _ := env.activityService().TotalXP(dbc, u.ID); xp != 100 {
		t.Fatalf("lesson xp granted once, got %d", xp)
	}

	courses, err := svc.ListCourses(dbc)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if courses[0].Lessons[0].Status != curriculum.StatusCompleted || courses[0].Lessons[1].Status != curriculum.StatusInProgress {
		t.Fatalf("unexpected lesson states: %+v", courses[0].Lessons[:2])
	}
	if courses[0].Progress != 10 || courses[1].Status != curriculum.StatusLocked {
		t.Fatalf("unexpected course states: %d %s", courses[0].Progress, courses[1].Status)
	}

	badges, err := svc.ListBadges(dbc)
	if err != nil {
		t.Fatalf("ListBadges: %v", err)
	}
	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
			if b.Name != "Scam Spotter" {
				t.Fatalf("unexpected earned badge %s", b.Name)
			}
		}
		if b.Name == "Scam Master" && b.Progress != 10 {
			t.Fatalf("Scam Master progress %d", b.Progress)
		}
	}
	if earned != 1 {
		t.Fatalf("expected one earned badge, got %d", earned)
	}
}

func TestCurriculumRequiresSession(t *testing.T) {
	env := newTestEnv(t)
	svc := env.curriculumService(t)
	if _, err := svc.ListCourses(anonymous()); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("ListCourses: %v", err)
	}
	if _, err := svc.CompleteLesson(anonymous(), "what-are-scams"); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("CompleteLesson: %v", err)
	}
}
