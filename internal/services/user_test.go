package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

func TestGetMe(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.log, env.users)
	u := env.seedUser(t)

	if _, err := svc.GetMe(anonymous()); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("anonymous: expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.GetMe(asUser(uuid.New())); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
	got, err := svc.GetMe(asUser(u.ID))
	if err != nil || got.ID != u.ID || got.Email != u.Email {
		t.Fatalf("GetMe: %+v %v", got, err)
	}
}

func TestSaveProfile(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.log, env.users)
	u := env.seedUser(t)
	dbc := asUser(u.ID)

	err := svc.SaveProfile(dbc, ProfileInput{
		Age:       testutil.PtrInt(34),
		Gender:    testutil.PtrString(" Female "),
		Interests: testutil.PtrString("gardening"),
	})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	got := env.reloadUser(t, u.ID)
	if got.Age == nil || *got.Age != 34 || got.Gender == nil || *got.Gender != "female" || got.Interests == nil || *got.Interests != "gardening" {
		t.Fatalf("profile not stored: %+v", got)
	}
	if got.UpdatedAt.Before(u.UpdatedAt) {
		t.Fatalf("updated_at moved backwards")
	}

	// Zero and blank answers clear the columns.
	if err := svc.SaveProfile(dbc, ProfileInput{Age: testutil.PtrInt(0), Gender: testutil.PtrString(""), Interests: nil}); err != nil {
		t.Fatalf("SaveProfile (clear): %v", err)
	}
	got = env.reloadUser(t, u.ID)
	if got.Age != nil || got.Gender != nil || got.Interests != nil {
		t.Fatalf("expected NULL profile, got %+v", got)
	}
}

func TestSaveProfileRejects(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.log, env.users)
	u := env.seedUser(t)

	if err := svc.SaveProfile(anonymous(), ProfileInput{Age: testutil.PtrInt(30)}); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("anonymous: expected ErrUnauthorized, got %v", err)
	}
	if err := svc.SaveProfile(asUser(u.ID), ProfileInput{Age: testutil.PtrInt(131)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("age 131: expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SaveProfile(asUser(u.ID), ProfileInput{Age: testutil.PtrInt(-2)}); !errors.Is(err, apierr.ErrInvalidArgument) {
		t.Fatalf("age -2: expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SaveProfile(asUser(uuid.New()), ProfileInput{}); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
	if got := env.reloadUser(t, u.ID); got.Age != nil {
		t.Fatalf("rejected input must not write: %+v", got)
	}
}

func TestGetStreak(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.log, env.users)
	u := env.seedUser(t)

	if s, err := svc.GetStreak(asUser(u.ID)); err != nil || s != 0 {
		t.Fatalf("fresh streak: %d %v", s, err)
	}
	if err := env.db.Model(u).Update("streak", 6).Error; err != nil {
		t.Fatalf("set streak: %v", err)
	}
	if s, err := svc.GetStreak(asUser(u.ID)); err != nil || s != 6 {
		t.Fatalf("streak: %d %v", s, err)
	}
	if s, err := svc.GetStreak(asUser(uuid.New())); err != nil || s != 0 {
		t.Fatalf("missing user streak: %d %v", s, err)
	}
	if _, err := svc.GetStreak(anonymous()); !errors.Is(err, apierr.ErrUnauthorized) {
		t.Fatalf("anonymous: %v", err)
	}
}
