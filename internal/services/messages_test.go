package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

func TestFetchWithoutLinks(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService(false)
	u := env.seedUser(t)

	msgs, err := svc.FetchPersonalizedMessages(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if msgs.Email != nil || msgs.Text != nil {
		t.Fatalf("expected no content, got %+v", msgs)
	}
	if _, err := svc.FetchPersonalizedMessages(anonymous(), uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
}

func TestFetchFallsBackOnBadRedFlags(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService(false)
	ctx := context.Background()
	u := env.seedUser(t)
	email := testutil.SeedEmail(t, ctx, env.db, testutil.PtrString("{not json"))
	text := testutil.SeedText(t, ctx, env.db, nil)
	if err := env.users.SetContentLinks(anonymous(), u.ID, email.ID, text.ID); err != nil {
		t.Fatalf("SetContentLinks: %v", err)
	}

	msgs, err := svc.FetchPersonalizedMessages(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if msgs.Email == nil || msgs.Text == nil {
		t.Fatalf("expected both messages: %+v", msgs)
	}
	if len(msgs.Email.RedFlags) != 4 || msgs.Email.RedFlags[0] != "Suspicious sender email (paypa1.com instead of paypal.com)" {
		t.Fatalf("email fallback: %v", msgs.Email.RedFlags)
	}
	if len(msgs.Text.RedFlags) != 5 || msgs.Text.RedFlags[3] != "Sender is unknown" {
		t.Fatalf("text fallback: %v", msgs.Text.RedFlags)
	}
	if !msgs.Email.IsPhishing || !msgs.Text.IsPhishing {
		t.Fatalf("fetched content is always reported as phishing")
	}
	if msgs.Email.IsScam != nil {
		t.Fatalf("is_scam must stay hidden unless enabled")
	}
	if msgs.Email.SenderEmail != "security@paypa1.com" || msgs.Text.SenderPhone != "+1 555 0100" {
		t.Fatalf("display fields: %+v %+v", msgs.Email, msgs.Text)
	}
}

func TestFetchReportsLabelWhenEnabled(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService(true)
	ctx := context.Background()
	u := env.seedUser(t)
	email := testutil.SeedEmail(t, ctx, env.db, testutil.PtrString(`["a","b","c"]`))
	text := testutil.SeedText(t, ctx, env.db, nil)
	if err := env.users.SetContentLinks(anonymous(), u.ID, email.ID, text.ID); err != nil {
		t.Fatalf("SetContentLinks: %v", err)
	}

	msgs, err := svc.FetchPersonalizedMessages(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if msgs.Email.IsScam == nil || !*msgs.Email.IsScam {
		t.Fatalf("expected is_scam reported")
	}
	if len(msgs.Email.RedFlags) != 3 {
		t.Fatalf("stored flags should be kept: %v", msgs.Email.RedFlags)
	}
}

func TestFetchDanglingLinkIsNil(t *testing.T) {
	env := newTestEnv(t)
	svc := env.messageService(false)
	u := env.seedUser(t)
	if err := env.users.SetContentLinks(anonymous(), u.ID, uuid.New(), uuid.New()); err != nil {
		t.Fatalf("SetContentLinks: %v", err)
	}
	msgs, err := svc.FetchPersonalizedMessages(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if msgs.Email != nil || msgs.Text != nil {
		t.Fatalf("dangling links resolve to nil: %+v", msgs)
	}
}
