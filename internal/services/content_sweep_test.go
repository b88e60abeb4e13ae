package services

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	types "github.com/yungbote/verifeye-backend/internal/domain"
)

func TestSweepOrphans(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := NewContentSweepService(env.log, env.emails, env.texts, time.Hour)

	old := time.Now().UTC().Add(-2 * time.Hour)
	age := func(model any, id any) {
		if err := env.db.Model(model).Where("id = ?", id).UpdateColumn("created_at", old).Error; err != nil {
			t.Fatalf("age row: %v", err)
		}
	}

	u := env.seedUser(t)
	linkedEmail := testutil.SeedEmail(t, ctx, env.db, nil)
	linkedText := testutil.SeedText(t, ctx, env.db, nil)
	if err := env.users.SetContentLinks(anonymous(), u.ID, linkedEmail.ID, linkedText.ID); err != nil {
		t.Fatalf("SetContentLinks: %v", err)
	}
	orphanEmail := testutil.SeedEmail(t, ctx, env.db, nil)
	orphanText := testutil.SeedText(t, ctx, env.db, nil)
	freshEmail := testutil.SeedEmail(t, ctx, env.db, nil)

	age(&types.EmailMessage{}, linkedEmail.ID)
	age(&types.TextMessage{}, linkedText.ID)
	age(&types.EmailMessage{}, orphanEmail.ID)
	age(&types.TextMessage{}, orphanText.ID)

	res, err := svc.SweepOrphans(ctx)
	if err != nil {
		t.Fatalf("SweepOrphans: %v", err)
	}
	if res.Emails < 1 || res.Texts < 1 {
		t.Fatalf("expected orphans removed: %+v", res)
	}
	if m, _ := env.emails.GetByID(anonymous(), orphanEmail.ID); m != nil {
		t.Fatalf("old orphan email survived")
	}
	if m, _ := env.texts.GetByID(anonymous(), orphanText.ID); m != nil {
		t.Fatalf("old orphan text survived")
	}
	if m, _ := env.emails.GetByID(anonymous(), linkedEmail.ID); m == nil {
		t.Fatalf("linked email was deleted")
	}
	if m, _ := env.texts.GetByID(anonymous(), linkedText.ID); m == nil {
		t.Fatalf("linked text was deleted")
	}
	if m, _ := env.emails.GetByID(anonymous(), freshEmail.ID); m == nil {
		t.Fatalf("fresh orphan should be kept until it ages out")
	}
}
