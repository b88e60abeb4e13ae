package content

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
)

func TestEmailMessageRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewEmailMessageRepo(db, testutil.Logger(t))

	msg := testutil.SeedEmail(t, ctx, tx, testutil.PtrString(`["a"]`))
	got, err := repo.GetByID(dbc, msg.ID)
	if err != nil || got == nil || got.SenderEmail != "security@paypa1.com" {
		t.Fatalf("GetByID: got=%+v err=%v", got, err)
	}
	if got, err := repo.GetByID(dbc, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetByID (missing): got=%+v err=%v", got, err)
	}

	ok, err := repo.UpdateFields(dbc, msg.ID, map[string]interface{}{"subject": "Updated"})
	if err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}
	got, _ = repo.GetByID(dbc, msg.ID)
	if got.Subject != "Updated" {
		t.Fatalf("UpdateFields: subject=%q", got.Subject)
	}
}

func TestDeleteOrphans(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	emails := NewEmailMessageRepo(db, testutil.Logger(t))
	texts := NewTextMessageRepo(db, testutil.Logger(t))

	linkedEmail := testutil.SeedEmail(t, ctx, tx, nil)
	orphanEmail := testutil.SeedEmail(t, ctx, tx, nil)
	linkedText := testutil.SeedText(t, ctx, tx, nil)
	orphanText := testutil.SeedText(t, ctx, tx, nil)

	u := testutil.SeedUser(t, ctx, tx, "owner@example.com")
	if err := tx.Model(u).Updates(map[string]interface{}{
		"email_message_id": linkedEmail.ID,
		"text_message_id":  linkedText.ID,
	}).Error; err != nil {
		t.Fatalf("link: %v", err)
	}

	// Nothing is old enough yet.
	if n, err := emails.DeleteOrphans(dbc, time.Now().UTC().Add(-time.Hour)); err != nil || n != 0 {
		t.Fatalf("DeleteOrphans (young): n=%d err=%v", n, err)
	}

	cutoff := time.Now().UTC().Add(time.Minute)
	if n, err := emails.DeleteOrphans(dbc, cutoff); err != nil || n != 1 {
		t.Fatalf("DeleteOrphans email: n=%d err=%v", n, err)
	}
	if n, err := texts.DeleteOrphans(dbc, cutoff); err != nil || n != 1 {
		t.Fatalf("DeleteOrphans text: n=%d err=%v", n, err)
	}

	if got, _ := emails.GetByID(dbc, orphanEmail.ID); got != nil {
		t.Fatalf("orphan email survived")
	}
	if got, _ := texts.GetByID(dbc, orphanText.ID); got != nil {
		t.Fatalf("orphan text survived")
	}
	if got, _ := emails.GetByID(dbc, linkedEmail.ID); got == nil {
		t.Fatalf("linked email deleted")
	}
	if got, _ := texts.GetByID(dbc, linkedText.ID); got == nil {
		t.Fatalf("linked text deleted")
	}
}
