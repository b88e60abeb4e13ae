package learning

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
)

func TestLessonRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewLessonRepo(db, testutil.Logger(t))

	seed := []*types.Lesson{
		{Key: "t-intro", CourseKey: "t-course", Title: "Intro", Description: "d", Order: 1, XPReward: 50, IsPublished: true},
		{Key: "t-links", CourseKey: "t-course", Title: "Links", Description: "d", Order: 2, XPReward: 75, IsPublished: true},
	}
	if err := repo.UpsertByKey(dbc, seed); err != nil {
		t.Fatalf("UpsertByKey: %v", err)
	}
	first, err := repo.GetByKey(dbc, "t-intro")
	if err != nil || first == nil {
		t.Fatalf("GetByKey: got=%+v err=%v", first, err)
	}

	again := []*types.Lesson{
		{Key: "t-intro", CourseKey: "t-course", Title: "Intro v2", Description: "d", Order: 1, XPReward: 60, IsPublished: true},
	}
	if err := repo.UpsertByKey(dbc, again); err != nil {
		t.Fatalf("UpsertByKey (again): %v", err)
	}
	second, err := repo.GetByKey(dbc, "t-intro")
	if err != nil || second == nil {
		t.Fatalf("GetByKey (again): got=%+v err=%v", second, err)
	}
	if second.ID != first.ID || second.Title != "Intro v2" || second.XPReward != 60 {
		t.Fatalf("upsert did not update in place: first=%+v second=%+v", first, second)
	}

	all, err := repo.ListAll(dbc)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	var keys []string
	for _, l := range all {
		if l.CourseKey == "t-course" {
			keys = append(keys, l.Key)
		}
	}
	if len(keys) != 2 || keys[0] != "t-intro" || keys[1] != "t-links" {
		t.Fatalf("ListAll order: %v", keys)
	}
}

func TestUserLessonMarkCompleted(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	lessons := NewLessonRepo(db, testutil.Logger(t))
	repo := NewUserLessonRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "learner@example.com")
	if err := lessons.UpsertByKey(dbc, []*types.Lesson{
		{Key: "ul-intro", CourseKey: "ul", Title: "Intro", Description: "d", Order: 1, XPReward: 50},
	}); err != nil {
		t.Fatalf("seed lesson: %v", err)
	}
	l, _ := lessons.GetByKey(dbc, "ul-intro")

	first := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	if err := repo.MarkCompleted(dbc, u.ID, l.ID, first); err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if err := repo.MarkCompleted(dbc, u.ID, l.ID, first.Add(30*time.Minute)); err != nil {
		t.Fatalf("MarkCompleted (again): %v", err)
	}

	rows, err := repo.ListByUser(dbc, u.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].IsCompleted || rows[0].Progress != 100 || rows[0].CompletedAt == nil {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if !rows[0].CompletedAt.Equal(first) {
		t.Fatalf("completed_at moved: got %v want %v", rows[0].CompletedAt, first)
	}
}
