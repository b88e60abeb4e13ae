package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/verifeye-backend/internal/modules/simulation"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
)

func TestGenerateCreatesAndLinks(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	res, err := svc.Generate(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got := env.reloadUser(t, u.ID)
	if got.EmailMessageID == nil || *got.EmailMessageID != res.EmailID {
		t.Fatalf("email link not set: %+v", got)
	}
	if got.TextMessageID == nil || *got.TextMessageID != res.TextID {
		t.Fatalf("text link not set: %+v", got)
	}
	email, err := env.emails.GetByID(anonymous(), res.EmailID)
	if err != nil || email == nil {
		t.Fatalf("email row: %v %v", email, err)
	}
	if email.SenderEmail != "rewards@greenthumb-deals.co" || email.RedFlags == nil || !strings.Contains(*email.RedFlags, "Lookalike domain") {
		t.Fatalf("unexpected email row: %+v", email)
	}
	for _, p := range ai.prompts {
		if !strings.Contains(p, "technology, online safety") || !strings.Contains(p, "30") {
			t.Fatalf("prompt should carry profile defaults: %q", p)
		}
	}
}

func TestGenerateUpdatesInPlace(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	first, err := svc.Generate(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	ai.bySchema[simulation.SchemaNameEmail]["subjectLine"] = "Second subject"
	second, err := svc.Generate(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Generate (again): %v", err)
	}
	if first != second {
		t.Fatalf("regeneration should reuse ids: %+v vs %+v", first, second)
	}
	email, _ := env.emails.GetByID(anonymous(), second.EmailID)
	if email == nil || email.Subject != "Second subject" {
		t.Fatalf("email not updated: %+v", email)
	}
}

func TestGenerateRecreatesMissingRow(t *testing.T) {
	env := newTestEnv(t)
	svc := env.phishingService(newFakeLLM())
	u := env.seedUser(t)

	dangling := uuid.New()
	if err := env.db.Model(u).Update("email_message_id", dangling).Error; err != nil {
		t.Fatalf("set dangling link: %v", err)
	}
	res, err := svc.Generate(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.EmailID == dangling || res.EmailID == uuid.Nil {
		t.Fatalf("expected a fresh email id, got %s", res.EmailID)
	}
}

func TestGenerateFailureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	ai.errs[simulation.SchemaNameText] = errors.New("upstream 503")
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	_, err := svc.Generate(anonymous(), u.ID)
	if !errors.Is(err, apierr.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	got := env.reloadUser(t, u.ID)
	if got.EmailMessageID != nil || got.TextMessageID != nil {
		t.Fatalf("failed generation must not link content: %+v", got)
	}
}

func TestGenerateMalformedPayload(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	ai.bySchema[simulation.SchemaNameEmail] = map[string]any{"body": "only a body"}
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	if _, err := svc.Generate(anonymous(), u.ID); !errors.Is(err, apierr.ErrGeneration) {
		t.Fatalf("expected ErrGeneration for incomplete payload, got %v", err)
	}
}

func TestGenerateRedFlagNormalization(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	ai.bySchema[simulation.SchemaNameEmail]["redFlags"] = []any{}
	ai.bySchema[simulation.SchemaNameText]["redFlags"] = []any{"1", "2", "3", "4", "5", "6", "7"}
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	res, err := svc.Generate(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	email, _ := env.emails.GetByID(anonymous(), res.EmailID)
	if flags := simulation.ParseRedFlags("email", email.RedFlags); len(flags) != 4 || flags[1] != "Creates urgency with threats" {
		t.Fatalf("expected email fallback flags, got %v", flags)
	}
	text, _ := env.texts.GetByID(anonymous(), res.TextID)
	if flags := simulation.ParseRedFlags("text", text.RedFlags); len(flags) != 5 || flags[4] != "5" {
		t.Fatalf("expected 5 truncated flags, got %v", flags)
	}
}

func TestGenerateTopsUpShortRedFlagLists(t *testing.T) {
	env := newTestEnv(t)
	ai := newFakeLLM()
	ai.bySchema[simulation.SchemaNameEmail]["redFlags"] = []any{"Only one"}
	ai.bySchema[simulation.SchemaNameText]["redFlags"] = []any{"a", "b"}
	svc := env.phishingService(ai)
	u := env.seedUser(t)

	if _, err := svc.Generate(anonymous(), u.ID); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	msgs, err := env.messageService(false).FetchPersonalizedMessages(anonymous(), u.ID)
	if err != nil {
		t.Fatalf("FetchPersonalizedMessages: %v", err)
	}
	if msgs.Email == nil || len(msgs.Email.RedFlags) != simulation.MinRedFlags || msgs.Email.RedFlags[0] != "Only one" {
		t.Fatalf("email flags not topped up: %+v", msgs.Email)
	}
	if msgs.Text == nil || len(msgs.Text.RedFlags) != simulation.MinRedFlags || msgs.Text.RedFlags[2] != "Suspicious shortened URL" {
		t.Fatalf("text flags not topped up: %+v", msgs.Text)
	}
}

func TestGenerateUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	svc := env.phishingService(newFakeLLM())
	if _, err := svc.Generate(anonymous(), uuid.New()); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
