package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/modules/simulation"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

// fakeLLM answers by schema name and records the prompts it saw.
type fakeLLM struct {
	mu       sync.Mutex
	bySchema map[string]map[string]any
	errs     map[string]error
	prompts  []string
}

func newFakeLLM() *fakeLLM {
	return &fakeLLM{
		bySchema: map[string]map[string]any{
			simulation.SchemaNameEmail: {
				"sender":      map[string]any{"name": "Green Thumb Rewards", "email": "rewards@greenthumb-deals.co"},
				"subjectLine": "Claim your free seed bundle",
				"body":        "Confirm your card to ship your gardening gift today.",
				"isScam":      true,
				"redFlags":    []any{"Lookalike domain", "Free gift bait", "Asks for card details"},
			},
			simulation.SchemaNameText: {
				"sender":   map[string]any{"name": "Garden Center", "phoneNumber": "+1 555 0199"},
				"body":     "URGENT: your plant order is on hold. Pay at grdn.ly/pay",
				"isScam":   true,
				"redFlags": []any{"Shortened link", "Urgency", "Unexpected payment request"},
			},
		},
		errs: map[string]error{},
	}
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, user)
	if err := f.errs[schemaName]; err != nil {
		return nil, err
	}
	obj, ok := f.bySchema[schemaName]
	if !ok {
		return nil, errors.New("unexpected schema " + schemaName)
	}
	return obj, nil
}

func (f *fakeLLM) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return "", errors.New("not used")
}

type testEnv struct {
	db  *gorm.DB
	log *logger.Logger

	users       repos.UserRepo
	activity    repos.ActivityRepo
	emails      repos.EmailMessageRepo
	texts       repos.TextMessageRepo
	jobRuns     repos.JobRunRepo
	lessons     repos.LessonRepo
	userLessons repos.UserLessonRepo
	responses   repos.UserResponseRepo
}

// newTestEnv works on the database directly: services open their own transactions, which
// an outer test transaction would deadlock on SQLite's single connection.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:          db,
		log:         log,
		users:       repos.NewUserRepo(db, log),
		activity:    repos.NewActivityRepo(db, log),
		emails:      repos.NewEmailMessageRepo(db, log),
		texts:       repos.NewTextMessageRepo(db, log),
		jobRuns:     repos.NewJobRunRepo(db, log),
		lessons:     repos.NewLessonRepo(db, log),
		userLessons: repos.NewUserLessonRepo(db, log),
		responses:   repos.NewUserResponseRepo(db, log),
	}
}

func (e *testEnv) seedUser(t *testing.T) *types.User {
	t.Helper()
	return testutil.SeedUser(t, context.Background(), e.db, uuid.NewString()+"@example.com")
}

func asUser(userID uuid.UUID) dbctx.Context {
	return dbctx.Of(ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: userID}))
}

func anonymous() dbctx.Context {
	return dbctx.Of(context.Background())
}

func (e *testEnv) activityService() ActivityService {
	return NewActivityService(e.log, e.activity, nil)
}

func (e *testEnv) messageService(reportLabel bool) MessageService {
	return NewMessageService(e.log, e.users, e.emails, e.texts, reportLabel)
}

func (e *testEnv) phishingService(ai *fakeLLM) PhishingContentService {
	return NewPhishingContentService(e.db, e.log, ai, e.users, e.emails, e.texts)
}

func (e *testEnv) reloadUser(t *testing.T, id uuid.UUID) *types.User {
	t.Helper()
	u, err := e.users.GetByID(dbctx.Of(context.Background()), id)
	if err != nil || u == nil {
		t.Fatalf("reload user: u=%v err=%v", u, err)
	}
	return u
}
