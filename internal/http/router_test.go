package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/verifeye-backend/internal/actions"
	"github.com/yungbote/verifeye-backend/internal/data/repos"
	"github.com/yungbote/verifeye-backend/internal/data/repos/testutil"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	httpH "github.com/yungbote/verifeye-backend/internal/http/handlers"
	httpMW "github.com/yungbote/verifeye-backend/internal/http/middleware"
	"github.com/yungbote/verifeye-backend/internal/jobs/pipeline/phishing_content_generate"
	"github.com/yungbote/verifeye-backend/internal/jobs/runtime"
	"github.com/yungbote/verifeye-backend/internal/jobs/worker"
	"github.com/yungbote/verifeye-backend/internal/modules/curriculum"
	"github.com/yungbote/verifeye-backend/internal/modules/simulation"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type stubLLM struct{ fail bool }

func (s stubLLM) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	if s.fail {
		return nil, errors.New("provider down")
	}
	switch schemaName {
	case simulation.SchemaNameEmail:
		return map[string]any{
			"sender":      map[string]any{"name": "Seed Club", "email": "club@seedc1ub.com"},
			"subjectLine": "Your free seeds are waiting",
			"body":        "Confirm your address and card to receive them.",
			"isScam":      true,
			"redFlags":    []any{"Lookalike domain", "Free gift", "Card request"},
		}, nil
	case simulation.SchemaNameText:
		return map[string]any{
			"sender":   map[string]any{"name": "Garden Post", "phoneNumber": "+1 555 0100"},
			"body":     "Parcel held. Pay fee: bit.ly/x",
			"isScam":   true,
			"redFlags": []any{"Short link", "Unexpected fee", "Unknown sender"},
		}, nil
	}
	return nil, errors.New("unknown schema")
}

func (s stubLLM) GenerateText(ctx context.Context, system, user string) (string, error) {
	return "", errors.New("unused")
}

type harness struct {
	router *gin.Engine
	auth   services.AuthService
	worker *worker.Worker
	users  repos.UserRepo
	seed   func(t *testing.T) *types.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)

	users := repos.NewUserRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	emails := repos.NewEmailMessageRepo(db, log)
	texts := repos.NewTextMessageRepo(db, log)
	jobRuns := repos.NewJobRunRepo(db, log)

	auth := services.NewAuthService(log, "router-test-secret", "")
	leaderboard := services.NewLeaderboardService(log, users, activityRepo, nil)
	activities := services.NewActivityService(log, activityRepo, leaderboard)
	userSvc := services.NewUserService(log, users)
	jobs := services.NewJobService(log, jobRuns)
	onboarding := services.NewOnboardingService(log, userSvc, activities, jobs)
	messages := services.NewMessageService(log, users, emails, texts, false)
	quiz := services.NewQuizService(db, log, messages, activities, activityRepo, repos.NewUserResponseRepo(db, log))
	cat, err := curriculum.Default()
	require.NoError(t, err)
	curr := services.NewCurriculumService(db, log, cat, repos.NewLessonRepo(db, log), repos.NewUserLessonRepo(db, log), activities)
	require.NoError(t, curr.Seed(context.Background()))
	content := services.NewPhishingContentService(db, log, stubLLM{}, users, emails, texts)

	reg := runtime.NewRegistry()
	require.NoError(t, reg.Register(phishing_content_generate.New(log, content)))

	router := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           observability.New(),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, auth),
		UserHandler:       httpH.NewUserHandler(log, userSvc, onboarding),
		JobHandler:        httpH.NewJobHandler(jobs),
		MessageHandler:    httpH.NewMessageHandler(log, messages, quiz),
		ActivityHandler:   httpH.NewActivityHandler(log, activities, leaderboard),
		CurriculumHandler: httpH.NewCurriculumHandler(curr),
		ActionHandler:     httpH.NewActionHandler(actions.New(log, userSvc, messages, activities)),
		HealthHandler:     httpH.NewHealthHandler(),
	})
	return &harness{
		router: router,
		auth:   auth,
		worker: worker.NewWorker(db, log, jobRuns, reg, worker.Options{}),
		users:  users,
		seed: func(t *testing.T) *types.User {
			return testutil.SeedUser(t, context.Background(), db, uuid.NewString()+"@example.com")
		},
	}
}

func (h *harness) token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := h.auth.IssueToken(userID, time.Hour)
	require.NoError(t, err)
	return tok
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	h := newHarness(t)
	for _, path := range []string{"/api/user/me", "/api/messages", "/api/xp", "/api/courses"} {
		rec := h.do(t, nethttp.MethodGet, path, "", nil)
		require.Equal(t, nethttp.StatusUnauthorized, rec.Code, path)
		body := decode(t, rec)
		assert.Equal(t, map[string]any{"message": "Unauthorized", "code": "unauthorized"}, body["error"])
	}

	rec := h.do(t, nethttp.MethodGet, "/api/user/me", "not-a-jwt", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, rec.Code)

	rec = h.do(t, nethttp.MethodGet, "/healthcheck", "", nil)
	assert.Equal(t, nethttp.StatusOK, rec.Code)
}

func TestSessionCookieIsAccepted(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)
	req := httptest.NewRequest(nethttp.MethodGet, "/api/user/me", nil)
	req.AddCookie(&nethttp.Cookie{Name: h.auth.SessionCookieName(), Value: h.token(t, u.ID)})
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, u.ID.String(), decode(t, rec)["id"])
}

func TestGetMeMissingRow(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, nethttp.MethodGet, "/api/user/me", h.token(t, uuid.New()), nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestSaveProfileValidation(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)
	tok := h.token(t, u.ID)

	rec := h.do(t, nethttp.MethodPost, "/api/user/profile", tok, "{not json")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = h.do(t, nethttp.MethodPost, "/api/user/profile", tok, map[string]any{"age": 500})
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = h.do(t, nethttp.MethodPost, "/api/user/profile", tok, map[string]any{"age": 29, "gender": "male"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])
}

func TestOnboardingScenario(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)
	tok := h.token(t, u.ID)

	rec := h.do(t, nethttp.MethodPost, "/api/onboarding", tok, map[string]any{
		"age": 34, "gender": "female", "interests": "gardening",
	})
	require.Equal(t, nethttp.StatusAccepted, rec.Code, rec.Body.String())
	job := decode(t, rec)["job"].(map[string]any)
	jobID := job["id"].(string)

	require.True(t, h.worker.RunOnce(context.Background(), 1))

	rec = h.do(t, nethttp.MethodGet, "/api/jobs/"+jobID, tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, types.JobStatusSucceeded, decode(t, rec)["job"].(map[string]any)["status"])

	rec = h.do(t, nethttp.MethodGet, "/api/user/me", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	me := decode(t, rec)
	assert.EqualValues(t, 34, me["age"])
	assert.Equal(t, "female", me["gender"])
	assert.Equal(t, "gardening", me["interests"])
	assert.NotNil(t, me["emailMessageId"])
	assert.NotNil(t, me["textMessageId"])

	rec = h.do(t, nethttp.MethodGet, "/api/messages", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	msgs := decode(t, rec)
	for _, kind := range []string{"email", "text"} {
		m, ok := msgs[kind].(map[string]any)
		require.True(t, ok, kind)
		assert.GreaterOrEqual(t, len(m["redFlags"].([]any)), 3, kind)
		assert.Equal(t, true, m["isPhishing"], kind)
	}

	rec = h.do(t, nethttp.MethodGet, "/api/xp", tok, nil)
	assert.EqualValues(t, services.SignupXP, decode(t, rec)["xp"])

	// The email is phishing; answering "legitimate" is wrong.
	rec = h.do(t, nethttp.MethodPost, "/api/quiz/answer", tok, map[string]any{"kind": "email", "answer": "legitimate"})
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	grade := decode(t, rec)
	assert.Equal(t, "Incorrect.", grade["headline"])
	assert.Equal(t, false, grade["correct"])

	rec = h.do(t, nethttp.MethodGet, "/api/activities?limit=5", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	acts := decode(t, rec)["activities"].([]any)
	require.Len(t, acts, 2)
	var kinds []string
	for _, a := range acts {
		kinds = append(kinds, a.(map[string]any)["type"].(string))
	}
	assert.ElementsMatch(t, []string{string(types.ActivitySignup), string(types.ActivityPracticeCompleted)}, kinds)
}

func TestCurriculumAndLeaderboardRoutes(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)
	tok := h.token(t, u.ID)

	rec := h.do(t, nethttp.MethodPost, "/api/lessons/what-are-scams/complete", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, 100, decode(t, rec)["xpAwarded"])

	rec = h.do(t, nethttp.MethodPost, "/api/lessons/nope/complete", tok, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)

	rec = h.do(t, nethttp.MethodGet, "/api/courses", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["courses"], 3)

	rec = h.do(t, nethttp.MethodGet, "/api/leaderboard?limit=3", tok, nil)
	require.Equal(t, nethttp.StatusOK, rec.Code)
	board := decode(t, rec)
	me := board["me"].(map[string]any)
	assert.EqualValues(t, 1, me["rank"])
	assert.EqualValues(t, 100, me["xp"])
}

func TestActionsEndpoint(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)

	rec := h.do(t, nethttp.MethodPost, "/api/actions/saveUserProfile", "", map[string]any{"age": 30})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"success": false, "error": "Unauthorized"}, decode(t, rec))

	after, err := h.users.GetByID(testDBC(), u.ID)
	require.NoError(t, err)
	assert.Nil(t, after.Age)

	rec = h.do(t, nethttp.MethodPost, "/api/actions/getUserXP", "", nil)
	assert.Equal(t, map[string]any{"xp": float64(0)}, decode(t, rec))

	tok := h.token(t, u.ID)
	rec = h.do(t, nethttp.MethodPost, "/api/actions/createSignupActivity", tok, map[string]any{"userId": u.ID.String()})
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = h.do(t, nethttp.MethodPost, "/api/actions/createSignupActivity", tok, map[string]any{"userId": uuid.NewString()})
	assert.Equal(t, "Unauthorized", decode(t, rec)["error"])

	rec = h.do(t, nethttp.MethodPost, "/api/actions/getUserActivities", tok, map[string]any{"limit": 5})
	assert.Len(t, decode(t, rec)["activities"], 1)

	rec = h.do(t, nethttp.MethodPost, "/api/actions/deleteEverything", tok, nil)
	assert.Equal(t, nethttp.StatusNotFound, rec.Code)
}

func TestActionsBodyBinding(t *testing.T) {
	h := newHarness(t)
	u := h.seed(t)
	tok := h.token(t, u.ID)

	rec := h.do(t, nethttp.MethodPost, "/api/actions/getUserActivities", tok, "{not json")
	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)

	rec = h.do(t, nethttp.MethodPost, "/api/actions/getUserStreak", tok, "   ")
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"streak": float64(0)}, decode(t, rec))

	rec = h.do(t, nethttp.MethodPost, "/api/actions/saveUserProfile", tok, map[string]any{"gender": "Female"})
	require.Equal(t, nethttp.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])
	after, err := h.users.GetByID(testDBC(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Gender)
	assert.Equal(t, "female", *after.Gender)
}

func TestSaveProfileMissingUserRow(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, nethttp.MethodPost, "/api/user/profile", h.token(t, uuid.New()), map[string]any{"age": 30})
	require.Equal(t, nethttp.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"].(map[string]any)["code"])
}

func testDBC() dbctx.Context { return dbctx.Of(context.Background()) }
