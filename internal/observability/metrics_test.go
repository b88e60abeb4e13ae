package observability

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/api/xp", "200", time.Millisecond)
	m.ObserveLLMRequest("openai", "gpt", "200", time.Second, 10, 20)
	m.IncGeneration("ok")
	m.IncActivity("signup", true)
	m.IncQuizAnswer("email", false)
	m.ObserveJob("phishing_content_generate", "succeeded", time.Second)
	m.AddOrphansDeleted("email", 3)
	m.ApiInflightInc()
	m.ApiInflightDec()
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.ObserveAPI("GET", "/api/xp", "200", 5*time.Millisecond)
	m.IncActivity("signup", true)
	m.IncGeneration("generation_failed")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`verifeye_api_requests_total{method="GET",route="/api/xp",status="200"} 1`,
		`verifeye_activities_recorded_total{created="true",type="signup"} 1`,
		`verifeye_content_generations_total{outcome="generation_failed"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in exposition", want)
		}
	}
}
