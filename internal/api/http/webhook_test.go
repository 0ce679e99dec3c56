package http_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	api "github.com/mind-engage/h5p-bridge/internal/api/http"
	"github.com/mind-engage/h5p-bridge/internal/audit"
	authmw "github.com/mind-engage/h5p-bridge/internal/auth/middleware"
	"github.com/mind-engage/h5p-bridge/internal/content"
	"github.com/mind-engage/h5p-bridge/internal/db"
	"github.com/mind-engage/h5p-bridge/internal/grade"
)

type testEnv struct {
	srv      *httptest.Server
	registry *content.SQLRegistry
	grades   *grade.SQLStore
	db       *sql.DB
}

// newTestEnv wires the routes the way cmd/bridge does.
func newTestEnv(t *testing.T, webhookSecret string) testEnv {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	registry := content.NewSQLRegistry(dbh, "sqlite")
	grades := grade.NewSQLStore(dbh, registry)
	auditLog := audit.NewRepo(dbh, "test")

	r := chi.NewRouter()
	r.Get("/callback", api.CallbackHandler(registry, auditLog))
	r.With(authmw.WebhookSecret(webhookSecret)).
		Post("/webhook", api.WebhookHandler(grades, auditLog))
	r.Get("/api/contents", api.ListContentHandler(registry))
	r.Get("/api/contents/{contentID}/grades", api.ContentGradesHandler(registry, grades))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return testEnv{srv: srv, registry: registry, grades: grades, db: dbh}
}

func (e testEnv) gradeCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM h5p_grades`).Scan(&n); err != nil {
		t.Fatalf("count grades: %v", err)
	}
	return n
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestWebhook_EndToEnd(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	rec, err := env.registry.RegisterOrUpdate(ctx, "abc123", "My Quiz")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	resp := postJSON(t, env.srv.URL+"/webhook", `{
		"contentId": "abc123",
		"userId": "u1",
		"statement": {
			"verb": {"id": "http://adlnet.gov/expapi/verbs/completed"},
			"result": {"score": {"raw": 8, "max": 10}, "completion": true}
		}
	}`)
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var ack struct {
		Status    string  `json:"status"`
		ContentID string  `json:"contentId"`
		Score     float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		t.Fatalf("decode ack: %v", err)
	}
	if ack.Status != "saved" || ack.ContentID != "abc123" || ack.Score != 0.8 {
		t.Fatalf("unexpected ack: %+v", ack)
	}

	rows, err := env.grades.ForContent(ctx, rec.LocalID)
	if err != nil {
		t.Fatalf("for content: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 grade row, got %d", len(rows))
	}
	g := rows[0]
	if g.RawScore != 8 || g.MaxScore != 10 || g.Verb != "completed" || g.UserID != "u1" || !g.Completed {
		t.Fatalf("unexpected grade row: %+v", g)
	}
}

func TestWebhook_MalformedBody(t *testing.T) {
	env := newTestEnv(t, "")
	_, _ = env.registry.RegisterOrUpdate(context.Background(), "abc123", "My Quiz")

	resp := postJSON(t, env.srv.URL+"/webhook", `not json`)
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Invalid payload" {
		t.Fatalf("unexpected error body: %v", body)
	}
	if n := env.gradeCount(t); n != 0 {
		t.Fatalf("grade store changed on rejected path: %d rows", n)
	}
}

func TestWebhook_MissingContentID(t *testing.T) {
	env := newTestEnv(t, "")

	resp := postJSON(t, env.srv.URL+"/webhook", `{"userId":"u1"}`)
	defer resp.Body.Close()
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if n := env.gradeCount(t); n != 0 {
		t.Fatalf("grade store changed on rejected path: %d rows", n)
	}
}

func TestWebhook_UnknownContent(t *testing.T) {
	env := newTestEnv(t, "")

	resp := postJSON(t, env.srv.URL+"/webhook", `{"contentId":"nonexistent-id","userId":"u1"}`)
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	var body map[string]string
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Content not found" {
		t.Fatalf("unexpected error body: %v", body)
	}
	if n := env.gradeCount(t); n != 0 {
		t.Fatalf("grade store changed on rejected path: %d rows", n)
	}
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t, "")

	resp, err := http.Get(env.srv.URL + "/webhook")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 405 {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestWebhook_BareCompletionSignal(t *testing.T) {
	env := newTestEnv(t, "")
	_, _ = env.registry.RegisterOrUpdate(context.Background(), "abc123", "My Quiz")

	// No userId, no statement: defaults apply and the delivery still counts.
	resp := postJSON(t, env.srv.URL+"/webhook", `{"contentId":"abc123"}`)
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var ack struct {
		Score float64 `json:"score"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&ack)
	if ack.Score != 0 {
		t.Fatalf("expected score 0 for bare signal, got %v", ack.Score)
	}
	if n := env.gradeCount(t); n != 1 {
		t.Fatalf("expected 1 grade row, got %d", n)
	}
}

func TestWebhook_SharedSecret(t *testing.T) {
	env := newTestEnv(t, "s3cret")
	_, _ = env.registry.RegisterOrUpdate(context.Background(), "abc123", "My Quiz")

	// Missing header.
	resp := postJSON(t, env.srv.URL+"/webhook", `{"contentId":"abc123"}`)
	resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without secret, got %d", resp.StatusCode)
	}

	// Correct header.
	req, _ := http.NewRequest("POST", env.srv.URL+"/webhook", strings.NewReader(`{"contentId":"abc123"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Secret", "s3cret")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("post with secret: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != 200 {
		t.Fatalf("expected 200 with secret, got %d", resp2.StatusCode)
	}
}
