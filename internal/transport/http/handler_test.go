package handler

import (
	"context"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/soluna-app/soluna/internal/adapter/llm"
	"github.com/soluna-app/soluna/internal/config"
	"github.com/soluna-app/soluna/internal/domain"
	"github.com/soluna-app/soluna/internal/insight"
	"github.com/soluna-app/soluna/internal/kv"
	"github.com/soluna-app/soluna/internal/policy"
	"github.com/soluna-app/soluna/internal/service"
	"github.com/soluna-app/soluna/internal/store"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestHandler(t *testing.T) (*Handler, *echo.Echo, *llm.MockClient) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	gate, err := policy.NewEngine(context.Background(), policy.DefaultGatePolicy)
	if err != nil {
		t.Fatalf("failed to build gate engine: %v", err)
	}

	mock := &llm.MockClient{Reply: "I hear you."}
	kvs := kv.NewScoped(kv.NewMemoryStore(), kv.NewMemoryStore())
	gen := insight.NewGenerator(mock, rand.New(rand.NewSource(1)))

	svc := service.New(db, kvs, mock, gen, gate, &config.Config{}).
		WithClock(fixedClock{now: time.Date(2026, 3, 10, 8, 0, 0, 0, time.Local)})

	e := echo.New()
	h := NewHandler(svc)
	h.RegisterRoutes(e)
	return h, e, mock
}

func doRequest(t *testing.T, e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func userHeaders() map[string]string {
	return map[string]string{"X-User-ID": "u1", "X-User-Name": "Ada"}
}

func TestHealth(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
}

func TestGetSessionAutoStarts(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/session", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	var view domain.SessionView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.ViewActive, view.State)
	assert.Equal(t, domain.SessionMorning, view.Type)
	assert.NotEmpty(t, view.SessionID)
	assert.Contains(t, view.Greeting, "Ada")
}

func TestSendMessageRoundTrip(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodPost, "/v1/session/messages",
		`{"content":"hello there"}`, userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.SendMessageResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Rejected)
	assert.Len(t, resp.Messages, 2)
	assert.Equal(t, "hello there", resp.Messages[0].Content)
	assert.Equal(t, "I hear you.", resp.Messages[1].Content)
	assert.Equal(t, 1, resp.MessagesUsed)
}

func TestSendMessageInvalidBody(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodPost, "/v1/session/messages",
		`{not json`, userHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateInsightWithoutSession(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodPost, "/v1/session/insight", "", userHeaders())
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGenerateInsightFlow(t *testing.T) {
	_, e, mock := newTestHandler(t)
	mock.Reply = "Small steps still move you forward."

	rec := doRequest(t, e, http.MethodPost, "/v1/session/messages",
		`{"content":"today was hard"}`, userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodPost, "/v1/session/insight", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	var card domain.InsightCard
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &card))
	assert.NotEmpty(t, card.CardID)
	assert.Equal(t, "Small steps still move you forward.", card.Quote)

	rec = doRequest(t, e, http.MethodGet, "/v1/insights", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Insights []domain.InsightCard `json:"insights"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list.Insights, 1)

	rec = doRequest(t, e, http.MethodGet, "/v1/sessions/recent", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)
	var recent struct {
		Sessions []domain.SessionSummary `json:"sessions"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	assert.Len(t, recent.Sessions, 1)
	assert.NotNil(t, recent.Sessions[0].CompletedAt)
}

func TestRotateScene(t *testing.T) {
	_, e, _ := newTestHandler(t)

	doRequest(t, e, http.MethodGet, "/v1/session", "", userHeaders())

	rec := doRequest(t, e, http.MethodPost, "/v1/session/scene/rotate", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(domain.SceneForest), body["scene"])
}

func TestVideoPreference(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/preferences/video", "", userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]bool
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body["enabled"])

	rec = doRequest(t, e, http.MethodPut, "/v1/preferences/video",
		`{"enabled":false}`, userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, e, http.MethodGet, "/v1/preferences/video", "", userHeaders())
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body["enabled"])
}

func TestStartSessionExplicitType(t *testing.T) {
	_, e, _ := newTestHandler(t)

	rec := doRequest(t, e, http.MethodPost, "/v1/session/start",
		`{"type":"evening"}`, userHeaders())
	assert.Equal(t, http.StatusOK, rec.Code)

	var view domain.SessionView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.SessionEvening, view.Type)
	assert.Equal(t, domain.SceneSunset, view.Scene)
}

func TestGuestHeaderForcesGuestIdentity(t *testing.T) {
	_, e, _ := newTestHandler(t)

	headers := map[string]string{"X-User-ID": "u1", "X-Guest": "true", "X-Tier": "pro"}
	rec := doRequest(t, e, http.MethodGet, "/v1/session", "", headers)
	assert.Equal(t, http.StatusOK, rec.Code)

	var view domain.SessionView
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, domain.ViewActive, view.State)
	// Pro tier survives the guest flag; the cap is unlimited.
	assert.Equal(t, domain.UnlimitedMessages, view.MaxMessages)
}
