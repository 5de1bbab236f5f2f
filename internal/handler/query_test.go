package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agrimitra/farmer-assist/internal/ai"
	"github.com/agrimitra/farmer-assist/internal/handler"
	"github.com/agrimitra/farmer-assist/internal/model"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/service"
	"github.com/agrimitra/farmer-assist/internal/upload"
)

// memQueries is a minimal in-memory QueryStore for handler tests.
type memQueries struct {
	nextID uint64
	rows   map[uint64]model.Query
}

func newMemQueries() *memQueries { return &memQueries{nextID: 1, rows: map[uint64]model.Query{}} }

func (m *memQueries) Create(ctx context.Context, q model.Query) (model.Query, error) {
	q.ID = m.nextID
	m.nextID++
	if q.ImageURLs == nil {
		q.ImageURLs = []string{}
	}
	m.rows[q.ID] = q
	return q, nil
}

func (m *memQueries) GetByID(ctx context.Context, id uint64) (model.Query, error) {
	q, ok := m.rows[id]
	if !ok {
		return model.Query{}, repository.ErrNotFound
	}
	return q, nil
}

func (m *memQueries) History(ctx context.Context, userID uint64, limit int) ([]model.Query, error) {
	var out []model.Query
	for _, q := range m.rows {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQueries) SetFeedback(ctx context.Context, id uint64, feedback string) error {
	q, ok := m.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Feedback = &feedback
	m.rows[id] = q
	return nil
}

func (m *memQueries) Delete(ctx context.Context, id uint64) error {
	if _, ok := m.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memQueries) Stats(ctx context.Context, userID uint64) (model.QueryStats, error) {
	return model.QueryStats{}, nil
}

type staticGateway struct{ text string }

func (g staticGateway) Ask(ctx context.Context, p ai.Prompt) ai.Reply {
	return ai.Reply{Text: g.text}
}

func newQueryHandler(t *testing.T, queries *memQueries) *handler.QueryHandler {
	t.Helper()
	store, err := upload.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	svc := service.NewQueryService(queries, store, staticGateway{text: "use drip irrigation"},
		ai.DefaultConfig(), upload.Limits{MaxFiles: 5, MaxBytes: 5 << 20})
	return handler.NewQueryHandler(svc)
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = handler.NewValidator()
	return e
}

func multipartBody(t *testing.T, question, language string, images map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if question != "" {
		_ = w.WriteField("question", question)
	}
	if language != "" {
		_ = w.WriteField("language", language)
	}
	for name, data := range images {
		fw, err := w.CreateFormFile("images", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(data); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestSubmitTextQuery(t *testing.T) {
	e := newEcho()
	h := newQueryHandler(t, newMemQueries())

	body, ctype := multipartBody(t, "when to harvest wheat?", "english", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	if err := h.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool   `json:"success"`
		Answer  string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Answer != "use drip irrigation" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestSubmitEmptyIsBadRequest(t *testing.T) {
	e := newEcho()
	h := newQueryHandler(t, newMemQueries())

	body, ctype := multipartBody(t, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/query", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	if err := h.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubmitRejectsBadFileType(t *testing.T) {
	e := newEcho()
	h := newQueryHandler(t, newMemQueries())

	body, ctype := multipartBody(t, "", "", map[string][]byte{"notes.txt": []byte("hi")})
	req := httptest.NewRequest(http.MethodPost, "/v1/query", body)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", uint64(1))

	if err := h.Submit(c); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "invalid file type") {
		t.Fatalf("expected validation message, got %s", rec.Body.String())
	}
}

func TestFeedbackErrorMapping(t *testing.T) {
	e := newEcho()
	queries := newMemQueries()
	h := newQueryHandler(t, queries)

	if _, err := queries.Create(context.Background(), model.Query{UserID: 1, Question: "q", Answer: "a", Language: "english"}); err != nil {
		t.Fatalf("seed query: %v", err)
	}

	cases := []struct {
		name     string
		userID   uint64
		payload  string
		wantCode int
	}{
		{"bad value", 1, `{"query_id":1,"feedback":"meh"}`, http.StatusBadRequest},
		{"not found", 1, `{"query_id":999,"feedback":"positive"}`, http.StatusNotFound},
		{"not owner", 2, `{"query_id":1,"feedback":"positive"}`, http.StatusForbidden},
		{"ok", 1, `{"query_id":1,"feedback":"positive"}`, http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/v1/query/feedback", strings.NewReader(tc.payload))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", tc.userID)

		if err := h.Feedback(c); err != nil {
			t.Fatalf("%s: handler error: %v", tc.name, err)
		}
		if rec.Code != tc.wantCode {
			t.Fatalf("%s: expected %d, got %d: %s", tc.name, tc.wantCode, rec.Code, rec.Body.String())
		}
	}
}

func TestDeleteUnknownQueryIs404(t *testing.T) {
	e := newEcho()
	h := newQueryHandler(t, newMemQueries())

	req := httptest.NewRequest(http.MethodDelete, "/v1/query/123", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("123")
	c.Set("user_id", uint64(1))

	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
