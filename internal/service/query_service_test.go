package service_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/agrimitra/farmer-assist/internal/ai"
	"github.com/agrimitra/farmer-assist/internal/model"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/service"
	"github.com/agrimitra/farmer-assist/internal/upload"
)

// fakeQueries is an in-memory QueryStore.
type fakeQueries struct {
	nextID    uint64
	rows      map[uint64]model.Query
	createErr error
	lastLimit int
}

func newFakeQueries() *fakeQueries {
	return &fakeQueries{nextID: 1, rows: map[uint64]model.Query{}}
}

func (f *fakeQueries) Create(ctx context.Context, q model.Query) (model.Query, error) {
	if f.createErr != nil {
		return model.Query{}, f.createErr
	}
	q.ID = f.nextID
	f.nextID++
	if q.ImageURLs == nil {
		q.ImageURLs = []string{}
	}
	f.rows[q.ID] = q
	return q, nil
}

func (f *fakeQueries) GetByID(ctx context.Context, id uint64) (model.Query, error) {
	q, ok := f.rows[id]
	if !ok {
		return model.Query{}, repository.ErrNotFound
	}
	return q, nil
}

func (f *fakeQueries) History(ctx context.Context, userID uint64, limit int) ([]model.Query, error) {
	f.lastLimit = limit
	var out []model.Query
	for _, q := range f.rows {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeQueries) SetFeedback(ctx context.Context, id uint64, feedback string) error {
	q, ok := f.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	q.Feedback = &feedback
	f.rows[id] = q
	return nil
}

func (f *fakeQueries) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeQueries) Stats(ctx context.Context, userID uint64) (model.QueryStats, error) {
	var s model.QueryStats
	for _, q := range f.rows {
		if q.UserID != userID {
			continue
		}
		s.TotalQueries++
		if len(q.ImageURLs) > 0 {
			s.QueriesWithImages++
		}
	}
	return s, nil
}

// fakeGateway records the prompt and answers with a canned reply.
type fakeGateway struct {
	lastPrompt ai.Prompt
	reply      ai.Reply
}

func (g *fakeGateway) Ask(ctx context.Context, p ai.Prompt) ai.Reply {
	g.lastPrompt = p
	if g.reply.Text == "" {
		return ai.Reply{Text: "canned answer"}
	}
	return g.reply
}

func memFile(name, mime string, data []byte) upload.File {
	return upload.File{
		Name: name,
		MIME: mime,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func newTestService(t *testing.T) (*service.QueryService, *fakeQueries, *fakeGateway, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := upload.NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	queries := newFakeQueries()
	gw := &fakeGateway{}
	svc := service.NewQueryService(queries, store, gw, ai.DefaultConfig(), upload.Limits{MaxFiles: 5, MaxBytes: 5 << 20})
	return svc, queries, gw, dir
}

func filesOnDisk(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	return len(entries)
}

func TestSubmitRejectsEmpty(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, _, err := svc.Submit(context.Background(), 1, "   ", "english", nil)
	if !errors.Is(err, service.ErrEmptySubmission) {
		t.Fatalf("expected ErrEmptySubmission, got %v", err)
	}
}

func TestSubmitTextOnly(t *testing.T) {
	svc, queries, gw, dir := newTestService(t)

	q, reply, err := svc.Submit(context.Background(), 7, "  when to sow paddy?  ", "malayalam", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reply.Fallback {
		t.Fatalf("fake gateway never falls back")
	}
	if q.Question != "when to sow paddy?" {
		t.Fatalf("question not trimmed: %q", q.Question)
	}
	if q.Language != "malayalam" {
		t.Fatalf("language mangled: %q", q.Language)
	}
	if q.Answer != "canned answer" {
		t.Fatalf("answer not recorded: %q", q.Answer)
	}
	if len(q.ImageURLs) != 0 {
		t.Fatalf("text-only query must have no image refs: %v", q.ImageURLs)
	}
	if filesOnDisk(t, dir) != 0 {
		t.Fatalf("text-only submission must not write files")
	}
	if len(queries.rows) != 1 {
		t.Fatalf("expected one stored row, got %d", len(queries.rows))
	}
	if len(gw.lastPrompt.Parts) != 1 || gw.lastPrompt.Parts[0].Text != "when to sow paddy?" {
		t.Fatalf("prompt mismatch: %+v", gw.lastPrompt.Parts)
	}
}

func TestSubmitUnknownLanguageDegradesToEnglish(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	q, _, err := svc.Submit(context.Background(), 1, "hello", "esperanto", nil)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if q.Language != "english" {
		t.Fatalf("unknown language must degrade to english, got %q", q.Language)
	}
}

func TestSubmitWithImages(t *testing.T) {
	svc, _, gw, dir := newTestService(t)

	files := []upload.File{
		memFile("leaf.png", "image/png", []byte("leaf-bytes")),
		memFile("pest.jpg", "image/jpeg", []byte("pest-bytes")),
	}
	q, _, err := svc.Submit(context.Background(), 3, "what is wrong?", "hindi", files)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if len(q.ImageURLs) != 2 {
		t.Fatalf("expected 2 image refs, got %v", q.ImageURLs)
	}
	if filesOnDisk(t, dir) != 2 {
		t.Fatalf("expected 2 files on disk, got %d", filesOnDisk(t, dir))
	}
	// prompt carries question + both images
	if len(gw.lastPrompt.Parts) != 3 {
		t.Fatalf("expected 3 prompt parts, got %d", len(gw.lastPrompt.Parts))
	}
}

func TestSubmitValidationFailureWritesNothing(t *testing.T) {
	svc, queries, _, dir := newTestService(t)

	var files []upload.File
	for i := 0; i < 6; i++ {
		files = append(files, memFile("f.png", "image/png", []byte("x")))
	}
	_, _, err := svc.Submit(context.Background(), 1, "", "english", files)
	var verr *upload.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if filesOnDisk(t, dir) != 0 {
		t.Fatalf("rejected submission must not write files")
	}
	if len(queries.rows) != 0 {
		t.Fatalf("rejected submission must not create rows")
	}
}

func TestSubmitCleansUpFilesWhenCreateFails(t *testing.T) {
	svc, queries, _, dir := newTestService(t)
	queries.createErr = errors.New("db down")

	files := []upload.File{memFile("leaf.png", "image/png", []byte("leaf"))}
	_, _, err := svc.Submit(context.Background(), 1, "help", "english", files)
	if err == nil {
		t.Fatalf("expected error when create fails")
	}
	if filesOnDisk(t, dir) != 0 {
		t.Fatalf("stored files must be removed when the record write fails")
	}
}

func TestHistoryUsesDefaultLimit(t *testing.T) {
	svc, queries, _, _ := newTestService(t)
	if _, err := svc.History(context.Background(), 1); err != nil {
		t.Fatalf("history: %v", err)
	}
	if queries.lastLimit != 50 {
		t.Fatalf("expected limit 50, got %d", queries.lastLimit)
	}
}

func TestFeedbackChecksValueAndOwnership(t *testing.T) {
	svc, queries, _, _ := newTestService(t)
	q, _ := queries.Create(context.Background(), model.Query{UserID: 1, Question: "q", Answer: "a", Language: "english"})

	if _, err := svc.Feedback(context.Background(), 1, q.ID, "meh"); !errors.Is(err, service.ErrBadFeedback) {
		t.Fatalf("expected ErrBadFeedback, got %v", err)
	}
	if _, err := svc.Feedback(context.Background(), 2, q.ID, "positive"); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	got, err := svc.Feedback(context.Background(), 1, q.ID, "negative")
	if err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if got.Feedback == nil || *got.Feedback != "negative" {
		t.Fatalf("feedback not recorded: %+v", got.Feedback)
	}
}

func TestFeedbackUnknownQuery(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.Feedback(context.Background(), 1, 999, "positive"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecordAndFiles(t *testing.T) {
	svc, queries, _, dir := newTestService(t)

	files := []upload.File{memFile("leaf.png", "image/png", []byte("leaf"))}
	q, _, err := svc.Submit(context.Background(), 4, "help", "english", files)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := svc.Delete(context.Background(), 5, q.ID); !errors.Is(err, repository.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(context.Background(), 4, q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if filesOnDisk(t, dir) != 0 {
		t.Fatalf("image files must be deleted with the record")
	}
	if len(queries.rows) != 0 {
		t.Fatalf("record must be gone")
	}
	if err := svc.Delete(context.Background(), 4, q.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete must be ErrNotFound, got %v", err)
	}
}
