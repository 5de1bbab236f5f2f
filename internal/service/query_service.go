// Package service implements the business workflows behind the HTTP
// handlers. The central piece is the query submission orchestrator,
// which ties the image validator, the file store, the AI gateway and
// the query repository together and guarantees that a failed
// submission leaves no orphaned files behind.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agrimitra/farmer-assist/internal/ai"
	"github.com/agrimitra/farmer-assist/internal/model"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/upload"
)

// ErrEmptySubmission rejects requests carrying neither question text
// nor images, before any file is stored or any external call is made.
var ErrEmptySubmission = errors.New("please provide either a text query or upload images")

// ErrBadFeedback rejects feedback values outside {positive, negative}.
var ErrBadFeedback = errors.New("feedback must be either 'positive' or 'negative'")

// defaultHistoryLimit caps how many records the history endpoint
// returns.
const defaultHistoryLimit = 50

// QueryStore is the slice of the query repository the service needs.
type QueryStore interface {
	Create(ctx context.Context, q model.Query) (model.Query, error)
	GetByID(ctx context.Context, id uint64) (model.Query, error)
	History(ctx context.Context, userID uint64, limit int) ([]model.Query, error)
	SetFeedback(ctx context.Context, id uint64, feedback string) error
	Delete(ctx context.Context, id uint64) error
	Stats(ctx context.Context, userID uint64) (model.QueryStats, error)
}

// FileStore persists uploads and removes them best-effort.
type FileStore interface {
	Save(f upload.File) (upload.StoredFile, error)
	Delete(refs []string) []upload.DeleteResult
}

// Gateway answers composed prompts; it never fails user-facing flows.
type Gateway interface {
	Ask(ctx context.Context, p ai.Prompt) ai.Reply
}

// QueryService orchestrates query submission and the lifecycle
// operations on stored queries.
type QueryService struct {
	Queries QueryStore
	Files   FileStore
	AI      Gateway
	AICfg   ai.Config
	Limits  upload.Limits
}

func NewQueryService(queries QueryStore, files FileStore, gw Gateway, aiCfg ai.Config, lim upload.Limits) *QueryService {
	return &QueryService{Queries: queries, Files: files, AI: gw, AICfg: aiCfg, Limits: lim}
}

// Submit runs the submission pipeline: validate the uploads, persist
// them, compose the prompt and ask the AI, then record the exchange.
// The reply is returned alongside the created record so handlers can
// expose the fallback flag to logging without re-deriving it.
//
// Failure handling: validation failures happen before anything is
// written, so there is nothing to clean up. From the first stored
// file onward, every error path deletes the files stored so far
// before returning — including errors caused by client cancellation,
// since the cleanup itself is plain file I/O and does not depend on
// the request context.
func (s *QueryService) Submit(ctx context.Context, userID uint64, question, language string, files []upload.File) (model.Query, ai.Reply, error) {
	question = strings.TrimSpace(question)
	language = model.NormalizeLanguage(language)

	if question == "" && len(files) == 0 {
		return model.Query{}, ai.Reply{}, ErrEmptySubmission
	}
	if len(files) > 0 {
		if err := upload.ValidateImages(files, s.Limits); err != nil {
			return model.Query{}, ai.Reply{}, err
		}
	}

	// Persist uploads; collect references for the record and payloads
	// for the prompt.
	var refs []string
	var images []ai.Image
	for _, f := range files {
		stored, err := s.Files.Save(f)
		if err != nil {
			s.Files.Delete(refs)
			return model.Query{}, ai.Reply{}, fmt.Errorf("store upload: %w", err)
		}
		refs = append(refs, stored.PublicURL)
		images = append(images, ai.Image{MIME: stored.MIME, Data: stored.Data})
	}

	// The gateway absorbs provider failures into a fallback reply, so
	// from here only the database write can still fail.
	reply := s.AI.Ask(ctx, ai.ComposePrompt(s.AICfg, question, language, images))

	q, err := s.Queries.Create(ctx, model.Query{
		UserID:    userID,
		Question:  question,
		Answer:    reply.Text,
		Language:  language,
		ImageURLs: refs,
	})
	if err != nil {
		s.Files.Delete(refs)
		return model.Query{}, ai.Reply{}, fmt.Errorf("record query: %w", err)
	}
	return q, reply, nil
}

// History returns the caller's most recent queries, newest first.
func (s *QueryService) History(ctx context.Context, userID uint64) ([]model.Query, error) {
	return s.Queries.History(ctx, userID, defaultHistoryLimit)
}

// Feedback attaches a feedback value to a query after checking that
// the caller owns it and the value is one of the two allowed tags.
func (s *QueryService) Feedback(ctx context.Context, userID, queryID uint64, feedback string) (model.Query, error) {
	if feedback != model.FeedbackPositive && feedback != model.FeedbackNegative {
		return model.Query{}, ErrBadFeedback
	}
	q, err := s.Queries.GetByID(ctx, queryID)
	if err != nil {
		return model.Query{}, err
	}
	if q.UserID != userID {
		return model.Query{}, repository.ErrForbidden
	}
	if err := s.Queries.SetFeedback(ctx, queryID, feedback); err != nil {
		return model.Query{}, err
	}
	q.Feedback = &feedback
	return q, nil
}

// Delete removes a query owned by the caller together with its image
// files. File deletion runs first and is best-effort; a file that
// cannot be removed is logged by the store but never blocks deleting
// the record.
func (s *QueryService) Delete(ctx context.Context, userID, queryID uint64) error {
	q, err := s.Queries.GetByID(ctx, queryID)
	if err != nil {
		return err
	}
	if q.UserID != userID {
		return repository.ErrForbidden
	}
	if q.HasImages() {
		s.Files.Delete(q.ImageURLs)
	}
	return s.Queries.Delete(ctx, queryID)
}

// Stats aggregates the caller's query activity.
func (s *QueryService) Stats(ctx context.Context, userID uint64) (model.QueryStats, error) {
	return s.Queries.Stats(ctx, userID)
}
