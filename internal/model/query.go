package model

import "time"

// Feedback values a query owner may attach to an answer. Anything
// outside this pair is rejected at the handler boundary.
const (
	FeedbackPositive = "positive"
	FeedbackNegative = "negative"
)

// MaxQueryImages bounds how many images a single query may carry.
const MaxQueryImages = 5

// Query records one question/answer exchange with the AI assistant.
// A query holds the question text (possibly empty when images were
// supplied), the generated answer, and the public paths of any
// uploaded images. Image files on disk are owned by the query that
// references them: deleting the query deletes the files.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the query.
//  Question  – question text; empty means image-only submission.
//  Answer    – answer text returned by the AI gateway (possibly a
//              per-language fallback message).
//  Language  – language tag the answer was requested in.
//  ImageURLs – ordered public paths under /uploads, at most
//              MaxQueryImages entries. Stored as a JSON array in
//              queries.image_urls.
//  Feedback  – "positive", "negative" or nil when not yet given.
//  CreatedAt – creation timestamp.
type Query struct {
	ID        uint64    // queries.id
	UserID    uint64    // queries.user_id
	Question  string    // queries.question
	Answer    string    // queries.answer
	Language  string    // queries.language
	ImageURLs []string  // queries.image_urls (JSON array)
	Feedback  *string   // queries.feedback (nullable)
	CreatedAt time.Time // queries.created_at
}

// HasImages reports whether the query carries at least one image.
func (q Query) HasImages() bool { return len(q.ImageURLs) > 0 }

// QueryStats aggregates a user's query activity. Produced by the
// repository with a single grouped scan over the owned queries.
//
// Fields:
//  TotalQueries      – number of queries the user has submitted.
//  PositiveFeedback  – queries marked "positive".
//  NegativeFeedback  – queries marked "negative".
//  QueriesWithImages – queries carrying at least one image.
//  LanguageBreakdown – count of queries per language tag.
type QueryStats struct {
	TotalQueries      int64            `json:"total_queries"`
	PositiveFeedback  int64            `json:"positive_feedback"`
	NegativeFeedback  int64            `json:"negative_feedback"`
	QueriesWithImages int64            `json:"queries_with_images"`
	LanguageBreakdown map[string]int64 `json:"language_breakdown"`
}
