package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/agrimitra/farmer-assist/internal/model"
)

// QueryRepo persists question/answer exchanges. Image references are
// stored as a JSON array in the image_urls TEXT column so the ordered
// 0..5 list round-trips without a join table.
type QueryRepo struct{ DB *sql.DB }

func NewQueryRepo(db *sql.DB) *QueryRepo { return &QueryRepo{DB: db} }

const queryCols = "id,user_id,question,answer,language,image_urls,feedback,created_at"

func scanQueryRow(scan func(dest ...any) error) (model.Query, error) {
	var q model.Query
	var imagesJSON []byte
	err := scan(&q.ID, &q.UserID, &q.Question, &q.Answer, &q.Language, &imagesJSON, &q.Feedback, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	if err != nil {
		return q, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &q.ImageURLs); err != nil {
			return q, err
		}
	}
	return q, nil
}

// Create inserts a query record and returns it with the generated id.
func (r *QueryRepo) Create(ctx context.Context, q model.Query) (model.Query, error) {
	images := q.ImageURLs
	if images == nil {
		images = []string{}
	}
	imagesJSON, err := json.Marshal(images)
	if err != nil {
		return model.Query{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO queries (user_id, question, answer, language, image_urls) VALUES (?,?,?,?,?)",
		q.UserID, q.Question, q.Answer, q.Language, imagesJSON)
	if err != nil {
		return model.Query{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Query{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches a single query. Ownership is not checked here; the
// service layer compares UserID against the caller.
func (r *QueryRepo) GetByID(ctx context.Context, id uint64) (model.Query, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+queryCols+" FROM queries WHERE id=? LIMIT 1", id)
	return scanQueryRow(row.Scan)
}

// History returns the user's most recent queries, newest first,
// capped at limit.
func (r *QueryRepo) History(ctx context.Context, userID uint64, limit int) ([]model.Query, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+queryCols+" FROM queries WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Query
	for rows.Next() {
		q, err := scanQueryRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// ListAll returns every query in the system, newest first. Used by the
// officer reporting endpoint.
func (r *QueryRepo) ListAll(ctx context.Context) ([]model.Query, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+queryCols+" FROM queries ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Query
	for rows.Next() {
		q, err := scanQueryRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// SetFeedback stores the feedback value on a query. The value is
// validated at the handler boundary.
func (r *QueryRepo) SetFeedback(ctx context.Context, id uint64, feedback string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE queries SET feedback=? WHERE id=?", feedback, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Row may exist with the same feedback already; treat as success
		// only when it does.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the query row. File cleanup happens in the service
// layer before the row disappears.
func (r *QueryRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM queries WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats aggregates the caller's query activity: totals, feedback
// counts, how many queries carried images, and a per-language
// breakdown. Two grouped scans over the owned set, no special
// algorithm.
func (r *QueryRepo) Stats(ctx context.Context, userID uint64) (model.QueryStats, error) {
	stats := model.QueryStats{LanguageBreakdown: map[string]int64{}}

	row := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(feedback='positive'),0),
		       COALESCE(SUM(feedback='negative'),0),
		       COALESCE(SUM(image_urls IS NOT NULL AND image_urls<>'[]'),0)
		FROM queries WHERE user_id=?`, userID)
	if err := row.Scan(&stats.TotalQueries, &stats.PositiveFeedback, &stats.NegativeFeedback, &stats.QueriesWithImages); err != nil {
		return stats, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT language, COUNT(*) FROM queries WHERE user_id=? GROUP BY language", userID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()
	for rows.Next() {
		var lang string
		var n int64
		if err := rows.Scan(&lang, &n); err != nil {
			return stats, err
		}
		stats.LanguageBreakdown[lang] = n
	}
	return stats, rows.Err()
}
