package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/agrimitra/farmer-assist/internal/model"
)

// EscalationRepo persists farmer-raised issues and their progress
// through the pending -> in-progress -> resolved chain.
type EscalationRepo struct{ DB *sql.DB }

func NewEscalationRepo(db *sql.DB) *EscalationRepo { return &EscalationRepo{DB: db} }

const escalationCols = "id,user_id,name,location,crop,concern,issue_description,language,status,officer_notes,resolved_at,created_at"

// EscalationWithReporter joins the reporter's identity onto the
// escalation for the officer listing, mirroring what the officer
// dashboard renders next to each item.
type EscalationWithReporter struct {
	model.Escalation
	ReporterName  string
	ReporterPhone string
}

func scanEscalation(scan func(dest ...any) error) (model.Escalation, error) {
	var e model.Escalation
	err := scan(&e.ID, &e.UserID, &e.Name, &e.Location, &e.Crop, &e.Concern,
		&e.IssueDescription, &e.Language, &e.Status, &e.OfficerNotes, &e.ResolvedAt, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	return e, err
}

// Create inserts a new escalation in the pending state and returns it.
func (r *EscalationRepo) Create(ctx context.Context, e model.Escalation) (model.Escalation, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO escalations (user_id, name, location, crop, concern, issue_description, language, status)
		VALUES (?,?,?,?,?,?,?,?)`,
		e.UserID, e.Name, e.Location, e.Crop, e.Concern, e.IssueDescription, e.Language, model.StatusPending)
	if err != nil {
		return model.Escalation{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Escalation{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByID fetches one escalation.
func (r *EscalationRepo) GetByID(ctx context.Context, id uint64) (model.Escalation, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+escalationCols+" FROM escalations WHERE id=? LIMIT 1", id)
	return scanEscalation(row.Scan)
}

// List returns escalations newest first. When userID is zero the whole
// set is returned (officer view, with reporter identity joined in);
// otherwise only the given user's items.
func (r *EscalationRepo) List(ctx context.Context, userID uint64) ([]EscalationWithReporter, error) {
	q := `SELECT e.id,e.user_id,e.name,e.location,e.crop,e.concern,e.issue_description,
	             e.language,e.status,e.officer_notes,e.resolved_at,e.created_at,
	             u.name,u.phone
	      FROM escalations e JOIN users u ON u.id = e.user_id`
	args := []any{}
	if userID != 0 {
		q += " WHERE e.user_id=?"
		args = append(args, userID)
	}
	q += " ORDER BY e.created_at DESC, e.id DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EscalationWithReporter
	for rows.Next() {
		var e EscalationWithReporter
		if err := rows.Scan(&e.ID, &e.UserID, &e.Name, &e.Location, &e.Crop, &e.Concern,
			&e.IssueDescription, &e.Language, &e.Status, &e.OfficerNotes, &e.ResolvedAt, &e.CreatedAt,
			&e.ReporterName, &e.ReporterPhone); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// UpdateStatus advances an escalation's status. The transition must
// move forward in the chain or ErrBadTransition is returned. Reaching
// resolved stamps resolved_at; notes overwrite officer_notes when
// non-nil.
func (r *EscalationRepo) UpdateStatus(ctx context.Context, id uint64, status string, notes *string) (model.Escalation, error) {
	cur, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Escalation{}, err
	}
	if !model.StatusAdvances(cur.Status, status) {
		return model.Escalation{}, ErrBadTransition
	}

	var resolvedAt *time.Time
	if status == model.StatusResolved {
		now := time.Now().UTC()
		resolvedAt = &now
	}
	// The status guard repeats in SQL so two racing officers cannot both
	// apply conflicting transitions.
	res, err := r.DB.ExecContext(ctx, `
		UPDATE escalations
		SET status=?, officer_notes=COALESCE(?, officer_notes), resolved_at=COALESCE(?, resolved_at)
		WHERE id=? AND status=?`,
		status, notes, resolvedAt, id, cur.Status)
	if err != nil {
		return model.Escalation{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.Escalation{}, ErrBadTransition
	}
	return r.GetByID(ctx, id)
}
