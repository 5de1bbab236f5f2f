package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/agrimitra/farmer-assist/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,phone,role,language,is_verified,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Phone, &u.Role, &u.Language, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts an unverified user and returns its ID. The phone
// number is unique; a duplicate insert maps to ErrPhoneExists.
func (r *UserRepo) Create(ctx context.Context, name, phone, role, language string) (uint64, error) {
	phone = strings.TrimSpace(phone)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, phone, role, language, is_verified) VALUES (?,?,?,?,0)",
		name, phone, role, language)
	if err != nil {
		// MySQL duplicate-key error code
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrPhoneExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByPhone fetches a user by phone number.
func (r *UserRepo) GetByPhone(ctx context.Context, phone string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE phone=? LIMIT 1", phone))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// MarkVerified flips the verification flag after a successful OTP
// check and returns the updated user.
func (r *UserRepo) MarkVerified(ctx context.Context, phone string) (model.User, error) {
	phone = strings.TrimSpace(phone)
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET is_verified=1 WHERE phone=?", phone)
	if err != nil {
		return model.User{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// 0 rows can also mean "already verified"; re-read to decide.
		u, err := r.GetByPhone(ctx, phone)
		if err != nil {
			return model.User{}, err
		}
		return u, nil
	}
	return r.GetByPhone(ctx, phone)
}

// UpdateProfile changes the caller's display name and language
// preference and returns the updated record.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, name, language string) (model.User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, language=? WHERE id=?", name, language, id); err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, id)
}

// ListFarmers returns every user with the farmer role, for the
// officer dashboard.
func (r *UserRepo) ListFarmers(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userCols+" FROM users WHERE role=? ORDER BY created_at DESC", model.RoleFarmer)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Phone, &u.Role, &u.Language, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
