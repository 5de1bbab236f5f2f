package handler // handler defines http handlers

import (
	"errors"   // errors provides sentinel values used in getUserID
	"net/http" // status codes for validation failures
	"strconv"  // strconv converts strings to numeric types
	"time"     // timestamps in response views

	"github.com/go-playground/validator/v10" // struct-tag validation for request DTOs
	"github.com/labstack/echo/v4"            // echo defines request context types

	"github.com/agrimitra/farmer-assist/internal/model"
)

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWTAuth stores the raw claim value, whose concrete type
// depends on how the JWT library decoded the number.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getRole returns the role claim stored by JWTAuth, or "" when absent.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// Validator adapts go-playground/validator to Echo's Validator
// interface so handlers can call c.Validate on bound DTOs.
type Validator struct{ v *validator.Validate }

func NewValidator() *Validator { return &Validator{v: validator.New()} }

func (val *Validator) Validate(i interface{}) error {
	if err := val.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// ----- shared response views -----

// userView is the JSON shape of a user in API responses.
type userView struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Role       string `json:"role"`
	Language   string `json:"language"`
	IsVerified bool   `json:"is_verified"`
}

func toUserView(u model.User) userView {
	return userView{ID: u.ID, Name: u.Name, Phone: u.Phone, Role: u.Role, Language: u.Language, IsVerified: u.IsVerified}
}

// queryView is the JSON shape of a query record in API responses.
type queryView struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Language  string    `json:"language"`
	ImageURLs []string  `json:"image_urls"`
	Feedback  *string   `json:"feedback"`
	CreatedAt time.Time `json:"created_at"`
}

func toQueryView(q model.Query) queryView {
	urls := q.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return queryView{
		ID: q.ID, UserID: q.UserID, Question: q.Question, Answer: q.Answer,
		Language: q.Language, ImageURLs: urls, Feedback: q.Feedback, CreatedAt: q.CreatedAt,
	}
}

func toQueryViews(qs []model.Query) []queryView {
	out := make([]queryView, 0, len(qs))
	for _, q := range qs {
		out = append(out, toQueryView(q))
	}
	return out
}
