package handler // declare the package name; contains HTTP handlers

import (
	"context"  // context carries deadlines for database calls
	"net/http" // HTTP status codes
	"time"     // request timeouts

	"github.com/labstack/echo/v4" // echo provides the HTTP context

	"github.com/agrimitra/farmer-assist/internal/repository"
)

// OfficerHandler serves the read-only officer dashboard views: the
// full query stream and the farmer roster. Routes using it sit behind
// RequireRole("officer").
type OfficerHandler struct {
	Users   *repository.UserRepo
	Queries *repository.QueryRepo
}

func NewOfficerHandler(users *repository.UserRepo, queries *repository.QueryRepo) *OfficerHandler {
	if users == nil || queries == nil {
		panic("NewOfficerHandler: nil dependency")
	}
	return &OfficerHandler{Users: users, Queries: queries}
}

// ListQueries returns every farmer query, newest first, so officers
// can review what the AI has been telling people.
func (h *OfficerHandler) ListQueries(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qs, err := h.Queries.ListAll(ctx)
	if err != nil {
		c.Logger().Errorf("[officer] list queries: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load queries"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "queries": toQueryViews(qs)})
}

// ListFarmers returns every registered farmer account.
func (h *OfficerHandler) ListFarmers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListFarmers(ctx)
	if err != nil {
		c.Logger().Errorf("[officer] list farmers: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load farmers"})
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toUserView(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "farmers": views})
}
