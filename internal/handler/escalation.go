package handler // declare the package name; contains HTTP handlers

import (
	"context"  // context carries deadlines for database calls
	"errors"   // errors.Is matches repository sentinel errors
	"net/http" // HTTP status codes
	"strconv"  // path parameter parsing
	"strings"  // input normalization
	"time"     // request timeouts and timestamps

	"github.com/labstack/echo/v4" // echo provides the HTTP context

	"github.com/agrimitra/farmer-assist/internal/model"
	"github.com/agrimitra/farmer-assist/internal/queue"
	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/service"
)

// EscalationHandler exposes the officer escalation workflow: farmers
// raise issues the AI answer could not settle, officers work them
// through the pending / in-progress / resolved chain.
type EscalationHandler struct {
	Escalations *repository.EscalationRepo
}

func NewEscalationHandler(repo *repository.EscalationRepo) *EscalationHandler {
	if repo == nil {
		panic("NewEscalationHandler: nil repository")
	}
	return &EscalationHandler{Escalations: repo}
}

type escalationReq struct {
	Name             string `json:"name" validate:"required"`
	Location         string `json:"location" validate:"required"`
	Crop             string `json:"crop" validate:"required"`
	Concern          string `json:"concern" validate:"required"`
	IssueDescription string `json:"issue_description"`
	Language         string `json:"language"`
}

type statusReq struct {
	Status       string  `json:"status" validate:"required"`
	OfficerNotes *string `json:"officer_notes"`
}

// escalationView is the JSON shape of an escalation in responses. The
// reporter fields are only populated in the officer listing.
type escalationView struct {
	ID               uint64     `json:"id"`
	UserID           uint64     `json:"user_id"`
	Name             string     `json:"name"`
	Location         string     `json:"location"`
	Crop             string     `json:"crop"`
	Concern          string     `json:"concern"`
	IssueDescription string     `json:"issue_description"`
	Language         string     `json:"language"`
	Status           string     `json:"status"`
	OfficerNotes     *string    `json:"officer_notes"`
	ResolvedAt       *time.Time `json:"resolved_at"`
	CreatedAt        time.Time  `json:"created_at"`
	ReporterName     string     `json:"reporter_name,omitempty"`
	ReporterPhone    string     `json:"reporter_phone,omitempty"`
}

func toEscalationView(e model.Escalation) escalationView {
	return escalationView{
		ID: e.ID, UserID: e.UserID, Name: e.Name, Location: e.Location, Crop: e.Crop,
		Concern: e.Concern, IssueDescription: e.IssueDescription, Language: e.Language,
		Status: e.Status, OfficerNotes: e.OfficerNotes, ResolvedAt: e.ResolvedAt, CreatedAt: e.CreatedAt,
	}
}

// Create files a new escalation in the pending state and publishes an
// event for downstream notification consumers. Publishing is
// best-effort: the farmer's request succeeds even when the broker is
// unreachable.
func (h *EscalationHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	var req escalationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Escalations.Create(ctx, model.Escalation{
		UserID:           uid,
		Name:             strings.TrimSpace(req.Name),
		Location:         strings.TrimSpace(req.Location),
		Crop:             strings.TrimSpace(req.Crop),
		Concern:          strings.TrimSpace(req.Concern),
		IssueDescription: strings.TrimSpace(req.IssueDescription),
		Language:         model.NormalizeLanguage(req.Language),
	})
	if err != nil {
		c.Logger().Errorf("[escalation] create user=%d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not create escalation"})
	}

	_ = service.PublishEscalationCreated(ctx, queue.EscalationCreatedEvent{
		EscalationID: e.ID,
		UserID:       e.UserID,
		ReporterName: e.Name,
		Location:     e.Location,
		Crop:         e.Crop,
		Concern:      e.Concern,
		Language:     e.Language,
		CreatedAt:    e.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"success": true, "escalation": toEscalationView(e)})
}

// List returns escalations scoped by role: farmers see their own,
// officers see everything with the reporter identity attached.
func (h *EscalationHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	scope := uid
	if getRole(c) == model.RoleOfficer {
		scope = 0 // all users
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Escalations.List(ctx, scope)
	if err != nil {
		c.Logger().Errorf("[escalation] list user=%d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load escalations"})
	}

	views := make([]escalationView, 0, len(items))
	for _, it := range items {
		v := toEscalationView(it.Escalation)
		if scope == 0 {
			v.ReporterName = it.ReporterName
			v.ReporterPhone = it.ReporterPhone
		}
		views = append(views, v)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "escalations": views})
}

// UpdateStatus advances an escalation's status. Officer-only; the
// chain is monotonic, so moving backwards or repeating a state is a
// conflict.
func (h *EscalationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid escalation id"})
	}

	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	status := strings.ToLower(strings.TrimSpace(req.Status))
	if !model.ValidStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "status must be one of pending, in-progress, resolved"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Escalations.UpdateStatus(ctx, id, status, req.OfficerNotes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "escalation not found"})
		case errors.Is(err, repository.ErrBadTransition):
			return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "status can only move forward"})
		default:
			c.Logger().Errorf("[escalation] update status id=%d: %v", id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not update status"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "escalation": toEscalationView(e)})
}
