package handler // declare the package name; contains HTTP handlers

import (
	"context"  // context carries deadlines for the submission pipeline
	"errors"   // errors.Is/As matching for service and repository errors
	"net/http" // HTTP status codes
	"strconv"  // path parameter parsing
	"time"     // request timeouts

	"github.com/labstack/echo/v4" // echo provides the HTTP context

	"github.com/agrimitra/farmer-assist/internal/repository"
	"github.com/agrimitra/farmer-assist/internal/service"
	"github.com/agrimitra/farmer-assist/internal/upload"
)

// QueryHandler exposes the agronomy Q&A endpoints. All business logic
// lives in the service; the handler binds input, maps errors to status
// codes and shapes the JSON responses.
type QueryHandler struct {
	Svc *service.QueryService
}

func NewQueryHandler(svc *service.QueryService) *QueryHandler {
	if svc == nil {
		panic("NewQueryHandler: nil service")
	}
	return &QueryHandler{Svc: svc}
}

type feedbackReq struct {
	QueryID  uint64 `json:"query_id" validate:"required"`
	Feedback string `json:"feedback" validate:"required"`
}

// Submit accepts a multipart form with a "question" text field, a
// "language" field and up to five "images" file parts, runs the AI
// pipeline and returns the stored query together with the answer. The
// submission timeout is generous because the AI call dominates it.
func (h *QueryHandler) Submit(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	question := c.FormValue("question")
	language := c.FormValue("language")

	var files []upload.File
	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fh := range form.File["images"] {
			files = append(files, upload.FromMultipart(fh))
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	q, reply, err := h.Svc.Submit(ctx, uid, question, language, files)
	if err != nil {
		var verr *upload.ValidationError
		switch {
		case errors.Is(err, service.ErrEmptySubmission):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": verr.Message})
		default:
			c.Logger().Errorf("[query] submit user=%d: %v", uid, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not process query"})
		}
	}

	if reply.Fallback {
		c.Logger().Warnf("[query] fallback answer served user=%d query=%d", uid, q.ID)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"answer":  q.Answer,
		"query":   toQueryView(q),
	})
}

// History returns the caller's most recent queries, newest first.
func (h *QueryHandler) History(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	qs, err := h.Svc.History(ctx, uid)
	if err != nil {
		c.Logger().Errorf("[query] history user=%d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load history"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "queries": toQueryViews(qs)})
}

// Feedback records a positive or negative rating on one of the
// caller's own queries.
func (h *QueryHandler) Feedback(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	var req feedbackReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	q, err := h.Svc.Feedback(ctx, uid, req.QueryID, req.Feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadFeedback):
			return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "query not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "you can only rate your own queries"})
		default:
			c.Logger().Errorf("[query] feedback user=%d query=%d: %v", uid, req.QueryID, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not record feedback"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "query": toQueryView(q)})
}

// Delete removes one of the caller's queries along with its uploaded
// images.
func (h *QueryHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid query id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Svc.Delete(ctx, uid, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "query not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "you can only delete your own queries"})
		default:
			c.Logger().Errorf("[query] delete user=%d query=%d: %v", uid, id, err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not delete query"})
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "query deleted"})
}

// Stats returns aggregate counters over the caller's queries.
func (h *QueryHandler) Stats(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Svc.Stats(ctx, uid)
	if err != nil {
		c.Logger().Errorf("[query] stats user=%d: %v", uid, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "could not load stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "stats": stats})
}
