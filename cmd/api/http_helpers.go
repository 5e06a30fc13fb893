package main

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"yamdb/proj/internal/config"
	"yamdb/proj/internal/domain/errs"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type Http struct {
	log *slog.Logger
	cfg *config.Config
}

type envelop map[string]any

// Response is the body of every non-2xx reply.
type Response struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func processMsg(status int, msg string) string {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return msg
}

func (h *Http) setupLogPerReq(r *http.Request) *slog.Logger {
	return h.log.With(
		"request_id",
		middleware.GetReqID(r.Context()),
		"method",
		r.Method,
		"path",
		r.URL.Path,
	)
}

// JSON renders a successful payload as is.
func (h *Http) JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

func (h *Http) Ok(w http.ResponseWriter, r *http.Request, data any) {
	h.JSON(w, r, data, http.StatusOK)
}

func (h *Http) Created(w http.ResponseWriter, r *http.Request, data any) {
	h.JSON(w, r, data, http.StatusCreated)
}

func (h *Http) NoContent(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (h *Http) Response(w http.ResponseWriter, r *http.Request, fieldErrs map[string]string, msg string, status int) {
	render.Status(r, status)
	render.JSON(w, r, Response{Success: false, Message: processMsg(status, msg), Errors: fieldErrs})
}

func (h *Http) BadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusBadRequest)
}

func (h *Http) InvalidData(w http.ResponseWriter, r *http.Request, fieldErrs map[string]string) {
	h.Response(w, r, fieldErrs, "Invalid data", http.StatusBadRequest)
}

func (h *Http) Unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusUnauthorized)
}

func (h *Http) Forbidden(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusForbidden)
}

func (h *Http) NotFound(w http.ResponseWriter, r *http.Request, msg string) {
	h.Response(w, r, nil, msg, http.StatusNotFound)
}

func (h *Http) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.Response(w, r, nil, "Method "+r.Method+" is not allowed", http.StatusMethodNotAllowed)
}

// Error picks the status for err from its kind. Unknown errors become a 500.
func (h *Http) Error(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *errs.ConflictError
	if vErr, ok := errs.IsValidation(err); ok {
		h.InvalidData(w, r, vErr.Fields)
		return
	}
	switch {
	case errors.As(err, &conflictErr):
		h.InvalidData(w, r, map[string]string{conflictErr.Field: conflictErr.Msg})
	case errors.Is(err, errs.ErrConflict):
		h.BadRequest(w, r, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		h.NotFound(w, r, err.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		h.Unauthorized(w, r, "Authentication credentials were not provided or are invalid")
	case errors.Is(err, errs.ErrPermissionDenied):
		h.Forbidden(w, r, "You do not have permission to perform this action")
	case errors.Is(err, errs.ErrMethodNotAllowed):
		h.MethodNotAllowed(w, r)
	default:
		h.ServerError(w, r, err, "")
	}
}

func (h *Http) ServerError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := http.StatusInternalServerError
	defaultErrMsg := "Sorry! Can't process your request. Please try again later."
	log := h.setupLogPerReq(r)
	if err != nil {
		log.Error(err.Error())
	}
	if msg == "" {
		msg = defaultErrMsg
	}
	if h.cfg.Debug && err != nil {
		w.WriteHeader(status)
		w.Write([]byte(err.Error() + "\n" + string(debug.Stack())))
		return
	}
	render.Status(r, status)
	render.JSON(w, r, Response{Success: false, Message: msg})
}
