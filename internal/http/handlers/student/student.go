// Package student contains all HTTP handlers related to the roster.
//
// Handlers are built with the factory/closure pattern: each exported
// function receives the roster once at startup and returns the
// http.HandlerFunc the router calls on every request.
//
//	router.HandleFunc("POST /api/students", student.New(r))
package student

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/trainer-roster/internal/roster"
	"github.com/aanand-mishra/trainer-roster/internal/types"
	"github.com/aanand-mishra/trainer-roster/internal/utils/response"
)

// Roster is the part of *roster.Manager the handlers use.
type Roster interface {
	Add(ctx context.Context, in types.NewStudent) (types.Student, error)
	Update(ctx context.Context, id string, patch types.StudentPatch) (types.Student, error)
	Remove(ctx context.Context, id string) error
	Get(id string) (types.Student, error)
	Students() []types.Student
	Stats(now time.Time) types.Stats
	Card(id string, now time.Time) (types.Card, error)
	Max() int
	CanAdd() bool
	RemainingSlots() int
	Busy() bool
}

// Summary is the payload of GET /api/roster.
type Summary struct {
	Max            int         `json:"maxStudents"`
	CanAdd         bool        `json:"canAdd"`
	RemainingSlots int         `json:"remainingSlots"`
	Busy           bool        `json:"busy"`
	Stats          types.Stats `json:"stats"`
}

// Register wires every roster route onto router.
//
//	POST   /api/students            → add a student
//	GET    /api/students            → list students in display order
//	GET    /api/students/{id}       → get one student
//	PATCH  /api/students/{id}       → partial update
//	DELETE /api/students/{id}       → remove a student
//	GET    /api/students/{id}/card  → profile card
//	GET    /api/stats               → aggregate statistics
//	GET    /api/roster              → capacity, busy flag and statistics
func Register(router *http.ServeMux, r Roster) {
	router.HandleFunc("POST /api/students", New(r))
	router.HandleFunc("GET /api/students", GetList(r))
	router.HandleFunc("GET /api/students/{id}", GetByID(r))
	router.HandleFunc("PATCH /api/students/{id}", Update(r))
	router.HandleFunc("DELETE /api/students/{id}", Delete(r))
	router.HandleFunc("GET /api/students/{id}/card", GetCard(r))
	router.HandleFunc("GET /api/stats", GetStats(r))
	router.HandleFunc("GET /api/roster", GetSummary(r))
}

// New handles POST /api/students.
//
// Request body (JSON):
//
//	{ "name": "Ana Lima", "email": "ana@test.com", "phone": "...", "age": 30, "goal": "..." }
//
// Responses: 201 with the created student, 400 on bad input, 409 when
// the roster is full.
func New(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		slog.Info("adding a student")

		var in types.NewStudent
		if err := decode(req, &in); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		st, err := r.Add(req.Context(), in)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusCreated, st)
	}
}

// GetList handles GET /api/students. An empty roster encodes as [].
func GetList(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		response.WriteJSON(w, http.StatusOK, r.Students())
	}
}

// GetByID handles GET /api/students/{id}.
func GetByID(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := req.PathValue("id")

		st, err := r.Get(id)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, st)
	}
}

// Update handles PATCH /api/students/{id}.
//
// Only the fields present in the body change. id and joinDate are not
// accepted: unknown fields are rejected with 400.
//
//	{ "status": "active", "adherenceRate": 80 }
func Update(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := req.PathValue("id")
		slog.Info("updating a student", slog.String("id", id))

		var patch types.StudentPatch
		if err := decode(req, &patch); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		st, err := r.Update(req.Context(), id, patch)
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, st)
	}
}

// Delete handles DELETE /api/students/{id}.
func Delete(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := req.PathValue("id")
		slog.Info("removing a student", slog.String("id", id))

		if err := r.Remove(req.Context(), id); err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// GetCard handles GET /api/students/{id}/card.
func GetCard(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		card, err := r.Card(req.PathValue("id"), time.Now())
		if err != nil {
			writeError(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, card)
	}
}

// GetStats handles GET /api/stats.
func GetStats(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		response.WriteJSON(w, http.StatusOK, r.Stats(time.Now()))
	}
}

// GetSummary handles GET /api/roster.
func GetSummary(r Roster) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		response.WriteJSON(w, http.StatusOK, Summary{
			Max:            r.Max(),
			CanAdd:         r.CanAdd(),
			RemainingSlots: r.RemainingSlots(),
			Busy:           r.Busy(),
			Stats:          r.Stats(time.Now()),
		})
	}
}

func decode(req *http.Request, v any) error {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return errors.New("request body is empty")
	}
	if err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// writeError maps roster errors to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors

	switch {
	case errors.As(err, &verrs):
		response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(verrs))
	case errors.Is(err, roster.ErrInvalidInput):
		response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
	case errors.Is(err, roster.ErrNotFound):
		response.WriteJSON(w, http.StatusNotFound, response.GeneralError(err))
	case errors.Is(err, roster.ErrCapacityExceeded):
		response.WriteJSON(w, http.StatusConflict, response.GeneralError(err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		response.WriteJSON(w, http.StatusServiceUnavailable, response.GeneralError(err))
	default:
		slog.Error("roster operation failed", slog.String("error", err.Error()))
		response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
	}
}
