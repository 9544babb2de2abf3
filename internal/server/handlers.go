package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/asclepius/internal/booking"
	"github.com/UnknownOlympus/asclepius/internal/mapview"
	"github.com/UnknownOlympus/asclepius/internal/models"
	"github.com/UnknownOlympus/asclepius/internal/resolver"
	"github.com/UnknownOlympus/asclepius/internal/schedule"
	"github.com/UnknownOlympus/asclepius/internal/search"
	"github.com/UnknownOlympus/asclepius/internal/service"
	"github.com/UnknownOlympus/asclepius/internal/session"
	"github.com/go-chi/chi/v5"
)

// alertBadPreferredTime is shown when a submitted time violates the booking window.
const alertBadPreferredTime = "Please choose a weekday between 09:00 and 17:00 within the next 28 days."

// Handler serves the widget API on top of the appointment service.
type Handler struct {
	svc *service.Appointment
	log *slog.Logger
}

// NewHandler creates the API handler.
func NewHandler(svc *service.Appointment, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

type startSessionRequest struct {
	Permission string           `json:"permission"`
	Position   *models.GeoPoint `json:"position,omitempty"`
}

type updateLocationRequest struct {
	Postcode string `json:"postcode"`
}

type selectMarkerRequest struct {
	MarkerID int `json:"marker_id"`
}

type promptInfo struct {
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

type mapState struct {
	Center  models.GeoPoint  `json:"center"`
	Zoom    int              `json:"zoom"`
	Markers []mapview.Marker `json:"markers"`
}

type doctorDisplay struct {
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	Postcode  string        `json:"postcode"`
	Map       mapState      `json:"map"`
	Doctor    doctorDisplay `json:"doctor"`
	Prompt    *promptInfo   `json:"prompt,omitempty"`
	Alerts    []string      `json:"alerts,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// startSession opens a session and runs the initial resolution cycle. When the
// cycle cannot settle without postcode input, the response carries the prompt
// the page would have shown and the client follows up on the location route.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req startSessionRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	device := clientDevice{
		permission: models.PermissionState(req.Permission),
		position:   req.Position,
	}

	sess, _, err := h.svc.StartSession(r.Context(), device, noPrompt{})
	h.writeCycleOutcome(w, r, sess, err)
}

// getSession reports the current view state of a session.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, r, http.StatusOK, h.snapshot(sess, nil))
}

// updateLocation restarts the resolution cycle from edited postcode text.
func (h *Handler) updateLocation(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateLocationRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err := h.svc.UpdateLocation(r.Context(), sess, req.Postcode, noPrompt{})
	h.writeCycleOutcome(w, r, sess, err)
}

// selectMarker records a marker click.
func (h *Handler) selectMarker(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectMarkerRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := h.svc.SelectMarker(sess, req.MarkerID); err != nil {
		h.writeError(w, r, http.StatusNotFound, "unknown marker")
		return
	}

	h.writeJSON(w, r, http.StatusOK, h.snapshot(sess, nil))
}

// book validates the submitted preferred time against the booking window (the
// server-side stand-in for the picker widget) and forwards the form to the
// submission flow.
func (h *Handler) book(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	var form models.BookingForm
	if err := decodeBody(r, &form); err != nil {
		h.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if form.PreferredTime != "" {
		preferred, err := schedule.Parse(form.PreferredTime, time.Local)
		if err != nil || schedule.Validate(preferred, time.Now()) != nil {
			h.writeJSON(w, r, http.StatusUnprocessableEntity, booking.Result{
				Alerts: []string{alertBadPreferredTime},
			})
			return
		}
	}

	result, err := h.svc.Book(r.Context(), sess, form)
	switch {
	case errors.Is(err, booking.ErrNoSelection):
		h.writeJSON(w, r, http.StatusConflict, result)
	case err != nil:
		h.writeError(w, r, http.StatusBadGateway, "failed to send confirmation email")
	default:
		h.writeJSON(w, r, http.StatusOK, result)
	}
}

// session loads the session named in the URL, replying 404 when it is gone.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")

	sess, ok := h.svc.Session(id)
	if !ok {
		h.writeError(w, r, http.StatusNotFound, "unknown session")
		return nil, false
	}

	return sess, true
}

// snapshot renders the session view state.
func (h *Handler) snapshot(sess *session.Session, alerts []string) sessionResponse {
	center, zoom := sess.View().Center()
	name, vicinity := sess.DoctorDisplay()

	return sessionResponse{
		SessionID: sess.ID,
		Postcode:  sess.Postcode(),
		Map:       mapState{Center: center, Zoom: zoom, Markers: sess.View().Markers()},
		Doctor:    doctorDisplay{Name: name, Vicinity: vicinity},
		Alerts:    alerts,
	}
}

// writeCycleOutcome maps a resolution cycle outcome to a response: a settled
// cycle returns the refreshed view state, a prompt requirement returns the
// prompt, and provider failures surface as alerts or gateway errors instead of
// the silent no-result state the page had.
func (h *Handler) writeCycleOutcome(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	var promptErr *resolver.PromptError

	switch {
	case err == nil:
		h.writeJSON(w, r, http.StatusOK, h.snapshot(sess, nil))
	case errors.As(err, &promptErr):
		response := h.snapshot(sess, nil)
		response.Prompt = &promptInfo{Message: promptErr.Message, Suggestion: promptErr.Suggestion}
		h.writeJSON(w, r, http.StatusOK, response)
	case errors.Is(err, resolver.ErrPromptAttemptsExceeded):
		response := h.snapshot(sess, []string{resolver.MsgInvalidPostcode})
		h.writeJSON(w, r, http.StatusUnprocessableEntity, response)
	case errors.Is(err, search.ErrSearchFailed):
		h.log.ErrorContext(r.Context(), "Doctor search failed", "session", sess.ID, "error", err)
		response := h.snapshot(sess, nil)
		response.Error = err.Error()
		h.writeJSON(w, r, http.StatusBadGateway, response)
	default:
		h.log.ErrorContext(r.Context(), "Resolution cycle failed", "session", sess.ID, "error", err)
		response := h.snapshot(sess, []string{"Geocode was not successful for the following reason: " + err.Error()})
		response.Error = err.Error()
		h.writeJSON(w, r, http.StatusBadGateway, response)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, map[string]string{"error": message})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

// decodeBody decodes a JSON request body, tolerating an empty body.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
