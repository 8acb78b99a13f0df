package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/dlane/event-checkin/internal/domain"
	"github.com/dlane/event-checkin/internal/service"
)

// ManageHandler serves the password-gated organizer endpoints. A
// password-verified call to Details issues a session cookie; later
// calls may present the cookie instead of the password. The resolved
// session is passed around as an explicit value, never stashed in the
// request context.
type ManageHandler struct {
	eventService   *service.EventService
	sessionService *service.SessionService
}

func NewManageHandler(eventService *service.EventService, sessionService *service.SessionService) *ManageHandler {
	return &ManageHandler{
		eventService:   eventService,
		sessionService: sessionService,
	}
}

// resolveSession reads the session cookie and validates it. Absent or
// invalid cookies yield nil; the caller decides whether that matters.
func (h *ManageHandler) resolveSession(r *http.Request) *domain.Session {
	cookie, err := r.Cookie(service.SessionCookieName)
	if err != nil {
		return nil
	}
	session, err := h.sessionService.Validate(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// authorize grants management access to eventID with either the event
// password or a session bound to that event. It reports whether the
// password path was taken so callers can decide to issue a cookie.
func (h *ManageHandler) authorize(r *http.Request, eventID int64, password string, session *domain.Session) (viaPassword bool, err error) {
	if password != "" {
		if err := h.eventService.VerifyPassword(r.Context(), eventID, password); err != nil {
			return false, err
		}
		return true, nil
	}
	if session != nil && session.EventID == eventID {
		return false, nil
	}
	return false, domain.ErrInvalidPassword
}

func (h *ManageHandler) respondAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound):
		respondError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, domain.ErrInvalidPassword):
		respondError(w, http.StatusUnauthorized, "Invalid password")
	default:
		log.Printf("ERROR [handlers.Manage] authorization failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

type PasswordRequest struct {
	Password string `json:"password"`
}

type EventDetails struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Location  *string `json:"location"`
	CreatedAt string  `json:"created_at"`
}

type DetailsResponse struct {
	Event          EventDetails `json:"event"`
	AttendeeCount  int64        `json:"attendeeCount"`
	CheckedInCount int64        `json:"checkedInCount"`
}

func (h *ManageHandler) Details(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := h.resolveSession(r)
	if req.Password == "" && session == nil {
		respondError(w, http.StatusUnauthorized, "Password required")
		return
	}

	viaPassword, err := h.authorize(r, eventID, req.Password, session)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	result, err := h.eventService.Details(r.Context(), eventID)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	if viaPassword {
		_, token, err := h.sessionService.Create(r.Context(), eventID)
		if err != nil {
			// Details still succeed without a session; the client just
			// keeps sending the password.
			log.Printf("ERROR [handlers.Manage] failed to create session: %v", err)
		} else {
			setSessionCookie(w, token, h.sessionService.TTL())
		}
	}

	respondJSON(w, http.StatusOK, DetailsResponse{
		Event: EventDetails{
			ID:        result.Event.ID,
			Name:      result.Event.Name,
			Location:  result.Event.Location,
			CreatedAt: result.Event.CreatedAt.Format(time.RFC3339),
		},
		AttendeeCount:  result.AttendeeCount,
		CheckedInCount: result.CheckedInCount,
	})
}

type AnalyticsResponse struct {
	TotalAttendees int64                  `json:"totalAttendees"`
	TotalCheckedIn int64                  `json:"totalCheckedIn"`
	CheckInsByDate []domain.DateCount     `json:"checkInsByDate"`
	RecentCheckIns []domain.RecentCheckIn `json:"recentCheckIns"`
}

func (h *ManageHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := h.resolveSession(r)
	if req.Password == "" && session == nil {
		respondError(w, http.StatusUnauthorized, "Password required")
		return
	}

	if _, err := h.authorize(r, eventID, req.Password, session); err != nil {
		h.respondAuthError(w, err)
		return
	}

	result, err := h.eventService.Analytics(r.Context(), eventID)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	resp := AnalyticsResponse{
		TotalAttendees: result.TotalAttendees,
		TotalCheckedIn: result.TotalCheckedIn,
		CheckInsByDate: result.CheckInsByDate,
		RecentCheckIns: result.RecentCheckIns,
	}
	if resp.CheckInsByDate == nil {
		resp.CheckInsByDate = []domain.DateCount{}
	}
	if resp.RecentCheckIns == nil {
		resp.RecentCheckIns = []domain.RecentCheckIn{}
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *ManageHandler) Export(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req PasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session := h.resolveSession(r)
	if req.Password == "" && session == nil {
		respondError(w, http.StatusUnauthorized, "Password required")
		return
	}

	if _, err := h.authorize(r, eventID, req.Password, session); err != nil {
		h.respondAuthError(w, err)
		return
	}

	filename, content, err := h.eventService.Export(r.Context(), eventID)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Write(content)
}

type AddAttendeeRequest struct {
	Password   string `json:"password"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
}

type AddAttendeeResponse struct {
	Success  bool             `json:"success"`
	Attendee *domain.Attendee `json:"attendee"`
}

func (h *ManageHandler) AddAttendee(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req AddAttendeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Attendee name required")
		return
	}

	session := h.resolveSession(r)
	if req.Password == "" && session == nil {
		respondError(w, http.StatusUnauthorized, "Password required")
		return
	}

	if _, err := h.authorize(r, eventID, req.Password, session); err != nil {
		h.respondAuthError(w, err)
		return
	}

	attendee, err := h.eventService.AddAttendee(r.Context(), eventID, req.Name, req.ExternalID)
	if err != nil {
		h.respondAuthError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, AddAttendeeResponse{Success: true, Attendee: attendee})
}

func (h *ManageHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.resolveSession(r)
	if session != nil {
		if err := h.sessionService.Revoke(r.Context(), session.ID); err != nil {
			log.Printf("ERROR [handlers.Manage] failed to revoke session: %v", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie uses the same attribute set as setSessionCookie
// so the deletion is unambiguous to the client.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     service.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}
