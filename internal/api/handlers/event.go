package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dlane/event-checkin/internal/domain"
	"github.com/dlane/event-checkin/internal/roster"
	"github.com/dlane/event-checkin/internal/service"
)

type EventHandler struct {
	eventService *service.EventService
}

func NewEventHandler(eventService *service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type CreateEventRequest struct {
	Name       string `json:"name"`
	Password   string `json:"password"`
	Location   string `json:"location"`
	CSVContent string `json:"csvContent"`
}

type CreateEventResponse struct {
	Success       bool     `json:"success"`
	EventID       int64    `json:"eventId"`
	AttendeeCount int      `json:"attendeeCount"`
	CSVErrors     []string `json:"csvErrors"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Password == "" || req.CSVContent == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: name, password, csvContent")
		return
	}

	result, err := h.eventService.Create(r.Context(), service.CreateEventInput{
		Name:       req.Name,
		Password:   req.Password,
		Location:   req.Location,
		CSVContent: req.CSVContent,
	})
	if err != nil {
		if errors.Is(err, roster.ErrEmptyInput) {
			respondError(w, http.StatusBadRequest, "CSV file is empty")
			return
		}
		if errors.Is(err, domain.ErrNoValidAttendees) {
			respondJSON(w, http.StatusBadRequest, map[string]interface{}{
				"error":     "No valid attendees found in CSV",
				"csvErrors": result.CSVErrors,
			})
			return
		}
		log.Printf("ERROR [handlers.Event] failed to create event: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	csvErrors := result.CSVErrors
	if csvErrors == nil {
		csvErrors = []string{}
	}
	respondJSON(w, http.StatusOK, CreateEventResponse{
		Success:       true,
		EventID:       result.Event.ID,
		AttendeeCount: result.AttendeeCount,
		CSVErrors:     csvErrors,
	})
}

type AttendeeListResponse struct {
	Attendees []domain.AttendeeStatus `json:"attendees"`
}

func (h *EventHandler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	attendees, err := h.eventService.ListAttendees(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			respondError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Printf("ERROR [handlers.Event] failed to list attendees: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if attendees == nil {
		attendees = []domain.AttendeeStatus{}
	}
	respondJSON(w, http.StatusOK, AttendeeListResponse{Attendees: attendees})
}

type SignInRequest struct {
	AttendeeID int64 `json:"attendeeId"`
}

type SignInResponse struct {
	Success         bool   `json:"success"`
	AttendeeName    string `json:"attendeeName"`
	AlreadySignedIn bool   `json:"alreadySignedIn"`
	Message         string `json:"message,omitempty"`
}

func (h *EventHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	eventID, ok := eventIDParam(r)
	if !ok {
		respondError(w, http.StatusNotFound, "Event not found")
		return
	}

	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AttendeeID == 0 {
		respondError(w, http.StatusBadRequest, "Attendee ID required")
		return
	}

	result, err := h.eventService.SignIn(r.Context(), eventID, req.AttendeeID)
	if err != nil {
		if errors.Is(err, domain.ErrAttendeeNotFound) {
			respondError(w, http.StatusNotFound, "Attendee not found for this event")
			return
		}
		log.Printf("ERROR [handlers.Event] failed to record check-in: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	resp := SignInResponse{
		Success:         true,
		AttendeeName:    result.AttendeeName,
		AlreadySignedIn: result.AlreadySignedIn,
	}
	if result.AlreadySignedIn {
		resp.Message = "You were already signed in, but we've recorded this additional check-in."
	}
	respondJSON(w, http.StatusOK, resp)
}
