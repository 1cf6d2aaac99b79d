// internal/adapters/in/http/handlers/booking_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"mime"
	"net/http"
	"time"

	usecase "devevent/internal/application/usecase"
	bkdom "devevent/internal/domain/booking"
	evdom "devevent/internal/domain/event"
)

// BookingHandler serves /api/events/{slug}/bookings[...]; it is reached through EventHandler.
type BookingHandler struct {
	uc *usecase.BookingUsecase
}

func NewBookingHandler(uc *usecase.BookingUsecase) *BookingHandler {
	return &BookingHandler{uc: uc}
}

type bookingResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"eventId"`
	Slug      string    `json:"slug"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *BookingHandler) serve(w http.ResponseWriter, r *http.Request, slug string, rest []string) {
	switch {
	case len(rest) == 0:
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		h.book(w, r, slug)
	case len(rest) == 1 && rest[0] == "count":
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.count(w, r, slug)
	default:
		notFound(w)
	}
}

// POST /api/events/{slug}/bookings  body: {"email": "..."} or form email=...
func (h *BookingHandler) book(w http.ResponseWriter, r *http.Request, slug string) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var email string
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid JSON body", err)
			return
		}
		email = req.Email
	} else {
		email = r.FormValue("email")
	}

	b, err := h.uc.Book(r.Context(), slug, email)
	if err != nil {
		writeBookingErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Booking created successfully",
		"booking": bookingResponse{
			ID:        b.ID,
			EventID:   b.EventID,
			Slug:      b.Slug,
			Email:     b.Email,
			CreatedAt: b.CreatedAt,
		},
	})
}

// GET /api/events/{slug}/bookings/count
func (h *BookingHandler) count(w http.ResponseWriter, r *http.Request, slug string) {
	n, err := h.uc.Count(r.Context(), slug)
	if err != nil {
		writeBookingErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func writeBookingErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, evdom.ErrNotFound):
		writeErr(w, http.StatusNotFound, "Event not found", err)
	case errors.Is(err, bkdom.ErrConflict):
		writeErr(w, http.StatusConflict, "You have already booked this event", err)
	case errors.Is(err, bkdom.ErrInvalidEmail), errors.Is(err, bkdom.ErrInvalidEventID):
		writeErr(w, http.StatusBadRequest, "Invalid booking", err)
	case isNotSupported(err):
		writeErr(w, http.StatusNotImplemented, "Booking not available", err)
	default:
		log.Printf("[booking.handler] ERROR: %v", err)
		writeErr(w, http.StatusInternalServerError, "Booking failed", err)
	}
}
