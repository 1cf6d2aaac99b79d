// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	usecase "devevent/internal/application/usecase"
	evdom "devevent/internal/domain/event"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr writes {"message": ..., "error": ...}.
func writeErr(w http.ResponseWriter, status int, message string, err error) {
	body := map[string]string{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	writeJSON(w, status, body)
}

func methodNotAllowed(w http.ResponseWriter) {
	writeErr(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
}

func notFound(w http.ResponseWriter) {
	writeErr(w, http.StatusNotFound, "Not found", nil)
}

func isNotSupported(err error) bool {
	return err != nil && usecase.IsNotSupported(err)
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// eventResponse is the public JSON shape of an event.
type eventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Overview    string    `json:"overview"`
	Image       string    `json:"image"`
	Venue       string    `json:"venue"`
	Location    string    `json:"location"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mode        string    `json:"mode"`
	Audience    string    `json:"audience"`
	Agenda      []string  `json:"agenda"`
	Organizer   string    `json:"organizer"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toEventResponse(e evdom.Event) eventResponse {
	agenda, tags := e.Agenda, e.Tags
	if agenda == nil {
		agenda = []string{}
	}
	if tags == nil {
		tags = []string{}
	}
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		Overview:    e.Overview,
		Image:       e.Image,
		Venue:       e.Venue,
		Location:    e.Location,
		Date:        e.Date,
		Time:        e.Time,
		Mode:        string(e.Mode),
		Audience:    e.Audience,
		Agenda:      agenda,
		Organizer:   e.Organizer,
		Tags:        tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEventResponses(items []evdom.Event) []eventResponse {
	out := make([]eventResponse, 0, len(items))
	for _, e := range items {
		out = append(out, toEventResponse(e))
	}
	return out
}
