// internal/adapters/in/http/handlers/event_handler.go
package handlers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	usecase "devevent/internal/application/usecase"
	evdom "devevent/internal/domain/event"
	imgdom "devevent/internal/domain/eventImage"
	"devevent/internal/domain/listField"
)

// multipart overhead allowed on top of the image itself
const formOverheadBytes = 1 << 20

// EventHandler serves /api/events and /api/events/{slug}[/...].
type EventHandler struct {
	uc       *usecase.EventUsecase
	bookings *BookingHandler // optional: /api/events/{slug}/bookings

	maxImageBytes int
}

func NewEventHandler(uc *usecase.EventUsecase, bookings *BookingHandler, maxImageBytes int) http.Handler {
	if maxImageBytes <= 0 {
		maxImageBytes = imgdom.DefaultMaxImageSizeBytes
	}
	return &EventHandler{uc: uc, bookings: bookings, maxImageBytes: maxImageBytes}
}

func (h *EventHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	if path == "/api/events" {
		switch r.Method {
		case http.MethodPost:
			h.create(w, r)
		case http.MethodGet:
			h.list(w, r)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if !strings.HasPrefix(path, "/api/events/") {
		notFound(w)
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/api/events/"), "/")
	slug := strings.TrimSpace(parts[0])
	if slug == "" {
		notFound(w)
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, slug)
		case http.MethodDelete:
			h.delete(w, r, slug)
		default:
			methodNotAllowed(w)
		}
		return
	}

	switch parts[1] {
	case "similar":
		if len(parts) != 2 {
			notFound(w)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		h.similar(w, r, slug)
	case "bookings":
		if h.bookings == nil {
			notFound(w)
			return
		}
		h.bookings.serve(w, r, slug, parts[2:])
	default:
		notFound(w)
	}
}

// POST /api/events (multipart/form-data)
func (h *EventHandler) create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxImageBytes)+formOverheadBytes)

	if err := r.ParseMultipartForm(int64(h.maxImageBytes) + formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			writeErr(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return
		}
		writeErr(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("image")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Image file is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(h.maxImageBytes)+1))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	form := r.MultipartForm.Value
	in := usecase.CreateEventInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Overview:    r.FormValue("overview"),
		Venue:       r.FormValue("venue"),
		Location:    r.FormValue("location"),
		Date:        r.FormValue("date"),
		Time:        r.FormValue("time"),
		Mode:        r.FormValue("mode"),
		Audience:    r.FormValue("audience"),
		Organizer:   r.FormValue("organizer"),
		Tags:        listField.FromValues(form, "tags"),
		Agenda:      listField.FromValues(form, "agenda"),
		Image: imgdom.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		},
	}

	ev, err := h.uc.Create(r.Context(), in)
	if err != nil {
		writeEventErr(w, "Event creation Failed", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Event created successfully",
		"event":   toEventResponse(ev),
	})
}

// GET /api/events?page=&perPage=&tag=&mode=&q=&sort=&order=
func (h *EventHandler) list(w http.ResponseWriter, r *http.Request) {
	qv := r.URL.Query()

	filter := evdom.Filter{
		SearchQuery: qv.Get("q"),
		Tag:         qv.Get("tag"),
	}
	if m := strings.TrimSpace(qv.Get("mode")); m != "" {
		mode, err := evdom.ParseMode(m)
		if err != nil {
			writeErr(w, http.StatusBadRequest, "Invalid mode", err)
			return
		}
		filter.Mode = &mode
	}

	sort := evdom.Sort{Column: strings.TrimSpace(qv.Get("sort"))}
	switch strings.ToLower(strings.TrimSpace(qv.Get("order"))) {
	case "asc":
		sort.Order = evdom.SortAsc
	default:
		sort.Order = evdom.SortDesc
	}

	page := evdom.Page{
		Number:  parseIntDefault(qv.Get("page"), 1),
		PerPage: parseIntDefault(qv.Get("perPage"), 0),
	}

	res, err := h.uc.List(r.Context(), filter, sort, page)
	if err != nil {
		writeEventErr(w, "Failed to fetch events", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Events fetched successfully",
		"events":     toEventResponses(res.Items),
		"page":       res.Page,
		"perPage":    res.PerPage,
		"totalCount": res.TotalCount,
		"totalPages": res.TotalPages,
	})
}

// GET /api/events/{slug}
func (h *EventHandler) get(w http.ResponseWriter, r *http.Request, slug string) {
	ev, err := h.uc.GetBySlug(r.Context(), slug)
	if err != nil {
		writeEventErr(w, "Failed to fetch event", err)
		return
	}

	resp := map[string]any{
		"message": "Event fetched successfully",
		"event":   toEventResponse(ev),
	}
	if h.bookings != nil {
		n, err := h.bookings.uc.Count(r.Context(), slug)
		if err != nil {
			log.Printf("[event.handler] WARN: booking count for %s failed: %v", slug, err)
		}
		resp["bookings"] = n
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /api/events/{slug}/similar?limit=
func (h *EventHandler) similar(w http.ResponseWriter, r *http.Request, slug string) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), evdom.DefaultSimilarLimit)

	items, err := h.uc.Similar(r.Context(), slug, limit)
	if err != nil {
		writeEventErr(w, "Failed to fetch similar events", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": toEventResponses(items)})
}

// DELETE /api/events/{slug}
func (h *EventHandler) delete(w http.ResponseWriter, r *http.Request, slug string) {
	if err := h.uc.Delete(r.Context(), slug); err != nil {
		writeEventErr(w, "Failed to delete event", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeEventErr(w http.ResponseWriter, message string, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, evdom.ErrNotFound):
		code = http.StatusNotFound
		message = "Event not found"
	case errors.Is(err, evdom.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, imgdom.ErrFileTooLarge):
		code = http.StatusRequestEntityTooLarge
	case isEventValidationErr(err):
		code = http.StatusBadRequest
	case isNotSupported(err):
		code = http.StatusNotImplemented
	}
	if code == http.StatusInternalServerError {
		log.Printf("[event.handler] ERROR: %s: %v", message, err)
	}
	writeErr(w, code, message, err)
}

func isEventValidationErr(err error) bool {
	for _, target := range []error{
		evdom.ErrInvalidID, evdom.ErrInvalidTitle, evdom.ErrInvalidSlug, evdom.ErrInvalidDescription,
		evdom.ErrInvalidOverview, evdom.ErrInvalidImage, evdom.ErrInvalidVenue, evdom.ErrInvalidLocation,
		evdom.ErrInvalidDate, evdom.ErrInvalidTime, evdom.ErrInvalidMode, evdom.ErrInvalidAudience,
		evdom.ErrInvalidAgenda, evdom.ErrInvalidOrganizer, evdom.ErrInvalidTags, evdom.ErrInvalidCreatedAt,
		imgdom.ErrInvalidFileType, imgdom.ErrEmptyFile, imgdom.ErrInvalidFileName,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
