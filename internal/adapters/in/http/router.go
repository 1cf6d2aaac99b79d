package httpin

import (
	"net/http"
	"strings"

	"devevent/internal/adapters/in/http/handlers"
	"devevent/internal/adapters/in/http/middleware"
	"devevent/internal/adapters/out/memory"
	usecase "devevent/internal/application/usecase"
)

// LocalImagePrefix is where memory-stored banners are served when no bucket is configured.
const LocalImagePrefix = "/images/"

// RouterDeps collects all usecases (and other dependencies) injected from the DI container.
type RouterDeps struct {
	EventUC   *usecase.EventUsecase
	BookingUC *usecase.BookingUsecase

	MaxImageBytes     int
	CORSAllowedOrigin string

	// optional: only set when images are kept in memory
	LocalImages *memory.ObjectStorage
}

// NewRouter sets up HTTP routing and wraps it with Logging / Recover / CORS.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// 以降、Usecase が存在するものだけマウントする
	if deps.EventUC != nil {
		var bookings *handlers.BookingHandler
		if deps.BookingUC != nil {
			bookings = handlers.NewBookingHandler(deps.BookingUC)
		}
		h := handlers.NewEventHandler(deps.EventUC, bookings, deps.MaxImageBytes)
		mux.Handle("/api/events", h)
		mux.Handle("/api/events/", h)
	}

	if deps.LocalImages != nil {
		mux.Handle(LocalImagePrefix, localImageHandler(deps.LocalImages))
	}

	// CORS は一番外側（Recover の 500 にもヘッダを付ける）
	var h http.Handler = mux
	h = middleware.Recover(h)
	h = middleware.Logging(h)
	h = middleware.CORS(deps.CORSAllowedOrigin)(h)
	return h
}

func localImageHandler(store *memory.ObjectStorage) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		obj, ok := store.Get(strings.TrimPrefix(r.URL.Path, LocalImagePrefix))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(obj.Data)
	})
}
