package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs every request once it has been served.
func LoggingMiddleware(next http.Handler) http.Handler {
	logger := logrus.WithField("component", "http")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(logrus.Fields{
			"method":     r.Method,
			"url":        r.URL.String(),
			"status":     rec.status,
			"duration":   time.Since(start),
			"user-agent": r.UserAgent(),
		}).Info("served request")
	})
}

// NewRouter wires the form, the JSON API and the health check. Everything
// but the health check is rate limited.
func NewRouter(
	relocation *RelocationHandler,
	form *FormHandler,
	limiter *RateLimiter,
) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	app := router.PathPrefix("/").Subrouter()
	app.Use(func(next http.Handler) http.Handler {
		return RateLimitMiddleware(limiter, next)
	})

	app.HandleFunc("/relocation/calculate", relocation.Calculate)
	app.HandleFunc("/", form.Show).Methods(http.MethodGet)
	app.HandleFunc("/", form.Submit).Methods(http.MethodPost)
	app.HandleFunc("/copy", form.Copy).Methods(http.MethodPost)
	app.HandleFunc("/reset", form.Reset).Methods(http.MethodPost)
	app.HandleFunc("/notice/dismiss", form.DismissNotice).Methods(http.MethodPost)

	return router
}
