package api

import (
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/erebor/erebor-backend/internal/api/cors"
	"github.com/erebor/erebor-backend/internal/api/recovery"
	"github.com/erebor/erebor-backend/internal/repository"
)

// NewRouter wires the read API routes to handlers.
func NewRouter(provider repository.TimetableProvider, allowedOrigin string, log zerolog.Logger) *mux.Router {
	root := mux.NewRouter()
	root.Use(recovery.Middleware(log))
	root.Use(cors.Middleware(allowedOrigin))

	h := NewTimetableHandler(provider, log)
	root.HandleFunc("/timetable", h.ListNamespaces).Methods("GET", "OPTIONS")
	root.HandleFunc("/timetable/{namespace}", h.ListTimetables).Methods("GET", "OPTIONS")
	root.HandleFunc("/timetable/{namespace}/{id}", h.GetTimetable).Methods("GET", "OPTIONS")

	return root
}
