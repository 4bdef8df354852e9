package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"
)

const URI_WS = "/play"
const URI_WS_LEGACY = "/ws"

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", URI_WS, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", URI_WS_LEGACY, s.GameServer.HandleHttpCall())
	s.router.HandleFunc("GET", "/api/health", s.API.HandleHealth())
	s.router.HandleFunc("GET", "/api/races", s.API.HandleRaces())
	s.router.HandleFunc("GET", "/api/races/:id", s.API.HandleRace())
	s.router.HandleFunc("GET", "/api/tracks/:seed", s.API.HandleTrack())
}

// handler wraps the router in the middleware every request goes through.
func (s *Server) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLog)
	r.Use(middleware.Recoverer)
	r.Mount("/", s.router)
	return r
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}
