package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/matryer/way"
	log "github.com/sirupsen/logrus"

	"github.com/zucenko/marblerace/store"
	"github.com/zucenko/marblerace/track"
)

// API serves the read-only HTTP endpoints next to the websocket.
type API struct {
	DB store.DB
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warnf("writeJSON: %v", err)
	}
}

func (a *API) HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, HTTP_SUCCESS, map[string]interface{}{
			"status":    "ok",
			"timestamp": time.Now().UnixMilli(),
		})
	}
}

func (a *API) HandleRaces() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.DB == nil {
			writeJSON(w, HTTP_SERVER_ERR, apiError{"race history disabled"})
			return
		}
		limit := store.DefaultListLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeJSON(w, HTTP_BAD_REQUEST, apiError{"limit must be a positive integer"})
				return
			}
			limit = n
		}
		races, err := a.DB.ListRaces(limit)
		if err != nil {
			log.Errorf("HandleRaces: %v", err)
			writeJSON(w, HTTP_SERVER_ERR, apiError{"cant list races"})
			return
		}
		writeJSON(w, HTTP_SUCCESS, races)
	}
}

func (a *API) HandleRace() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.DB == nil {
			writeJSON(w, HTTP_SERVER_ERR, apiError{"race history disabled"})
			return
		}
		id := way.Param(r.Context(), "id")
		race, err := a.DB.GetRace(id)
		if errors.Is(err, store.ErrNotFound) {
			writeJSON(w, HTTP_NOT_FOUND, apiError{"race not found"})
			return
		}
		if err != nil {
			log.Errorf("HandleRace %s: %v", id, err)
			writeJSON(w, HTTP_SERVER_ERR, apiError{"cant load race"})
			return
		}
		writeJSON(w, HTTP_SUCCESS, race)
	}
}

// HandleTrack returns the track a seed generates, for checking other
// implementations against this one.
func (a *API) HandleTrack() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seed, err := strconv.ParseInt(way.Param(r.Context(), "seed"), 10, 32)
		if err != nil {
			writeJSON(w, HTTP_BAD_REQUEST, apiError{"seed must be a 32 bit integer"})
			return
		}
		writeJSON(w, HTTP_SUCCESS, track.Generate(int32(seed)))
	}
}
