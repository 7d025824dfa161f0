/*
Package handler provides the admin HTTP surface of the chat server: health
and registry inspection endpoints, plus the WebSocket transport that speaks
the same line protocol as the TCP port.

This file defines the Router, applying CORS and logging middleware before
delegating to the API and WebSocket handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"bisonchat/internal/pkg/errs"
	"bisonchat/internal/pkg/logx"
	"bisonchat/internal/pkg/resp"
)

// Router builds the admin routing table: middleware, health check, registry
// inspection endpoints, and the WebSocket chat endpoint.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	wsUpgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins: corsAllowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]string{
			"status":  "ok",
			"service": "BisonChat Server",
		})
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/stats", HandleStats(deps))
		api.Get("/users", HandleListUsers(deps))
		api.Get("/rooms", HandleListRooms(deps))
		api.Get("/rooms/{name}", HandleRoomDetail(deps))
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, deps))

	return r
}

// HandleStats reports live user and room counts.
func HandleStats(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, rooms := deps.Manager.State().Stats()
		resp.RespondSuccess(w, r, map[string]int{
			"users": users,
			"rooms": rooms,
		})
	}
}

// HandleListUsers returns the names of all live users.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string][]string{
			"users": deps.Manager.State().UserNames(),
		})
	}
}

// HandleListRooms returns the names of all live rooms.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string][]string{
			"rooms": deps.Manager.State().RoomNames(),
		})
	}
}

// HandleRoomDetail returns the member list of one room.
func HandleRoomDetail(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		members, ok := deps.Manager.State().RoomMembers(name)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"name":    name,
			"members": members,
		})
	}
}
