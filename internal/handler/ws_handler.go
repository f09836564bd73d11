/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for rate limiting, validating
the room parameter, upgrading the HTTP connection to WebSocket, and starting the client pumps.
Join authorization itself happens over the socket: the first frame must be a joinRoom event.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"scrawl/internal/game"
	"scrawl/internal/pkg/errs"
	"scrawl/internal/pkg/limiter"
	"scrawl/internal/pkg/logx"
	"scrawl/internal/pkg/randx"
	"scrawl/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		roomID := chi.URLParam(r, "roomID")
		if !randx.IsValidRoomID(roomID) {
			logx.Warn("WebSocket request rejected: Malformed room ID", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		room := deps.Manager.GetRoom(roomID)
		if room == nil {
			logx.Info("WebSocket connection rejected: Room not found.", "room_id", roomID)
			resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := game.NewClient(room, conn)

		go client.WritePump()

		logx.Info("WebSocket connection established", "room_id", roomID)

		client.ReadPump()
	}
}
