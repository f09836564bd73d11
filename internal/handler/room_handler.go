/*
Package handler provides HTTP handler functions for room creation.
*/
package handler

import (
	"net/http"
	"strings"

	"scrawl/internal/pkg/errs"
	"scrawl/internal/pkg/logx"
	"scrawl/internal/pkg/req"
	"scrawl/internal/pkg/resp"
)

type CreateRoomInput struct {
	// UserIDToken is the identity token of the creator.
	UserIDToken string `json:"userIdToken"`

	// RoomName is the display name shown in the room list.
	RoomName string `json:"roomName"`

	// IsPrivate marks the room as password protected.
	IsPrivate bool `json:"isPrivate,omitempty"`

	// Password is required when IsPrivate is set.
	Password string `json:"password,omitempty"`
}

// HandleCreateRoom creates an HTTP HandlerFunc to process room creation requests.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoomInput

		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		identity, err := deps.Verifier.Verify(input.UserIDToken)
		if err != nil {
			logx.Warn("Room creation rejected: invalid identity token")
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidToken))
			return
		}

		if input.IsPrivate && input.Password == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		password := ""
		if input.IsPrivate {
			password = input.Password
		}

		room, createErr := deps.Manager.CreateRoom(strings.TrimSpace(input.RoomName), identity.UserID, password)
		if createErr != nil {
			resp.RespondError(w, r, createErr)
			return
		}

		logx.Info("Room created", "room_id", room.ID, "creator_id", identity.UserID)

		data := map[string]any{
			"roomId": room.ID,
		}
		resp.RespondSuccess(w, r, data)
	}
}
