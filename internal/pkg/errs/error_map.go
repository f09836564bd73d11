/*
Package errs provides custom error types and application-level error code constants.

This file maps error codes to their CustomError templates, standardizing HTTP
responses and WebSocket error payloads.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:        {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrUnsupportedMediaType: {Code: ErrUnsupportedMediaType, Message: "Unsupported request format."},
	ErrInvalidJSONFormat:    {Code: ErrInvalidJSONFormat, Message: "Unsupported request format."},
	ErrExtraContentInBody:   {Code: ErrExtraContentInBody, Message: "Request contains unexpected data."},
	ErrRateLimitExceeded:    {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Room and Game Business Logic Errors
	ErrRoomNotFound:       {Code: ErrRoomNotFound, Message: "Room not found."},
	ErrRoomFull:           {Code: ErrRoomFull, Message: "This room is full."},
	ErrWrongPassword:      {Code: ErrWrongPassword, Message: "Incorrect room password."},
	ErrRoomNameInvalid:    {Code: ErrRoomNameInvalid, Message: "Invalid room name."},
	ErrGameAlreadyStarted: {Code: ErrGameAlreadyStarted, Message: "The game has already started."},
	ErrNotEnoughPlayers:   {Code: ErrNotEnoughPlayers, Message: "At least two connected players are required to start."},
	ErrMessageTooLong:     {Code: ErrMessageTooLong, Message: "Message is too long."},

	// 3xxx: Session, Identity, and Turn Errors
	ErrInvalidToken:  {Code: ErrInvalidToken, Message: "Sign-in token is invalid or expired.", Status: http.StatusUnauthorized},
	ErrStaleSession:  {Code: ErrStaleSession, Message: "Your session has expired. Please rejoin the room."},
	ErrNotYourTurn:   {Code: ErrNotYourTurn, Message: "It is not your turn to draw."},
	ErrNotCreator:    {Code: ErrNotCreator, Message: "Only the room creator can do that."},
	ErrSessionKicked: {Code: ErrSessionKicked, Message: "You were signed in on another device."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
