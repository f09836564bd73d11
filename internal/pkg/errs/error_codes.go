/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system errors both internally
within the server and in messages sent to clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect.
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1005
)

// 2xxx: Room and Game Business Logic Errors
const (
	// ErrRoomNotFound indicates that the referenced room does not exist.
	ErrRoomNotFound = 2101

	// ErrRoomFull indicates that the room has reached its participant capacity.
	ErrRoomFull = 2102

	// ErrWrongPassword indicates that the supplied password for a private room does not match.
	ErrWrongPassword = 2103

	// ErrRoomNameInvalid indicates that the requested room name is empty or too long.
	ErrRoomNameInvalid = 2104

	// ErrGameAlreadyStarted indicates that start-game was sent while a game is already running.
	ErrGameAlreadyStarted = 2201

	// ErrNotEnoughPlayers indicates that a game cannot start with fewer than two connected participants.
	ErrNotEnoughPlayers = 2202

	// ErrMessageTooLong indicates that the chat message content exceeded the maximum length.
	ErrMessageTooLong = 2301
)

// 3xxx: Session, Identity, and Turn Errors
const (
	// ErrInvalidToken indicates that the identity token failed verification.
	ErrInvalidToken = 3001

	// ErrStaleSession indicates that the presented session key is unknown or expired,
	// forcing the client through a full join.
	ErrStaleSession = 3002

	// ErrNotYourTurn indicates a draw/undo/redo attempt by a participant who is not
	// the current drawer during an active round.
	ErrNotYourTurn = 3003

	// ErrNotCreator indicates a creator-only operation attempted by another participant.
	ErrNotCreator = 3004

	// ErrSessionKicked indicates that the connection was replaced by a newer one
	// presenting the same session key.
	ErrSessionKicked = 3005
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified server internal error.
	ErrUnknown = 5000
)
