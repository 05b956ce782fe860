package server

import "errors"

// Callers are expected to match these with errors.Is; the HTTP layer
// maps them onto statuses in http_helpers.go.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrRoomNotFound   = errors.New("room not found")
	ErrPhotoNotFound  = errors.New("photo not found")
	ErrRoundNotActive = errors.New("round is not active")

	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateAnswer    = errors.New("player has already answered this round")
	ErrRoomNotJoinable    = errors.New("room is not joinable")
	ErrAlreadyJoined      = errors.New("player already joined this room")
	ErrRoomFull           = errors.New("room is full")
	ErrNotAMember         = errors.New("player is not a member of this room")
	ErrRoundAlreadyActive = errors.New("a round is already active for this room")

	ErrNoPhotosAvailable = errors.New("no photos available for this room")
)
