package server

// EventPayload is the JSON body of an append-only game event row.
type EventPayload struct {
	RoomID        string `json:"room_id,omitempty"`
	JoinCode      string `json:"join_code,omitempty"`
	Username      string `json:"username,omitempty"`
	UserID        string `json:"user_id,omitempty"`
	RoundID       string `json:"round_id,omitempty"`
	RoundNumber   int    `json:"round_number,omitempty"`
	PhotoID       string `json:"photo_id,omitempty"`
	TimeLimit     int    `json:"time_limit,omitempty"`
	Correct       bool   `json:"correct,omitempty"`
	Reason        string `json:"reason,omitempty"`
	DeletedPhotos int    `json:"deleted_photos,omitempty"`
	DeletedRounds int    `json:"deleted_rounds,omitempty"`
	DeletedScores int    `json:"deleted_scores,omitempty"`
}
