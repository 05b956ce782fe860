package server

import "time"

const (
	roomWaiting  = "waiting"
	roomPlaying  = "playing"
	roomFinished = "finished"
)

const (
	memberJoined  = "joined"
	memberReady   = "ready"
	memberPlaying = "playing"
)

const (
	roundActive   = "active"
	roundFinished = "finished"
)

type User struct {
	ID       string
	Username string
	DBID     uint
}

type Room struct {
	ID             string
	Code           string
	HostUserID     string
	Status         string
	MaxPlayers     int
	NumberOfRounds int
	CreatedAt      time.Time
	DBID           uint
}

type RoomPlayer struct {
	ID       string
	RoomID   string
	UserID   string
	Status   string
	JoinedAt time.Time
	DBID     uint
}

type Photo struct {
	ID           string
	RoomID       string
	UserID       string
	StorageRef   string
	OriginalName string
	UploadedAt   time.Time
	DBID         uint
}

type GameRound struct {
	ID           string
	RoomID       string
	RoundNumber  int
	PhotoID      string
	PhotoOwnerID string
	Status       string
	StartedAt    time.Time
	TimeLimit    int
	DBID         uint
}

type PlayerAnswer struct {
	ID            string
	RoundID       string
	PlayerID      string
	GuessedUserID string
	IsCorrect     bool
	AnsweredAt    time.Time
	TimeToAnswer  time.Duration
	DBID          uint
}

type Score struct {
	ID                  string
	RoomID              string
	UserID              string
	TotalScore          int
	CorrectAnswers      int
	IncorrectAnswers    int
	AverageResponseTime time.Duration
	DBID                uint
}

// ActiveRoundView joins an active round with its photo and the photo's
// owner, the shape the guessing client polls for.
type ActiveRoundView struct {
	Round *GameRound
	Photo *Photo
	Owner *User
}

// AnswerResult is returned from SubmitAnswer. RoundClosed reports that
// this answer was the last one outstanding and finished the round.
type AnswerResult struct {
	AnswerID     string
	IsCorrect    bool
	TimeToAnswer time.Duration
	RoundClosed  bool
}

type PlayerPhotoStatus struct {
	UserID     string
	Username   string
	HasPhotos  bool
	PhotoCount int
}

type RoomPhotoStatus struct {
	TotalPlayers int
	PlayersReady int
	AllReady     bool
	Players      []PlayerPhotoStatus
}

// Standing is a per-player aggregate derived from the answer ledger.
type Standing struct {
	UserID              string
	Username            string
	TotalScore          int
	CorrectAnswers      int
	IncorrectAnswers    int
	AverageResponseTime time.Duration
}

type CleanupSummary struct {
	DeletedPhotos int
	DeletedRounds int
	DeletedScores int
}
