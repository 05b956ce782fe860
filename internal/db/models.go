package db

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID        uint           `gorm:"primaryKey"`
	Username  string         `gorm:"size:64;uniqueIndex;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
	Photos    []Photo
	Answers   []PlayerAnswer `gorm:"foreignKey:PlayerID"`
}

type Room struct {
	ID             uint      `gorm:"primaryKey"`
	Code           string    `gorm:"size:12;index;not null"`
	HostUserID     uint      `gorm:"index;not null"`
	Status         string    `gorm:"size:32;not null"`
	MaxPlayers     int       `gorm:"not null"`
	NumberOfRounds int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
	Members        []RoomPlayer
	Photos         []Photo
	Rounds         []GameRound
	Scores         []Score
	Events         []Event
}

type RoomPlayer struct {
	ID        uint      `gorm:"primaryKey"`
	RoomID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_user"`
	UserID    uint      `gorm:"index;not null;uniqueIndex:idx_room_players_room_user"`
	Status    string    `gorm:"size:32;not null"`
	JoinedAt  time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Photo struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       uint      `gorm:"index;not null;index:idx_photos_room_user"`
	UserID       uint      `gorm:"index;not null;index:idx_photos_room_user"`
	StorageRef   string    `gorm:"size:256;not null"`
	OriginalName string    `gorm:"size:256"`
	UploadedAt   time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

type GameRound struct {
	ID           uint           `gorm:"primaryKey"`
	RoomID       uint           `gorm:"index;not null"`
	RoundNumber  int            `gorm:"not null"`
	PhotoID      uint           `gorm:"not null"`
	PhotoOwnerID uint           `gorm:"not null"`
	Status       string         `gorm:"size:32;not null"`
	StartedAt    time.Time      `gorm:"not null"`
	TimeLimit    int            `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"not null"`
	UpdatedAt    time.Time      `gorm:"not null"`
	Answers      []PlayerAnswer `gorm:"foreignKey:RoundID"`
}

type PlayerAnswer struct {
	ID             uint      `gorm:"primaryKey"`
	RoundID        uint      `gorm:"index;not null;uniqueIndex:idx_answers_round_player"`
	RoomID         uint      `gorm:"index;not null"`
	PlayerID       uint      `gorm:"index;not null;uniqueIndex:idx_answers_round_player"`
	GuessedUserID  uint      `gorm:"not null"`
	IsCorrect      bool      `gorm:"not null"`
	AnsweredAt     time.Time `gorm:"not null"`
	TimeToAnswerMS int64     `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

type Score struct {
	ID                    uint      `gorm:"primaryKey"`
	RoomID                uint      `gorm:"index;not null;uniqueIndex:idx_scores_room_user"`
	UserID                uint      `gorm:"index;not null;uniqueIndex:idx_scores_room_user"`
	TotalScore            int       `gorm:"not null"`
	CorrectAnswers        int       `gorm:"not null"`
	IncorrectAnswers      int       `gorm:"not null"`
	AverageResponseTimeMS int64     `gorm:"not null"`
	CreatedAt             time.Time `gorm:"not null"`
	UpdatedAt             time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	RoomID    uint           `gorm:"index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
