package server

import (
	"encoding/json"
	"errors"
	"time"

	"photoguess/internal/db"

	"github.com/jackc/pgconn"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// The durable mirror is write-behind: the in-memory store has already
// committed by the time these run, so failures are logged by the
// caller rather than unwinding game state. Every function tolerates a
// nil connection so the coordinator can run memory-only.

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (s *Server) persistUser(user *User) error {
	if s.db == nil {
		return nil
	}
	record := db.User{Username: user.Username}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		if !isUniqueViolation(err) {
			return err
		}
	}
	if record.ID == 0 {
		if err := s.db.Where("username = ?", user.Username).First(&record).Error; err != nil {
			return err
		}
	}
	user.DBID = record.ID
	return nil
}

func (s *Server) userDBID(userID string) uint {
	user, ok := s.store.UserByID(userID)
	if !ok {
		return 0
	}
	if user.DBID == 0 {
		if err := s.persistUser(user); err != nil {
			return 0
		}
	}
	return user.DBID
}

func (s *Server) persistRoom(room *Room) error {
	if s.db == nil {
		return nil
	}
	record := db.Room{
		Code:           room.Code,
		HostUserID:     s.userDBID(room.HostUserID),
		Status:         room.Status,
		MaxPlayers:     room.MaxPlayers,
		NumberOfRounds: room.NumberOfRounds,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	room.DBID = record.ID
	return s.persistEvent(room.DBID, "room_created", EventPayload{
		RoomID:   room.ID,
		JoinCode: room.Code,
		UserID:   room.HostUserID,
	})
}

func (s *Server) persistMembership(room *Room, member *RoomPlayer) error {
	if s.db == nil {
		return nil
	}
	if room.DBID == 0 {
		return errors.New("room not persisted")
	}
	record := db.RoomPlayer{
		RoomID:   room.DBID,
		UserID:   s.userDBID(member.UserID),
		Status:   member.Status,
		JoinedAt: member.JoinedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	member.DBID = record.ID
	return s.persistEvent(room.DBID, "player_joined", EventPayload{
		RoomID: room.ID,
		UserID: member.UserID,
	})
}

func (s *Server) persistPhoto(photo *Photo) error {
	if s.db == nil {
		return nil
	}
	room, ok := s.store.RoomByID(photo.RoomID)
	if !ok || room.DBID == 0 {
		return errors.New("room not persisted")
	}
	record := db.Photo{
		RoomID:       room.DBID,
		UserID:       s.userDBID(photo.UserID),
		StorageRef:   photo.StorageRef,
		OriginalName: photo.OriginalName,
		UploadedAt:   photo.UploadedAt,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	photo.DBID = record.ID
	return s.persistEvent(room.DBID, "photo_uploaded", EventPayload{
		RoomID:  photo.RoomID,
		UserID:  photo.UserID,
		PhotoID: photo.ID,
	})
}

func (s *Server) persistPhotoPurge(roomID string, deleted int) error {
	if s.db == nil {
		return nil
	}
	room, ok := s.store.RoomByID(roomID)
	if !ok || room.DBID == 0 {
		return nil
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Photo{}).Error; err != nil {
		return err
	}
	return s.persistEvent(room.DBID, "photos_purged", EventPayload{
		RoomID:        roomID,
		DeletedPhotos: deleted,
	})
}

func (s *Server) persistRoundStart(round *GameRound) error {
	if s.db == nil {
		return nil
	}
	room, ok := s.store.RoomByID(round.RoomID)
	if !ok || room.DBID == 0 {
		return errors.New("room not persisted")
	}
	var photoDBID uint
	if photo, ok := s.store.PhotoByID(round.PhotoID); ok {
		photoDBID = photo.DBID
	}
	record := db.GameRound{
		RoomID:       room.DBID,
		RoundNumber:  round.RoundNumber,
		PhotoID:      photoDBID,
		PhotoOwnerID: s.userDBID(round.PhotoOwnerID),
		Status:       round.Status,
		StartedAt:    round.StartedAt,
		TimeLimit:    round.TimeLimit,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return err
	}
	round.DBID = record.ID
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).
		Update("status", room.Status).Error; err != nil {
		return err
	}
	return s.persistEvent(room.DBID, "round_started", EventPayload{
		RoomID:      round.RoomID,
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		PhotoID:     round.PhotoID,
		TimeLimit:   round.TimeLimit,
	})
}

func (s *Server) persistAnswer(answer *PlayerAnswer) error {
	if s.db == nil {
		return nil
	}
	round, ok := s.store.RoundByID(answer.RoundID)
	if !ok || round.DBID == 0 {
		return errors.New("round not persisted")
	}
	room, ok := s.store.RoomByID(round.RoomID)
	if !ok || room.DBID == 0 {
		return errors.New("room not persisted")
	}
	record := db.PlayerAnswer{
		RoundID:        round.DBID,
		RoomID:         room.DBID,
		PlayerID:       s.userDBID(answer.PlayerID),
		GuessedUserID:  s.userDBID(answer.GuessedUserID),
		IsCorrect:      answer.IsCorrect,
		AnsweredAt:     answer.AnsweredAt,
		TimeToAnswerMS: answer.TimeToAnswer.Milliseconds(),
	}
	if err := s.db.Create(&record).Error; err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return err
	}
	answer.DBID = record.ID
	return s.persistEvent(room.DBID, "answer_submitted", EventPayload{
		RoomID:  round.RoomID,
		RoundID: answer.RoundID,
		UserID:  answer.PlayerID,
		Correct: answer.IsCorrect,
	})
}

// persistRoundClose mirrors a finished round and its settled score
// rows. Called from both close paths; failures here are logged, never
// surfaced, matching the rest of the write-behind layer.
func (s *Server) persistRoundClose(roundID, reason string) {
	if s.db == nil {
		return
	}
	round, ok := s.store.RoundByID(roundID)
	if !ok {
		return
	}
	room, ok := s.store.RoomByID(round.RoomID)
	if !ok || room.DBID == 0 {
		return
	}
	if round.DBID != 0 {
		if err := s.db.Model(&db.GameRound{}).Where("id = ?", round.DBID).
			Update("status", round.Status).Error; err != nil {
			log.Error().Err(err).Str("round_id", roundID).Msg("failed to persist round close")
		}
	}
	for _, score := range s.store.RoomScores(round.RoomID) {
		record := db.Score{
			RoomID:                room.DBID,
			UserID:                s.userDBID(score.UserID),
			TotalScore:            score.TotalScore,
			CorrectAnswers:        score.CorrectAnswers,
			IncorrectAnswers:      score.IncorrectAnswers,
			AverageResponseTimeMS: score.AverageResponseTime.Milliseconds(),
		}
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_score", "correct_answers", "incorrect_answers", "average_response_time_ms",
			}),
		}).Create(&record).Error
		if err != nil {
			log.Error().Err(err).Str("room_id", round.RoomID).Msg("failed to persist score")
		}
	}
	if err := s.persistEvent(room.DBID, "round_finished", EventPayload{
		RoomID:      round.RoomID,
		RoundID:     round.ID,
		RoundNumber: round.RoundNumber,
		Reason:      reason,
	}); err != nil {
		log.Error().Err(err).Str("round_id", roundID).Msg("failed to persist round event")
	}
}

func (s *Server) persistCleanup(roomID string, summary CleanupSummary) error {
	if s.db == nil {
		return nil
	}
	room, ok := s.store.RoomByID(roomID)
	if !ok || room.DBID == 0 {
		return nil
	}
	if err := s.db.Model(&db.Room{}).Where("id = ?", room.DBID).
		Update("status", roomFinished).Error; err != nil {
		return err
	}
	// Answers carry room_id, so the purge is one indexed delete per
	// table instead of a scan across every room's rounds.
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.PlayerAnswer{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.GameRound{}).Error; err != nil {
		return err
	}
	if err := s.db.Where("room_id = ?", room.DBID).Delete(&db.Score{}).Error; err != nil {
		return err
	}
	if err := s.db.Model(&db.RoomPlayer{}).Where("room_id = ?", room.DBID).
		Update("status", memberJoined).Error; err != nil {
		return err
	}
	return s.persistEvent(room.DBID, "game_ended", EventPayload{
		RoomID:        roomID,
		DeletedPhotos: summary.DeletedPhotos,
		DeletedRounds: summary.DeletedRounds,
		DeletedScores: summary.DeletedScores,
	})
}

func (s *Server) persistEvent(roomDBID uint, eventType string, payload EventPayload) error {
	if s.db == nil || roomDBID == 0 {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.Event{
		RoomID:    roomDBID,
		Type:      eventType,
		Payload:   datatypes.JSON(data),
		CreatedAt: time.Now().UTC(),
	}
	return s.db.Create(&record).Error
}
