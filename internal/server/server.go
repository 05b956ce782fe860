package server

import (
	"context"
	"sync"
	"time"

	"photoguess/internal/config"
	"photoguess/internal/storage"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Server wraps the authoritative Store with the durable mirror, the
// blob store, and per-round expiry timers. Handlers and timers talk to
// the Server; only the Server talks to the Store.
type Server struct {
	store    *Store
	db       *gorm.DB
	blobs    storage.Store
	cfg      config.Config
	timersMu sync.Mutex
	timers   map[string]*time.Timer // round ID -> expiry timer
}

func New(conn *gorm.DB, blobs storage.Store, cfg config.Config) *Server {
	if blobs == nil {
		blobs = storage.NewMemory()
	}
	return &Server{
		store:  NewStore(),
		db:     conn,
		blobs:  blobs,
		cfg:    cfg,
		timers: make(map[string]*time.Timer),
	}
}

func (s *Server) CreateUser(username string) (*User, error) {
	name, err := validateUsername(username)
	if err != nil {
		return nil, err
	}
	user, err := s.store.CreateUser(name)
	if err != nil {
		return nil, err
	}
	if err := s.persistUser(user); err != nil {
		log.Error().Err(err).Str("username", user.Username).Msg("failed to persist user")
	}
	return user, nil
}

func (s *Server) CreateRoom(hostUserID, status string, maxPlayers, numberOfRounds int) (*Room, error) {
	if err := validateRoomSettings(maxPlayers, numberOfRounds); err != nil {
		return nil, err
	}
	room, err := s.store.CreateRoom(hostUserID, status, maxPlayers, numberOfRounds)
	if err != nil {
		return nil, err
	}
	if err := s.persistRoom(room); err != nil {
		log.Error().Err(err).Str("room_code", room.Code).Msg("failed to persist room")
	}
	return room, nil
}

func (s *Server) JoinRoom(code, userID string) (*Room, *RoomPlayer, error) {
	room, member, err := s.store.JoinRoom(code, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.persistMembership(room, member); err != nil {
		log.Error().Err(err).Str("room_code", room.Code).Msg("failed to persist membership")
	}
	return room, member, nil
}

// UploadPhoto stores the blob first, then the metadata record. If the
// record insert fails the blob is released again so nothing leaks.
func (s *Server) UploadPhoto(ctx context.Context, roomID, userID string, data []byte, contentType, originalName string) (*Photo, error) {
	ref, err := s.blobs.Put(ctx, data, contentType)
	if err != nil {
		return nil, err
	}
	photo, err := s.store.AddPhoto(roomID, userID, ref, originalName)
	if err != nil {
		if deleteErr := s.blobs.Delete(ctx, ref); deleteErr != nil {
			log.Error().Err(deleteErr).Str("storage_ref", ref).Msg("failed to release orphaned blob")
		}
		return nil, err
	}
	if err := s.persistPhoto(photo); err != nil {
		log.Error().Err(err).Str("photo_id", photo.ID).Msg("failed to persist photo")
	}
	return photo, nil
}

// PhotoURL resolves a retrievable URL for a stored photo.
func (s *Server) PhotoURL(ctx context.Context, photoID string) (*Photo, string, error) {
	photo, ok := s.store.PhotoByID(photoID)
	if !ok {
		return nil, "", ErrPhotoNotFound
	}
	url, err := s.blobs.URL(ctx, photo.StorageRef)
	if err != nil {
		return nil, "", err
	}
	return photo, url, nil
}

// DeleteRoomPhotos purges every photo scoped to the room, blob first,
// metadata second. A blob that is already gone counts as released, so
// re-running after a partial failure converges instead of erroring.
func (s *Server) DeleteRoomPhotos(ctx context.Context, roomID string) (int, error) {
	deleted := 0
	for _, photo := range s.store.RoomPhotos(roomID) {
		if err := s.blobs.Delete(ctx, photo.StorageRef); err != nil {
			return deleted, err
		}
		if s.store.RemovePhoto(photo.ID) {
			deleted++
		}
	}
	if deleted > 0 {
		if err := s.persistPhotoPurge(roomID, deleted); err != nil {
			log.Error().Err(err).Str("room_id", roomID).Msg("failed to persist photo purge")
		}
	}
	return deleted, nil
}

func (s *Server) StartRound(roomID string, roundNumber, timeLimit int) (*GameRound, error) {
	if timeLimit <= 0 {
		timeLimit = s.cfg.RoundTimeLimitSeconds
	}
	round, err := s.store.StartRound(roomID, roundNumber, timeLimit)
	if err != nil {
		return nil, err
	}
	s.scheduleRoundTimer(round)
	if err := s.persistRoundStart(round); err != nil {
		log.Error().Err(err).Str("round_id", round.ID).Msg("failed to persist round")
	}
	return round, nil
}

func (s *Server) ActiveRound(roomID string) (*ActiveRoundView, bool) {
	return s.store.ActiveRound(roomID)
}

func (s *Server) SubmitAnswer(roundID, playerID, guessedUserID string) (*AnswerResult, error) {
	answer, closed, err := s.store.SubmitAnswer(roundID, playerID, guessedUserID, s.cfg.PointsPerCorrectAnswer)
	if err != nil {
		return nil, err
	}
	if err := s.persistAnswer(answer); err != nil {
		log.Error().Err(err).Str("round_id", roundID).Msg("failed to persist answer")
	}
	if closed {
		s.cancelRoundTimer(roundID)
		s.persistRoundClose(roundID, "all players answered")
	}
	return &AnswerResult{
		AnswerID:     answer.ID,
		IsCorrect:    answer.IsCorrect,
		TimeToAnswer: answer.TimeToAnswer,
		RoundClosed:  closed,
	}, nil
}

func (s *Server) Standings(roomID string) ([]Standing, error) {
	return s.store.Standings(roomID, s.cfg.PointsPerCorrectAnswer)
}

// EndGameAndCleanup tears down all room-scoped game data and leaves
// the memberships rejoinable. Idempotent: a second call reports zeros.
func (s *Server) EndGameAndCleanup(ctx context.Context, roomID string) (CleanupSummary, error) {
	deletedPhotos, err := s.DeleteRoomPhotos(ctx, roomID)
	if err != nil {
		return CleanupSummary{DeletedPhotos: deletedPhotos}, err
	}
	summary, roundIDs := s.store.FinishRoom(roomID)
	summary.DeletedPhotos = deletedPhotos
	for _, roundID := range roundIDs {
		s.cancelRoundTimer(roundID)
	}
	if err := s.persistCleanup(roomID, summary); err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to persist cleanup")
	}
	return summary, nil
}
