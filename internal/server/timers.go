package server

import (
	"time"

	"github.com/rs/zerolog/log"
)

// scheduleRoundTimer arms a one-shot timer that closes the round when
// its time limit expires. The close re-checks round status inside the
// store transaction, so a round already finished by the last answer is
// left alone.
func (s *Server) scheduleRoundTimer(round *GameRound) {
	duration := time.Duration(round.TimeLimit) * time.Second
	if duration <= 0 {
		return
	}
	s.timersMu.Lock()
	if existing, ok := s.timers[round.ID]; ok {
		existing.Stop()
	}
	s.timers[round.ID] = time.AfterFunc(duration, func() {
		s.expireRound(round.ID)
	})
	s.timersMu.Unlock()
}

func (s *Server) cancelRoundTimer(roundID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()
	if timer, ok := s.timers[roundID]; ok {
		timer.Stop()
		delete(s.timers, roundID)
	}
}

func (s *Server) expireRound(roundID string) {
	s.timersMu.Lock()
	delete(s.timers, roundID)
	s.timersMu.Unlock()
	if !s.store.CloseRound(roundID, s.cfg.PointsPerCorrectAnswer) {
		return
	}
	log.Info().Str("round_id", roundID).Msg("round closed by time limit")
	s.persistRoundClose(roundID, "time limit expired")
}
