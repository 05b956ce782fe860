package server

import (
	"sort"
	"time"
)

// settleScores folds a finished round's answers into the room's Score
// rows. Averages are maintained incrementally over the player's total
// answer count. Caller must hold s.mu.
func (s *Store) settleScores(round *GameRound, pointsPerCorrect int) {
	for _, answer := range s.answers[round.ID] {
		score := s.scoreFor(round.RoomID, answer.PlayerID)
		n := score.CorrectAnswers + score.IncorrectAnswers
		score.AverageResponseTime = (score.AverageResponseTime*time.Duration(n) + answer.TimeToAnswer) / time.Duration(n+1)
		if answer.IsCorrect {
			score.CorrectAnswers++
			score.TotalScore += pointsPerCorrect
		} else {
			score.IncorrectAnswers++
		}
	}
}

// scoreFor finds or creates the (room, user) score row. Caller must
// hold s.mu.
func (s *Store) scoreFor(roomID, userID string) *Score {
	for _, score := range s.scores[roomID] {
		if score.UserID == userID {
			return score
		}
	}
	score := &Score{
		ID:     newID(),
		RoomID: roomID,
		UserID: userID,
	}
	s.scores[roomID] = append(s.scores[roomID], score)
	return score
}

func (s *Store) RoomScores(roomID string) []*Score {
	s.mu.Lock()
	defer s.mu.Unlock()
	scores := s.scores[roomID]
	list := make([]*Score, len(scores))
	copy(list, scores)
	return list
}

// Standings aggregates the answer ledger on demand; the ledger stays
// the single source of truth even while settled Score rows exist.
// Every current member appears, answers or not. Sorted by score, then
// username for a stable order.
func (s *Store) Standings(roomID string, pointsPerCorrect int) ([]Standing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, ErrRoomNotFound
	}
	byUser := make(map[string]*Standing)
	order := make([]string, 0)
	for _, member := range s.members[roomID] {
		standing := &Standing{UserID: member.UserID}
		if user, ok := s.users[member.UserID]; ok {
			standing.Username = user.Username
		}
		byUser[member.UserID] = standing
		order = append(order, member.UserID)
	}
	for _, round := range s.rounds[roomID] {
		for _, answer := range s.answers[round.ID] {
			standing, ok := byUser[answer.PlayerID]
			if !ok {
				continue
			}
			n := standing.CorrectAnswers + standing.IncorrectAnswers
			standing.AverageResponseTime = (standing.AverageResponseTime*time.Duration(n) + answer.TimeToAnswer) / time.Duration(n+1)
			if answer.IsCorrect {
				standing.CorrectAnswers++
				standing.TotalScore += pointsPerCorrect
			} else {
				standing.IncorrectAnswers++
			}
		}
	}
	list := make([]Standing, 0, len(order))
	for _, userID := range order {
		list = append(list, *byUser[userID])
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].TotalScore != list[j].TotalScore {
			return list[i].TotalScore > list[j].TotalScore
		}
		return list[i].Username < list[j].Username
	})
	return list, nil
}
