package server

const defaultTimeLimitSeconds = 30

// StartRound opens one round for the room. The no-other-active-round
// check and the insert run under the same lock, so two racing start
// requests can never both open a round.
func (s *Store) StartRound(roomID string, roundNumber, timeLimit int) (*GameRound, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	photos := s.photos[roomID]
	if len(photos) == 0 {
		return nil, ErrNoPhotosAvailable
	}
	for _, round := range s.rounds[roomID] {
		if round.Status == roundActive {
			return nil, ErrRoundAlreadyActive
		}
	}
	if timeLimit <= 0 {
		timeLimit = defaultTimeLimitSeconds
	}

	picked := photos[s.rng.Intn(len(photos))]
	round := &GameRound{
		ID:          newID(),
		RoomID:      roomID,
		RoundNumber: roundNumber,
		PhotoID:     picked.ID,
		// Owner is denormalized here so a mid-round photo purge cannot
		// change the answer key.
		PhotoOwnerID: picked.UserID,
		Status:       roundActive,
		StartedAt:    s.now(),
		TimeLimit:    timeLimit,
	}
	s.rounds[roomID] = append(s.rounds[roomID], round)
	s.roundsByID[round.ID] = round

	if room.Status == roomWaiting {
		room.Status = roomPlaying
		for _, member := range s.members[roomID] {
			member.Status = memberPlaying
		}
	}
	return round, nil
}

// ActiveRound returns the most recently started active round joined
// with its photo and owner. More than one active round would violate
// the engine's invariant, but the pick stays deterministic regardless:
// latest StartedAt wins, then the higher round number.
func (s *Store) ActiveRound(roomID string) (*ActiveRoundView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var current *GameRound
	for _, round := range s.rounds[roomID] {
		if round.Status != roundActive {
			continue
		}
		if current == nil ||
			round.StartedAt.After(current.StartedAt) ||
			(round.StartedAt.Equal(current.StartedAt) && round.RoundNumber > current.RoundNumber) {
			current = round
		}
	}
	if current == nil {
		return nil, false
	}
	view := &ActiveRoundView{Round: current}
	if photo, ok := s.photoByID(current.PhotoID); ok {
		view.Photo = photo
	}
	if owner, ok := s.users[current.PhotoOwnerID]; ok {
		view.Owner = owner
	}
	return view, true
}

// SubmitAnswer records one guess. Only current members of the round's
// room may answer. The duplicate check and the insert are a single
// transaction under the store lock: of two concurrent submissions by
// the same player exactly one wins, the other gets ErrDuplicateAnswer.
// If this answer completes member coverage the round closes and scores
// settle in the same transaction; the second return value reports that
// close.
func (s *Store) SubmitAnswer(roundID, playerID, guessedUserID string, pointsPerCorrect int) (*PlayerAnswer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.roundsByID[roundID]
	if !ok || round.Status != roundActive {
		return nil, false, ErrRoundNotActive
	}
	isMember := false
	for _, member := range s.members[round.RoomID] {
		if member.UserID == playerID {
			isMember = true
			break
		}
	}
	if !isMember {
		return nil, false, ErrNotAMember
	}
	for _, answer := range s.answers[roundID] {
		if answer.PlayerID == playerID {
			return nil, false, ErrDuplicateAnswer
		}
	}
	now := s.now()
	answer := &PlayerAnswer{
		ID:            newID(),
		RoundID:       roundID,
		PlayerID:      playerID,
		GuessedUserID: guessedUserID,
		IsCorrect:     guessedUserID == round.PhotoOwnerID,
		AnsweredAt:    now,
		TimeToAnswer:  now.Sub(round.StartedAt),
	}
	s.answers[roundID] = append(s.answers[roundID], answer)

	closed := false
	if s.allMembersAnswered(round) {
		s.closeRound(round, pointsPerCorrect)
		closed = true
	}
	return answer, closed, nil
}

// allMembersAnswered reports whether every current member of the
// round's room has an answer on record. Caller must hold s.mu.
func (s *Store) allMembersAnswered(round *GameRound) bool {
	answered := make(map[string]struct{}, len(s.answers[round.ID]))
	for _, answer := range s.answers[round.ID] {
		answered[answer.PlayerID] = struct{}{}
	}
	members := s.members[round.RoomID]
	for _, member := range members {
		if _, ok := answered[member.UserID]; !ok {
			return false
		}
	}
	return len(members) > 0
}

func (s *Store) RoundByID(roundID string) (*GameRound, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.roundsByID[roundID]
	return round, ok
}

// CloseRound finishes a round if it is still active; the expiry timer
// drives this path. Reports whether this call performed the close.
func (s *Store) CloseRound(roundID string, pointsPerCorrect int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	round, ok := s.roundsByID[roundID]
	if !ok || round.Status != roundActive {
		return false
	}
	s.closeRound(round, pointsPerCorrect)
	return true
}

// closeRound marks the round finished and settles scores from its
// answers. Caller must hold s.mu.
func (s *Store) closeRound(round *GameRound, pointsPerCorrect int) {
	round.Status = roundFinished
	s.settleScores(round, pointsPerCorrect)
}

func (s *Store) RoundAnswers(roundID string) []*PlayerAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()
	answers := s.answers[roundID]
	list := make([]*PlayerAnswer, len(answers))
	copy(list, answers)
	return list
}

func (s *Store) RoomRounds(roomID string) []*GameRound {
	s.mu.Lock()
	defer s.mu.Unlock()
	rounds := s.rounds[roomID]
	list := make([]*GameRound, len(rounds))
	copy(list, rounds)
	return list
}
