package server

// FinishRoom retires the room and removes all of its round-scoped
// state in one transaction: status -> finished, rounds and their
// answers deleted (answers are scoped by the room's own round ids,
// never scanned globally), scores deleted, memberships reset to
// joined. Photos are handled separately by the caller so blobs can be
// released before their metadata records go.
//
// Safe to call on a missing, empty, or already-finished room; a second
// invocation finds nothing and reports zero counts. Returns the ids of
// the removed rounds so the caller can cancel their expiry timers.
func (s *Store) FinishRoom(roomID string) (CleanupSummary, []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary CleanupSummary
	if room, ok := s.rooms[roomID]; ok {
		room.Status = roomFinished
	}

	rounds := s.rounds[roomID]
	roundIDs := make([]string, 0, len(rounds))
	for _, round := range rounds {
		roundIDs = append(roundIDs, round.ID)
		delete(s.answers, round.ID)
		delete(s.roundsByID, round.ID)
	}
	summary.DeletedRounds = len(rounds)
	delete(s.rounds, roomID)

	summary.DeletedScores = len(s.scores[roomID])
	delete(s.scores, roomID)

	for _, member := range s.members[roomID] {
		member.Status = memberJoined
	}
	return summary, roundIDs
}
