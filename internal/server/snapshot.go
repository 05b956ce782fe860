package server

// The snapshot payloads are what polling clients consume between
// mutations; keep keys stable.

func userPayload(user *User) map[string]any {
	return map[string]any{
		"id":       user.ID,
		"username": user.Username,
	}
}

func roomPayload(room *Room) map[string]any {
	return map[string]any{
		"id":               room.ID,
		"code":             room.Code,
		"host_user_id":     room.HostUserID,
		"status":           room.Status,
		"max_players":      room.MaxPlayers,
		"number_of_rounds": room.NumberOfRounds,
		"created_at":       room.CreatedAt,
	}
}

func (s *Server) roomSnapshot(roomID string) (map[string]any, bool) {
	room, members, ok := s.store.RoomSnapshot(roomID)
	if !ok {
		return nil, false
	}
	players := make([]map[string]any, 0, len(members))
	for _, member := range members {
		entry := map[string]any{
			"user_id":   member.UserID,
			"status":    member.Status,
			"joined_at": member.JoinedAt,
		}
		if user, ok := s.store.UserByID(member.UserID); ok {
			entry["username"] = user.Username
		}
		players = append(players, entry)
	}
	snapshot := roomPayload(&room)
	snapshot["players"] = players
	return snapshot, true
}

func photoPayload(photo *Photo) map[string]any {
	return map[string]any{
		"id":            photo.ID,
		"room_id":       photo.RoomID,
		"user_id":       photo.UserID,
		"original_name": photo.OriginalName,
		"uploaded_at":   photo.UploadedAt,
	}
}

func roundPayload(round *GameRound) map[string]any {
	return map[string]any{
		"id":           round.ID,
		"room_id":      round.RoomID,
		"round_number": round.RoundNumber,
		"photo_id":     round.PhotoID,
		"status":       round.Status,
		"started_at":   round.StartedAt,
		"time_limit":   round.TimeLimit,
	}
}

func photoStatusPayload(status *RoomPhotoStatus) map[string]any {
	players := make([]map[string]any, 0, len(status.Players))
	for _, player := range status.Players {
		players = append(players, map[string]any{
			"user_id":     player.UserID,
			"username":    player.Username,
			"has_photos":  player.HasPhotos,
			"photo_count": player.PhotoCount,
		})
	}
	return map[string]any{
		"total_players": status.TotalPlayers,
		"players_ready": status.PlayersReady,
		"all_ready":     status.AllReady,
		"players":       players,
	}
}

func standingsPayload(standings []Standing) []map[string]any {
	list := make([]map[string]any, 0, len(standings))
	for _, standing := range standings {
		list = append(list, map[string]any{
			"user_id":                  standing.UserID,
			"username":                 standing.Username,
			"total_score":              standing.TotalScore,
			"correct_answers":          standing.CorrectAnswers,
			"incorrect_answers":        standing.IncorrectAnswers,
			"average_response_time_ms": standing.AverageResponseTime.Milliseconds(),
		})
	}
	return list
}
