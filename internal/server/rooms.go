package server

import "strings"

// NormalizeRoomCode upper-cases a human-entered join code.
func NormalizeRoomCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *Store) CreateRoom(hostUserID, status string, maxPlayers, numberOfRounds int) (*Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[hostUserID]; !ok {
		return nil, ErrUserNotFound
	}
	if status == "" {
		status = roomWaiting
	}
	room := &Room{
		ID:             newID(),
		Code:           s.newRoomCode(),
		HostUserID:     hostUserID,
		Status:         status,
		MaxPlayers:     maxPlayers,
		NumberOfRounds: numberOfRounds,
		CreatedAt:      s.now(),
	}
	s.rooms[room.ID] = room
	s.roomsByCode[room.Code] = room
	return room, nil
}

func (s *Store) RoomByID(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

func (s *Store) RoomByCode(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.roomsByCode[NormalizeRoomCode(code)]
	return room, ok
}

// JoinRoom checks every join precondition and inserts the membership
// under one lock, so racing joins for the same user or the last seat
// resolve to exactly one winner.
func (s *Store) JoinRoom(code, userID string) (*Room, *RoomPlayer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.roomsByCode[NormalizeRoomCode(code)]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	if room.Status != roomWaiting {
		return nil, nil, ErrRoomNotJoinable
	}
	if _, ok := s.users[userID]; !ok {
		return nil, nil, ErrUserNotFound
	}
	current := s.members[room.ID]
	for _, member := range current {
		if member.UserID == userID {
			return nil, nil, ErrAlreadyJoined
		}
	}
	if room.MaxPlayers > 0 && len(current) >= room.MaxPlayers {
		return nil, nil, ErrRoomFull
	}
	member := &RoomPlayer{
		ID:       newID(),
		RoomID:   room.ID,
		UserID:   userID,
		Status:   memberJoined,
		JoinedAt: s.now(),
	}
	s.members[room.ID] = append(current, member)
	return room, member, nil
}

// RoomMembers returns copies of the room's memberships. Membership
// status flips under the store lock; handing out copies keeps readers
// from racing those writes.
func (s *Store) RoomMembers(roomID string) []RoomPlayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]RoomPlayer, 0, len(s.members[roomID]))
	for _, member := range s.members[roomID] {
		list = append(list, *member)
	}
	return list
}

// RoomSnapshot returns copies of the room and its memberships taken
// under one lock, so a reader never observes a status transition
// mid-write.
func (s *Store) RoomSnapshot(roomID string) (Room, []RoomPlayer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return Room{}, nil, false
	}
	members := make([]RoomPlayer, 0, len(s.members[roomID]))
	for _, member := range s.members[roomID] {
		members = append(members, *member)
	}
	return *room, members, true
}
