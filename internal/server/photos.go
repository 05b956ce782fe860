package server

func (s *Store) AddPhoto(roomID, userID, storageRef, originalName string) (*Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, ErrRoomNotFound
	}
	if _, ok := s.users[userID]; !ok {
		return nil, ErrUserNotFound
	}
	photo := &Photo{
		ID:           newID(),
		RoomID:       roomID,
		UserID:       userID,
		StorageRef:   storageRef,
		OriginalName: originalName,
		UploadedAt:   s.now(),
	}
	s.photos[roomID] = append(s.photos[roomID], photo)
	return photo, nil
}

func (s *Store) UserPhotos(roomID, userID string) []*Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*Photo
	for _, photo := range s.photos[roomID] {
		if photo.UserID == userID {
			list = append(list, photo)
		}
	}
	return list
}

func (s *Store) RoomPhotos(roomID string) []*Photo {
	s.mu.Lock()
	defer s.mu.Unlock()
	photos := s.photos[roomID]
	list := make([]*Photo, len(photos))
	copy(list, photos)
	return list
}

func (s *Store) PhotoByID(photoID string) (*Photo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.photoByID(photoID)
}

// photoByID scans all rooms; photo lookups by bare ID are rare.
// Caller must hold s.mu.
func (s *Store) photoByID(photoID string) (*Photo, bool) {
	for _, photos := range s.photos {
		for _, photo := range photos {
			if photo.ID == photoID {
				return photo, true
			}
		}
	}
	return nil, false
}

// RemovePhoto deletes the metadata record for one photo. The caller
// releases the backing blob first, so a retry after a partial cleanup
// simply finds nothing left to remove.
func (s *Store) RemovePhoto(photoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for roomID, photos := range s.photos {
		for i, photo := range photos {
			if photo.ID == photoID {
				s.photos[roomID] = append(photos[:i], photos[i+1:]...)
				return true
			}
		}
	}
	return false
}

// PhotoStatus reports, for every current member, whether they have
// contributed photos yet. A game is ready to start only when everyone
// has photos and there is more than one member.
func (s *Store) PhotoStatus(roomID string) (*RoomPhotoStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[roomID]; !ok {
		return nil, ErrRoomNotFound
	}
	members := s.members[roomID]
	status := &RoomPhotoStatus{
		TotalPlayers: len(members),
		Players:      make([]PlayerPhotoStatus, 0, len(members)),
	}
	for _, member := range members {
		count := 0
		for _, photo := range s.photos[roomID] {
			if photo.UserID == member.UserID {
				count++
			}
		}
		username := ""
		if user, ok := s.users[member.UserID]; ok {
			username = user.Username
		}
		if count > 0 {
			status.PlayersReady++
		}
		status.Players = append(status.Players, PlayerPhotoStatus{
			UserID:     member.UserID,
			Username:   username,
			HasPhotos:  count > 0,
			PhotoCount: count,
		})
	}
	status.AllReady = status.PlayersReady == status.TotalPlayers && status.TotalPlayers > 1
	return status, nil
}
