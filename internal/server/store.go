package server

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the authoritative game state. Every mutation runs to
// completion under one mutex, so each exported method behaves as a
// serializable transaction: precondition checks and the writes they
// guard can never interleave with another caller's.
type Store struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time

	users       map[string]*User
	usersByName map[string]*User
	rooms       map[string]*Room
	roomsByCode map[string]*Room
	members     map[string][]*RoomPlayer   // room ID -> memberships
	photos      map[string][]*Photo        // room ID -> photos
	rounds      map[string][]*GameRound    // room ID -> rounds
	roundsByID  map[string]*GameRound
	answers     map[string][]*PlayerAnswer // round ID -> answers
	scores      map[string][]*Score        // room ID -> settled scores
}

func NewStore() *Store {
	return NewStoreWithRand(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewStoreWithRand lets tests supply a seeded generator so join codes
// and photo selection are deterministic.
func NewStoreWithRand(rng *rand.Rand) *Store {
	return &Store{
		rng:         rng,
		now:         func() time.Time { return time.Now().UTC() },
		users:       make(map[string]*User),
		usersByName: make(map[string]*User),
		rooms:       make(map[string]*Room),
		roomsByCode: make(map[string]*Room),
		members:     make(map[string][]*RoomPlayer),
		photos:      make(map[string][]*Photo),
		rounds:      make(map[string][]*GameRound),
		roundsByID:  make(map[string]*GameRound),
		answers:     make(map[string][]*PlayerAnswer),
		scores:      make(map[string][]*Score),
	}
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) CreateUser(username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByName[username]; exists {
		return nil, ErrDuplicateUsername
	}
	user := &User{
		ID:       newID(),
		Username: username,
	}
	s.users[user.ID] = user
	s.usersByName[username] = user
	return user, nil
}

func (s *Store) UserByUsername(username string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.usersByName[username]
	return user, ok
}

func (s *Store) UserByID(id string) (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	return user, ok
}

func (s *Store) Users() []*User {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		list = append(list, user)
	}
	return list
}

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
)

// newRoomCode draws codes until one is free of any non-finished room.
// A finished room may lose its code to a newer one; it stays reachable
// by ID only. Caller must hold s.mu.
func (s *Store) newRoomCode() string {
	for {
		buf := make([]byte, roomCodeLength)
		for i := range buf {
			buf[i] = roomCodeAlphabet[s.rng.Intn(len(roomCodeAlphabet))]
		}
		code := string(buf)
		if existing, ok := s.roomsByCode[code]; ok && existing.Status != roomFinished {
			continue
		}
		return code
	}
}
