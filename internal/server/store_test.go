package server

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"
)

func newTestStore() *Store {
	return NewStoreWithRand(rand.New(rand.NewSource(1)))
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	store := newTestStore()
	if _, err := store.CreateUser("ada"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := store.CreateUser("ada"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
	// Usernames are case-sensitive exact matches.
	if _, err := store.CreateUser("Ada"); err != nil {
		t.Fatalf("expected distinct username to succeed, got %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	store := newTestStore()
	created, err := store.CreateUser("ada")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user, ok := store.UserByUsername("ada"); !ok || user.ID != created.ID {
		t.Fatalf("lookup by username failed: %v %v", user, ok)
	}
	if _, ok := store.UserByUsername("missing"); ok {
		t.Fatal("expected miss for unknown username")
	}
	if user, ok := store.UserByID(created.ID); !ok || user.Username != "ada" {
		t.Fatalf("lookup by id failed: %v %v", user, ok)
	}
	if got := len(store.Users()); got != 1 {
		t.Fatalf("expected 1 user, got %d", got)
	}
}

func TestCreateRoomCodeFormat(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	room, err := store.CreateRoom(host.ID, "", 4, 3)
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if len(room.Code) != roomCodeLength {
		t.Fatalf("expected %d-character code, got %q", roomCodeLength, room.Code)
	}
	if room.Code != strings.ToUpper(room.Code) {
		t.Fatalf("expected upper-case code, got %q", room.Code)
	}
	if room.Status != roomWaiting {
		t.Fatalf("expected waiting status, got %q", room.Status)
	}
	if _, ok := store.RoomByCode(strings.ToLower(room.Code)); !ok {
		t.Fatal("code lookup should be case-insensitive")
	}
}

func TestCreateRoomCodesUnique(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		room, err := store.CreateRoom(host.ID, "", 4, 1)
		if err != nil {
			t.Fatalf("create room: %v", err)
		}
		if _, dup := seen[room.Code]; dup {
			t.Fatalf("duplicate code issued for live rooms: %q", room.Code)
		}
		seen[room.Code] = struct{}{}
	}
}

func TestCreateRoomUnknownHost(t *testing.T) {
	store := newTestStore()
	if _, err := store.CreateRoom("nope", "", 4, 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestJoinRoomPreconditions(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	guest, _ := store.CreateUser("ben")
	third, _ := store.CreateUser("cat")
	room, _ := store.CreateRoom(host.ID, "", 2, 1)

	if _, _, err := store.JoinRoom("ZZZZZZ", guest.ID); !errors.Is(err, ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, "nope"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, host.ID); err != nil {
		t.Fatalf("host join: %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, host.ID); !errors.Is(err, ErrAlreadyJoined) {
		t.Fatalf("expected ErrAlreadyJoined, got %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, guest.ID); err != nil {
		t.Fatalf("guest join: %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, third.ID); !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}
}

func TestJoinRoomNotJoinableWhenPlaying(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	guest, _ := store.CreateUser("ben")
	room, _ := store.CreateRoom(host.ID, "", 4, 1)
	store.JoinRoom(room.Code, host.ID)
	store.AddPhoto(room.ID, host.ID, "ref-1", "")
	if _, err := store.StartRound(room.ID, 1, 30); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if _, _, err := store.JoinRoom(room.Code, guest.ID); !errors.Is(err, ErrRoomNotJoinable) {
		t.Fatalf("expected ErrRoomNotJoinable, got %v", err)
	}
}

func TestConcurrentJoinSingleSeat(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	room, _ := store.CreateRoom(host.ID, "", 2, 1)
	store.JoinRoom(room.Code, host.ID)

	const contenders = 8
	users := make([]*User, contenders)
	for i := range users {
		users[i], _ = store.CreateUser("guest-" + string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	errs := make([]error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = store.JoinRoom(room.Code, users[i].ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrRoomFull):
		default:
			t.Fatalf("unexpected join error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly 1 successful join for the last seat, got %d", succeeded)
	}
	if got := len(store.RoomMembers(room.ID)); got != 2 {
		t.Fatalf("expected 2 members, got %d", got)
	}
}

func TestRoomSnapshotConcurrentWithTransitions(t *testing.T) {
	store := newTestStore()
	host, _ := store.CreateUser("ada")
	guest, _ := store.CreateUser("ben")
	room, _ := store.CreateRoom(host.ID, "", 4, 1)
	store.JoinRoom(room.Code, host.ID)
	store.JoinRoom(room.Code, guest.ID)
	store.AddPhoto(room.ID, host.ID, "ref-1", "")

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			store.StartRound(room.ID, i+1, 30)
			store.FinishRoom(room.ID)
		}
	}()
	for i := 0; i < 200; i++ {
		snapshot, members, ok := store.RoomSnapshot(room.ID)
		if !ok {
			t.Fatal("room disappeared mid-game")
		}
		switch snapshot.Status {
		case roomWaiting, roomPlaying, roomFinished:
		default:
			t.Fatalf("unexpected room status %q", snapshot.Status)
		}
		if len(members) != 2 {
			t.Fatalf("expected 2 members, got %d", len(members))
		}
		for _, member := range members {
			switch member.Status {
			case memberJoined, memberReady, memberPlaying:
			default:
				t.Fatalf("unexpected member status %q", member.Status)
			}
		}
	}
	<-done
}
