package server

import (
	"net/http"
	"testing"
)

// TestFullGameFlow walks one complete game over the HTTP API: two
// players join a room by code, upload a photo each, play a guessing
// round, check standings, and end the game.
func TestFullGameFlow(t *testing.T) {
	srv, blobs := newServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	alice := createUser(t, ts, "alice")
	bob := createUser(t, ts, "bob")

	roomID, code := createRoom(t, ts, alice, 4, 1)
	joinRoom(t, ts, code, alice)
	joinRoom(t, ts, code, bob)

	uploadPhoto(t, ts, roomID, alice)
	uploadPhoto(t, ts, roomID, bob)
	if blobs.Len() != 2 {
		t.Fatalf("expected 2 stored blobs, got %d", blobs.Len())
	}

	resp := doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID+"/photo-status", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("photo-status: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	status := decodeBody(t, resp)
	if status["all_ready"] != true {
		t.Fatalf("expected all_ready after both uploads, got %v", status["all_ready"])
	}
	if status["players_ready"].(float64) != 2 {
		t.Fatalf("expected 2 players ready, got %v", status["players_ready"])
	}

	round := startRound(t, ts, roomID, 1)
	roundID := round["id"].(string)
	if round["status"] != "active" {
		t.Fatalf("expected active round, got %v", round["status"])
	}
	if _, leaked := round["photo_owner_id"]; leaked {
		t.Fatal("start response must not reveal the photo owner")
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID, nil)
	snapshot := decodeBody(t, resp)
	if snapshot["status"] != "playing" {
		t.Fatalf("expected playing room after round start, got %v", snapshot["status"])
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID+"/rounds/active", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("active round: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	active := decodeBody(t, resp)
	owner := active["photo_owner"].(map[string]any)["id"].(string)

	guesser := alice
	if owner == alice {
		guesser = bob
	}
	resp = doRequest(t, ts, http.MethodPost, "/api/rounds/"+roundID+"/answers", map[string]string{
		"player_id":       guesser,
		"guessed_user_id": owner,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit answer: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	answer := decodeBody(t, resp)
	if answer["is_correct"] != true {
		t.Fatalf("guessing the owner must be correct, got %v", answer["is_correct"])
	}
	if answer["round_closed"] != false {
		t.Fatal("round must stay open with the owner yet to answer")
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID+"/standings", nil)
	standings := decodeBody(t, resp)["standings"].([]any)
	if len(standings) != 2 {
		t.Fatalf("expected 2 standings entries, got %d", len(standings))
	}
	leader := standings[0].(map[string]any)
	if leader["user_id"].(string) != guesser || leader["total_score"].(float64) != 100 {
		t.Fatalf("expected the correct guesser leading with 100, got %v", leader)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/end", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("end game: expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	summary := decodeBody(t, resp)
	if summary["deleted_photos"].(float64) != 2 {
		t.Fatalf("expected 2 deleted photos, got %v", summary["deleted_photos"])
	}
	if summary["deleted_rounds"].(float64) != 1 {
		t.Fatalf("expected 1 deleted round, got %v", summary["deleted_rounds"])
	}
	if summary["deleted_scores"].(float64) != 0 {
		t.Fatalf("expected no settled scores to delete, got %v", summary["deleted_scores"])
	}
	if blobs.Len() != 0 {
		t.Fatalf("expected all blobs released, got %d", blobs.Len())
	}

	resp = doRequest(t, ts, http.MethodGet, "/api/rooms/"+roomID, nil)
	snapshot = decodeBody(t, resp)
	if snapshot["status"] != "finished" {
		t.Fatalf("expected finished room, got %v", snapshot["status"])
	}
	for _, entry := range snapshot["players"].([]any) {
		player := entry.(map[string]any)
		if player["status"] != "joined" {
			t.Fatalf("expected members reset to joined, got %v", player["status"])
		}
	}

	// Ending an already-finished room finds nothing left to remove.
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/end", nil)
	summary = decodeBody(t, resp)
	if summary["deleted_photos"].(float64) != 0 || summary["deleted_rounds"].(float64) != 0 {
		t.Fatalf("second end must report zero counts, got %v", summary)
	}
}

func TestJoinRoomHTTPErrors(t *testing.T) {
	srv, _ := newServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	alice := createUser(t, ts, "alice")
	_, code := createRoom(t, ts, alice, 2, 1)
	joinRoom(t, ts, code, alice)

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/join", map[string]string{
		"code":    "ZZZZZZ",
		"user_id": alice,
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown code: expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/join", map[string]string{
		"code":    code,
		"user_id": alice,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("join twice: expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}

	bob := createUser(t, ts, "bob")
	carol := createUser(t, ts, "carol")
	joinRoom(t, ts, code, bob)
	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/join", map[string]string{
		"code":    code,
		"user_id": carol,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("full room: expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestStartRoundHTTPConflicts(t *testing.T) {
	srv, _ := newServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	alice := createUser(t, ts, "alice")
	bob := createUser(t, ts, "bob")
	roomID, code := createRoom(t, ts, alice, 4, 2)
	joinRoom(t, ts, code, alice)
	joinRoom(t, ts, code, bob)

	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/rounds", map[string]any{
		"round_number": 1,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("no photos: expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}

	uploadPhoto(t, ts, roomID, alice)
	startRound(t, ts, roomID, 1)

	resp = doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/rounds", map[string]any{
		"round_number": 2,
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second active round: expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}

func TestDuplicateUsernameHTTP(t *testing.T) {
	srv, _ := newServer(t)
	ts := newTestServer(t, srv.Handler())
	defer ts.Close()

	createUser(t, ts, "alice")
	resp := doRequest(t, ts, http.MethodPost, "/api/users", map[string]string{
		"username": "alice",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected status %d, got %d", http.StatusConflict, resp.StatusCode)
	}
}
