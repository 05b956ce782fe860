package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testPhotoData = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mP8/x8AAwMBAp4pWZkAAAAASUVORK5CYII="

func createUser(t *testing.T, ts *httptest.Server, username string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/users", map[string]string{
		"username": username,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["id"].(string)
}

func createRoom(t *testing.T, ts *httptest.Server, hostID string, maxPlayers, rounds int) (string, string) {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms", map[string]any{
		"host_user_id":     hostID,
		"max_players":      maxPlayers,
		"number_of_rounds": rounds,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["id"].(string), body["code"].(string)
}

func joinRoom(t *testing.T, ts *httptest.Server, code, userID string) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/join", map[string]string{
		"code":    code,
		"user_id": userID,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func uploadPhoto(t *testing.T, ts *httptest.Server, roomID, userID string) string {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/photos", map[string]string{
		"user_id":       userID,
		"data":          testPhotoData,
		"original_name": "holiday.png",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	body := decodeBody(t, resp)
	return body["id"].(string)
}

func startRound(t *testing.T, ts *httptest.Server, roomID string, number int) map[string]any {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/rooms/"+roomID+"/rounds", map[string]any{
		"round_number": number,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status %d, got %d", http.StatusCreated, resp.StatusCode)
	}
	return decodeBody(t, resp)
}

func doRequest(t *testing.T, ts *httptest.Server, method, path string, payload any) *http.Response {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}
