package server

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

func readJSON(body io.Reader, dest any) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}

// writeStoreError maps the store's error taxonomy onto HTTP statuses:
// NotFound family -> 404, Conflict family -> 409, everything else 400.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrPhotoNotFound),
		errors.Is(err, ErrRoundNotActive):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateUsername),
		errors.Is(err, ErrDuplicateAnswer),
		errors.Is(err, ErrRoomNotJoinable),
		errors.Is(err, ErrAlreadyJoined),
		errors.Is(err, ErrRoomFull),
		errors.Is(err, ErrNotAMember),
		errors.Is(err, ErrRoundAlreadyActive),
		errors.Is(err, ErrNoPhotosAvailable):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}

// parsePhotoData accepts either a bare base64 payload or a data URL
// and returns the raw bytes plus the declared content type.
func parsePhotoData(raw string) ([]byte, string, error) {
	contentType := "image/jpeg"
	encoded := raw
	if strings.HasPrefix(raw, "data:") {
		rest := strings.TrimPrefix(raw, "data:")
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", errors.New("malformed data URL")
		}
		meta = strings.TrimSuffix(meta, ";base64")
		if meta != "" {
			contentType = meta
		}
		encoded = payload
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", errors.New("photo data is not valid base64")
	}
	if len(data) == 0 {
		return nil, "", errors.New("photo data is empty")
	}
	if len(data) > maxPhotoBytes {
		return nil, "", errors.New("photo data is too large")
	}
	return data, contentType, nil
}
