package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

type createUserRequest struct {
	Username string `json:"username"`
}

type createRoomRequest struct {
	HostUserID     string `json:"host_user_id"`
	Status         string `json:"status,omitempty"`
	MaxPlayers     int    `json:"max_players"`
	NumberOfRounds int    `json:"number_of_rounds"`
}

type joinRoomRequest struct {
	Code   string `json:"code"`
	UserID string `json:"user_id"`
}

type uploadPhotoRequest struct {
	UserID       string `json:"user_id"`
	Data         string `json:"data"`
	OriginalName string `json:"original_name,omitempty"`
}

type startRoundRequest struct {
	RoundNumber int `json:"round_number"`
	TimeLimit   int `json:"time_limit,omitempty"`
}

type submitAnswerRequest struct {
	PlayerID      string `json:"player_id"`
	GuessedUserID string `json:"guessed_user_id"`
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Get("/users", s.handleListUsers)
		r.Get("/users/{userID}", s.handleGetUser)

		r.Post("/rooms", s.handleCreateRoom)
		r.Post("/rooms/join", s.handleJoinRoom)
		r.Get("/rooms/{roomID}", s.handleGetRoom)
		r.Post("/rooms/{roomID}/photos", s.handleUploadPhoto)
		r.Get("/rooms/{roomID}/photos", s.handleListPhotos)
		r.Delete("/rooms/{roomID}/photos", s.handleDeleteRoomPhotos)
		r.Get("/rooms/{roomID}/photo-status", s.handlePhotoStatus)
		r.Post("/rooms/{roomID}/rounds", s.handleStartRound)
		r.Get("/rooms/{roomID}/rounds/active", s.handleActiveRound)
		r.Get("/rooms/{roomID}/standings", s.handleStandings)
		r.Post("/rooms/{roomID}/end", s.handleEndGame)

		r.Post("/rounds/{roundID}/answers", s.handleSubmitAnswer)
		r.Get("/photos/{photoID}/url", s.handlePhotoURL)
	})
	return r
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	user, err := s.CreateUser(req.Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user created")
	writeJSON(w, http.StatusCreated, userPayload(user))
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if username := r.URL.Query().Get("username"); username != "" {
		user, ok := s.store.UserByUsername(username)
		if !ok {
			writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, userPayload(user))
		return
	}
	users := s.store.Users()
	list := make([]map[string]any, 0, len(users))
	for _, user := range users {
		list = append(list, userPayload(user))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": list})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := s.store.UserByID(chi.URLParam(r, "userID"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrUserNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, userPayload(user))
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req createRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, err := s.CreateRoom(req.HostUserID, req.Status, req.MaxPlayers, req.NumberOfRounds)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("room_id", room.ID).Str("join_code", room.Code).Msg("room created")
	writeJSON(w, http.StatusCreated, roomPayload(room))
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	var req joinRoomRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	room, member, err := s.JoinRoom(req.Code, req.UserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("room_id", room.ID).Str("user_id", member.UserID).Msg("player joined")
	payload := roomPayload(room)
	payload["membership_id"] = member.ID
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := s.roomSnapshot(chi.URLParam(r, "roomID"))
	if !ok {
		writeError(w, http.StatusNotFound, ErrRoomNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req uploadPhotoRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	name, err := validatePhotoName(req.OriginalName)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, contentType, err := parsePhotoData(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	photo, err := s.UploadPhoto(r.Context(), chi.URLParam(r, "roomID"), req.UserID, data, contentType, name)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, photoPayload(photo))
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	if _, ok := s.store.RoomByID(roomID); !ok {
		writeError(w, http.StatusNotFound, ErrRoomNotFound.Error())
		return
	}
	var photos []*Photo
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		photos = s.store.UserPhotos(roomID, userID)
	} else {
		photos = s.store.RoomPhotos(roomID)
	}
	list := make([]map[string]any, 0, len(photos))
	for _, photo := range photos {
		list = append(list, photoPayload(photo))
	}
	writeJSON(w, http.StatusOK, map[string]any{"photos": list})
}

func (s *Server) handleDeleteRoomPhotos(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.DeleteRoomPhotos(r.Context(), chi.URLParam(r, "roomID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete room photos")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted_count": deleted})
}

func (s *Server) handlePhotoStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.store.PhotoStatus(chi.URLParam(r, "roomID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, photoStatusPayload(status))
}

func (s *Server) handlePhotoURL(w http.ResponseWriter, r *http.Request) {
	photo, url, err := s.PhotoURL(r.Context(), chi.URLParam(r, "photoID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	payload := photoPayload(photo)
	payload["url"] = url
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	var req startRoundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	round, err := s.StartRound(chi.URLParam(r, "roomID"), req.RoundNumber, req.TimeLimit)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	log.Info().Str("round_id", round.ID).Int("round_number", round.RoundNumber).Msg("round started")
	writeJSON(w, http.StatusCreated, roundPayload(round))
}

func (s *Server) handleActiveRound(w http.ResponseWriter, r *http.Request) {
	view, ok := s.ActiveRound(chi.URLParam(r, "roomID"))
	if !ok {
		writeError(w, http.StatusNotFound, "no active round")
		return
	}
	payload := roundPayload(view.Round)
	if view.Photo != nil {
		payload["photo"] = photoPayload(view.Photo)
	}
	if view.Owner != nil {
		payload["photo_owner"] = userPayload(view.Owner)
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.SubmitAnswer(chi.URLParam(r, "roundID"), req.PlayerID, req.GuessedUserID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"answer_id":         result.AnswerID,
		"is_correct":        result.IsCorrect,
		"time_to_answer_ms": result.TimeToAnswer.Milliseconds(),
		"round_closed":      result.RoundClosed,
	})
}

func (s *Server) handleStandings(w http.ResponseWriter, r *http.Request) {
	standings, err := s.Standings(chi.URLParam(r, "roomID"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"standings": standingsPayload(standings)})
}

func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	summary, err := s.EndGameAndCleanup(r.Context(), roomID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clean up room")
		return
	}
	log.Info().Str("room_id", roomID).
		Int("deleted_photos", summary.DeletedPhotos).
		Int("deleted_rounds", summary.DeletedRounds).
		Msg("game ended")
	writeJSON(w, http.StatusOK, map[string]any{
		"deleted_photos": summary.DeletedPhotos,
		"deleted_rounds": summary.DeletedRounds,
		"deleted_scores": summary.DeletedScores,
	})
}
