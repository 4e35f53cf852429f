package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quotebot/internal/config"
	"quotebot/internal/model"
	"quotebot/internal/observability"
)

var ErrEmptySession = errors.New("session_id is required")

type ChatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	SessionID string          `json:"session_id"`
	Language  model.Language  `json:"language"`
	Messages  []model.Message `json:"messages"`
}

type LanguageRequest struct {
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

// WidgetConfig é o que a camada de apresentação precisa para montar o widget.
type WidgetConfig struct {
	Title            string       `json:"title"`
	LogoSrc          string       `json:"logo_src,omitempty"`
	Standalone       bool         `json:"standalone"`
	WidgetButtonText string       `json:"widget_button_text"`
	Links            config.Links `json:"links"`
}

type Server struct {
	bot        *config.Bot
	controller *Controller
	store      StateStore
	locks      *sessionLocks
	log        zerolog.Logger
}

func NewServer(bot *config.Bot, controller *Controller, store StateStore, log zerolog.Logger) *Server {
	return &Server{
		bot:        bot,
		controller: controller,
		store:      store,
		locks:      newSessionLocks(),
		log:        observability.Component(log, "http"),
	}
}

// Routes registra os endpoints do chat no router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/chat/config", s.handleConfig)
	r.Post("/chat/session", s.handleSession)
	r.Post("/chat", s.handleChat)
	r.Post("/chat/language", s.handleLanguage)
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, WidgetConfig{
		Title:            s.bot.Title,
		LogoSrc:          s.bot.LogoSrc,
		Standalone:       s.bot.Standalone,
		WidgetButtonText: s.bot.WidgetButtonText,
		Links:            s.bot.Links,
	})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	st := model.NewConversationState()
	if err := s.store.Save(r.Context(), id, st); err != nil {
		s.log.Error().Err(err).Msg("failed to create session")
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}
	writeJSON(w, http.StatusCreated, ChatResponse{
		SessionID: id,
		Language:  st.Language,
		Messages:  []model.Message{s.controller.Greeting()},
	})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	// o turno não é cancelado se o cliente desconectar
	ctx := context.WithoutCancel(r.Context())

	st, err := s.load(ctx, req.SessionID)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to load session")
		writeError(w, http.StatusInternalServerError, "could not load session")
		return
	}

	st, msgs := s.controller.HandleTurn(ctx, st, req.Message)

	if err := s.store.Save(ctx, req.SessionID, st); err != nil {
		s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to save session")
		writeError(w, http.StatusInternalServerError, "could not save session")
		return
	}

	if msgs == nil {
		msgs = []model.Message{}
	}
	writeJSON(w, http.StatusOK, ChatResponse{SessionID: req.SessionID, Language: st.Language, Messages: msgs})
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	var req LanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, ErrEmptySession.Error())
		return
	}

	unlock := s.locks.Lock(req.SessionID)
	defer unlock()

	ctx := r.Context()
	st, err := s.load(ctx, req.SessionID)
	if err != nil {
		s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to load session")
		writeError(w, http.StatusInternalServerError, "could not load session")
		return
	}

	lang := model.ParseLanguage(req.Language)
	if req.Language == "" {
		// sem idioma explícito o botão alterna para o outro
		lang = st.Language.Other()
	}
	st, msg := s.controller.SetLanguage(st, lang)

	if err := s.store.Save(ctx, req.SessionID, st); err != nil {
		s.log.Error().Err(err).Str("session_id", req.SessionID).Msg("failed to save session")
		writeError(w, http.StatusInternalServerError, "could not save session")
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{SessionID: req.SessionID, Language: st.Language, Messages: []model.Message{msg}})
}

func (s *Server) load(ctx context.Context, sessionID string) (model.ConversationState, error) {
	st, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return model.ConversationState{}, err
	}
	if !ok {
		return model.NewConversationState(), nil
	}
	return st, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
