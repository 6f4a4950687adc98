package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/PrintfR/HardCode/internal/server/middleware"
	"github.com/PrintfR/HardCode/internal/session"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/PrintfR/HardCode/internal/voice"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Client-facing messages.
const (
	msgAlreadyAttempted   = "You’ve already attempted this interview"
	msgInterviewNotFound  = "Interview not found"
	msgSessionNotFound    = "Session not found"
	msgInvalidRequestBody = "Invalid request body"
	msgMissingFields      = "Missing required fields"
)

// AssistantResponse is the voice assistant configuration for one session.
type AssistantResponse struct {
	Assistant      *voice.AssistantConfig `json:"assistant"`
	VariableValues map[string]string      `json:"variableValues"`
}

// fail maps err onto a response. Client errors carry their own message;
// everything else is logged and answered with fallback.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := HTTPStatus(err)

	var (
		validationErr *session.ValidationError
		notFoundErr   *session.NotFoundError
	)
	switch {
	case errors.As(err, &validationErr):
		errorResponse(w, status, validationErr.Message)
		return
	case errors.As(err, &notFoundErr):
		if notFoundErr.Resource == "session" {
			errorResponse(w, status, msgSessionNotFound)
		} else {
			errorResponse(w, status, msgInterviewNotFound)
		}
		return
	case status == http.StatusConflict:
		errorResponse(w, status, msgAlreadyAttempted)
		return
	}

	s.logger.Error(fallback,
		zap.String("path", r.URL.Path),
		zap.Bool("upstream_format", isUpstreamFormat(err)),
		zap.Error(err))
	errorResponse(w, status, fallback)
}

// userID returns the authenticated caller. The auth middleware guarantees it.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return "", false
	}
	return userID, true
}

func (s *Server) handleCreateInterview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.CreateInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	view, err := s.sessions.CreateInterviewAndStart(r.Context(), &req, userID)
	if err != nil {
		s.fail(w, r, err, "Failed to generate interview")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"session": view})
}

func (s *Server) handleStartAttempt(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	view, err := s.sessions.StartAttempt(r.Context(), chi.URLParam(r, "id"), userID)
	if err != nil {
		s.fail(w, r, err, "Failed to start interview")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"session": view})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	interview, err := s.sessions.PreviewInterview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Failed to fetch interview")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"interview": interview})
}

// ownSession loads the caller's session and its interview. Another user's
// session is reported as not found.
func (s *Server) ownSession(w http.ResponseWriter, r *http.Request, fallback string) (*types.InterviewSession, *types.Interview, bool) {
	userID, ok := s.userID(w, r)
	if !ok {
		return nil, nil, false
	}

	sessionID := chi.URLParam(r, "id")
	sess, interview, err := s.sessions.SessionWithInterview(r.Context(), sessionID)
	if err != nil {
		s.fail(w, r, err, fallback)
		return nil, nil, false
	}
	if sess.UserID != userID {
		errorResponse(w, http.StatusNotFound, msgSessionNotFound)
		return nil, nil, false
	}
	return sess, interview, true
}

func (s *Server) handleAssistant(w http.ResponseWriter, r *http.Request) {
	_, interview, ok := s.ownSession(w, r, "Failed to load assistant")
	if !ok {
		return
	}
	jsonResponse(w, http.StatusOK, AssistantResponse{
		Assistant:      s.assistant,
		VariableValues: voice.VariableValues(interview.QuestionTexts()),
	})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	if s.relay == nil {
		errorResponse(w, http.StatusServiceUnavailable, "Voice calls are unavailable")
		return
	}
	sess, interview, ok := s.ownSession(w, r, "Failed to start call")
	if !ok {
		return
	}
	s.relay.Serve(w, r, voice.Call{
		SessionID: sess.ID,
		Assistant: s.assistant,
		Questions: interview.QuestionTexts(),
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Transcript == nil {
		errorResponse(w, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}
	if err := req.Validate(); err != nil {
		errorResponse(w, http.StatusBadRequest, msgMissingFields)
		return
	}

	feedback, err := s.sessions.RecordCompletion(r.Context(), chi.URLParam(r, "id"), req.Transcript)
	if err != nil {
		s.fail(w, r, err, voice.AnalyzeFailedMessage)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"feedback": feedback})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	results, err := s.sessions.FetchResults(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "Failed to get results")
		return
	}
	jsonResponse(w, http.StatusOK, results)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	list, err := s.sessions.ListSessionsForUser(r.Context(), userID, limit, query.Get("summary") == "true")
	if err != nil {
		s.fail(w, r, err, "Failed to get details")
		return
	}
	jsonResponse(w, http.StatusOK, list)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			errorResponse(w, http.StatusBadRequest, "Invalid page")
			return
		}
		page = n
	}

	result, err := s.sessions.DiscoverInterviews(r.Context(), userID, page)
	if err != nil {
		s.fail(w, r, err, "Failed to fetch interviews")
		return
	}
	jsonResponse(w, http.StatusOK, result)
}
