package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PrintfR/HardCode/internal/questions"
	"github.com/PrintfR/HardCode/internal/types"
	"github.com/PrintfR/HardCode/internal/voice"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() map[string]any {
	return map[string]any{
		"title":             "Backend practice",
		"position":          "Backend Engineer",
		"techStack":         []string{"Go", "Postgres"},
		"type":              "technical",
		"difficulty":        "medium",
		"numberOfQuestions": 2,
	}
}

// seedInterview creates an interview owned by a fresh user and returns its id.
func (ts *testServer) seedInterview(t *testing.T, ownerEmail string) string {
	t.Helper()
	ownerID, _ := ts.user(t, ownerEmail)
	req := &types.CreateInterviewRequest{
		Title:             "Seeded",
		Position:          "Engineer",
		TechStack:         []string{"Go"},
		Type:              types.InterviewMix,
		Difficulty:        types.DifficultyEasy,
		NumberOfQuestions: 2,
	}
	view, err := ts.sessions.CreateInterviewAndStart(context.Background(), req, ownerID)
	require.NoError(t, err)
	return view.Interview.ID
}

func TestCreateInterview(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "ada@example.com")

	rec := ts.do(t, http.MethodPost, "/interviews/new", token, validCreateRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody[struct {
		Session types.SessionView `json:"session"`
	}](t, rec)
	assert.NotEmpty(t, body.Session.ID)
	require.NotNil(t, body.Session.Interview)
	assert.Equal(t, "Backend practice", body.Session.Interview.Title)
	require.Len(t, body.Session.Interview.Questions, 2)
	assert.Equal(t, "Q1", body.Session.Interview.Questions[0].Text)
}

func TestCreateInterview_BadRequests(t *testing.T) {
	ts := newTestServer(t)
	_, token := ts.user(t, "ada@example.com")

	withField := func(key string, value any) map[string]any {
		req := validCreateRequest()
		if value == nil {
			delete(req, key)
		} else {
			req[key] = value
		}
		return req
	}

	tests := []struct {
		name string
		body any
		want string
	}{
		{"malformed json", "{", "Missing required fields"},
		{"missing title", withField("title", nil), "Missing required fields"},
		{"short title", withField("title", "ab"), "Title must be at least 3 characters"},
		{"empty tech stack", withField("techStack", []string{}), "Select at least one tech"},
		{"bad type", withField("type", "trivia"), "Invalid interview type"},
		{"too many questions", withField("numberOfQuestions", 11), "Number of questions must be at most 10"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/interviews/new", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.want, errorMessage(t, rec))
		})
	}
}

func TestCreateInterview_GenerationFailures(t *testing.T) {
	for _, genErr := range []error{
		errors.New("quota exceeded"),
		&questions.InvalidFormatError{Message: "expected an array of non-empty strings"},
	} {
		ts := newTestServer(t)
		_, token := ts.user(t, "ada@example.com")
		ts.generator.err = genErr

		rec := ts.do(t, http.MethodPost, "/interviews/new", token, validCreateRequest())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Failed to generate interview", errorMessage(t, rec))
		assert.NotContains(t, rec.Body.String(), genErr.Error())
		assert.Equal(t, 1, ts.logs.FilterMessage("Failed to generate interview").Len())
	}
}

func TestStartAttempt(t *testing.T) {
	ts := newTestServer(t)
	interviewID := ts.seedInterview(t, "owner@example.com")
	_, token := ts.user(t, "ada@example.com")

	rec := ts.do(t, http.MethodPost, "/interviews/"+interviewID+"/start", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Session types.SessionView `json:"session"`
	}](t, rec)
	assert.Equal(t, interviewID, body.Session.Interview.ID)

	rec = ts.do(t, http.MethodPost, "/interviews/"+interviewID+"/start", token, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "You’ve already attempted this interview", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, "/interviews/missing/start", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Interview not found", errorMessage(t, rec))
}

func TestPreview(t *testing.T) {
	ts := newTestServer(t)
	interviewID := ts.seedInterview(t, "owner@example.com")
	_, token := ts.user(t, "ada@example.com")

	rec := ts.do(t, http.MethodGet, "/interviews/"+interviewID+"/preview", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[struct {
		Interview types.Interview `json:"interview"`
	}](t, rec)
	assert.Equal(t, interviewID, body.Interview.ID)
	assert.Len(t, body.Interview.Questions, 2)

	rec = ts.do(t, http.MethodGet, "/interviews/missing/preview", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Interview not found", errorMessage(t, rec))
}

// startSession starts a session for a new user on a seeded interview.
func (ts *testServer) startSession(t *testing.T) (sessionID, token string) {
	t.Helper()
	_, token = ts.user(t, "ada@example.com")
	rec := ts.do(t, http.MethodPost, "/interviews/new", token, validCreateRequest())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[struct {
		Session types.SessionView `json:"session"`
	}](t, rec)
	return body.Session.ID, token
}

func TestAssistant(t *testing.T) {
	ts := newTestServer(t)
	sessionID, token := ts.startSession(t)

	rec := ts.do(t, http.MethodGet, "/interviews/"+sessionID+"/assistant", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody[AssistantResponse](t, rec)
	require.NotNil(t, body.Assistant)
	assert.Equal(t, "Interviewer", body.Assistant.Name)
	assert.Equal(t, "- Q1\n- Q2", body.VariableValues[voice.QuestionsVariable])

	_, otherToken := ts.user(t, "grace@example.com")
	rec = ts.do(t, http.MethodGet, "/interviews/"+sessionID+"/assistant", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", errorMessage(t, rec))

	rec = ts.do(t, http.MethodGet, "/interviews/missing/assistant", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnalyzeThenResults(t *testing.T) {
	ts := newTestServer(t)
	sessionID, token := ts.startSession(t)

	rec := ts.do(t, http.MethodGet, "/interviews/"+sessionID+"/results", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	before := decodeBody[map[string]any](t, rec)
	assert.Nil(t, before["feedback"])

	transcript := map[string]any{"transcript": []map[string]string{
		{"role": "assistant", "content": "Tell me about Go."},
		{"role": "user", "content": "It has goroutines."},
	}}
	rec = ts.do(t, http.MethodPost, "/interviews/"+sessionID+"/analyze", token, transcript)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	analyzed := decodeBody[struct {
		Feedback types.Feedback `json:"feedback"`
	}](t, rec)
	assert.Equal(t, *sampleFeedback(), analyzed.Feedback)

	rec = ts.do(t, http.MethodGet, "/interviews/"+sessionID+"/results", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decodeBody[types.Results](t, rec)
	require.NotNil(t, results.Feedback)
	assert.Equal(t, 90.0, results.Feedback.Scores.ProblemSolving)
	require.NotNil(t, results.Interview)
	assert.Equal(t, "Backend practice", results.Interview.Title)

	rec = ts.do(t, http.MethodGet, "/interviews/missing/results", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", errorMessage(t, rec))
}

func TestAnalyze_Errors(t *testing.T) {
	ts := newTestServer(t)
	sessionID, token := ts.startSession(t)
	path := "/interviews/" + sessionID + "/analyze"

	rec := ts.do(t, http.MethodPost, path, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, path, token, "not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, path, token, map[string]any{"transcript": []map[string]string{{"content": "no role"}}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", errorMessage(t, rec))

	rec = ts.do(t, http.MethodPost, "/interviews/missing/analyze", token, map[string]any{"transcript": []any{}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Session not found", errorMessage(t, rec))

	ts.evaluator.err = errors.New("model down")
	rec = ts.do(t, http.MethodPost, path, token, map[string]any{"transcript": []any{}})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to analyze session", errorMessage(t, rec))
}

func TestListSessions(t *testing.T) {
	ts := newTestServer(t)
	sessionID, token := ts.startSession(t)

	rec := ts.do(t, http.MethodGet, "/interviews", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	plain := decodeBody[map[string]any](t, rec)
	_, hasSummary := plain["summary"]
	assert.False(t, hasSummary)

	rec = ts.do(t, http.MethodPost, "/interviews/"+sessionID+"/analyze", token, map[string]any{"transcript": []any{}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/interviews?limit=5&summary=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody[types.SessionList](t, rec)
	require.Len(t, list.Sessions, 1)
	assert.Equal(t, sessionID, list.Sessions[0].ID)
	require.NotNil(t, list.Sessions[0].Score)
	assert.Equal(t, 75, *list.Sessions[0].Score)
	require.NotNil(t, list.Summary)
	assert.Equal(t, 1, list.Summary.CompletedCount)
	assert.Equal(t, 75, list.Summary.AverageScore)

	rec = ts.do(t, http.MethodGet, "/interviews?limit=-1", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/interviews?limit=ten", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid limit", errorMessage(t, rec))
}

func TestDiscover(t *testing.T) {
	ts := newTestServer(t)
	interviewID := ts.seedInterview(t, "owner@example.com")
	_, token := ts.user(t, "ada@example.com")

	rec := ts.do(t, http.MethodGet, "/interviews/discover", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decodeBody[types.DiscoverPage](t, rec)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 1, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, interviewID, page.Data[0].ID)

	rec = ts.do(t, http.MethodGet, "/interviews/discover?page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeBody[types.DiscoverPage](t, rec).Data)

	rec = ts.do(t, http.MethodGet, "/interviews/discover?page=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid page", errorMessage(t, rec))

	rec = ts.do(t, http.MethodGet, "/interviews/discover?page=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func dialCall(t *testing.T, srv *httptest.Server, sessionID, token string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/interviews/" + sessionID + "/call"
	if token != "" {
		url += "?token=" + token
	}
	return websocket.DefaultDialer.Dial(url, nil)
}

func TestCall_RelaysAndScores(t *testing.T) {
	ts := newTestServer(t)
	sessionID, token := ts.startSession(t)

	srv := httptest.NewServer(ts.srv.Handler())
	t.Cleanup(srv.Close)

	conn, resp, err := dialCall(t, srv, sessionID, token)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var cfg voice.ServerFrame
	require.NoError(t, conn.ReadJSON(&cfg))
	assert.Equal(t, voice.FrameCallConfig, cfg.Type)
	assert.Equal(t, "- Q1\n- Q2", cfg.VariableValues[voice.QuestionsVariable])

	for _, frame := range []voice.ClientFrame{
		{Type: "call-start"},
		{Type: "transcript", TranscriptType: "final", Role: "assistant", Transcript: "Tell me about Go."},
		{Type: "transcript", TranscriptType: "final", Role: "user", Transcript: "It has goroutines."},
		{Type: "call-end"},
	} {
		require.NoError(t, conn.WriteJSON(frame))
	}

	var result voice.ServerFrame
	require.NoError(t, conn.ReadJSON(&result))
	assert.Equal(t, voice.FrameFeedback, result.Type)
	assert.Equal(t, sampleFeedback(), result.Feedback)

	sess, err := ts.store.GetSession(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, types.StateCompleted, sess.State())
}

func TestCall_Rejections(t *testing.T) {
	ts := newTestServer(t)
	sessionID, _ := ts.startSession(t)
	_, otherToken := ts.user(t, "grace@example.com")

	srv := httptest.NewServer(ts.srv.Handler())
	t.Cleanup(srv.Close)

	_, resp, err := dialCall(t, srv, sessionID, "")
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_ = resp.Body.Close()

	_, resp, err = dialCall(t, srv, sessionID, otherToken)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestCall_RelayDisabled(t *testing.T) {
	ts := newTestServer(t, func(d *Deps) { d.Relay = nil })
	sessionID, token := ts.startSession(t)

	rec := ts.do(t, http.MethodGet, "/interviews/"+sessionID+"/call", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
