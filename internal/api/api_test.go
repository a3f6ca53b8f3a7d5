package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/studynotes/internal/ai"
	"github.com/rcliao/studynotes/internal/ai/aitest"
	"github.com/rcliao/studynotes/internal/chat"
	"github.com/rcliao/studynotes/internal/courses"
	"github.com/rcliao/studynotes/internal/logger"
	"github.com/rcliao/studynotes/internal/model"
	"github.com/rcliao/studynotes/internal/notes"
	"github.com/rcliao/studynotes/internal/quiz"
	"github.com/rcliao/studynotes/internal/store"
)

const quizReply = `{"questions":[
  {"type":"mcq","question":"What is the time complexity of binary search?",
   "options":["O(n)","O(log n)","O(n^2)","O(1)"],"answer":"O(log n)","explanation":"Halving."},
  {"type":"true-false","question":"Binary search is O(log n).","answer":"True","explanation":"Halving."}
]}`

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, replies ...aitest.Reply) (*gin.Engine, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	gen := aitest.New(replies...)
	log := logger.Nop()
	return NewRouter(&Handler{
		Store:   s,
		Notes:   notes.New(s, gen, log),
		Courses: courses.New(s, log),
		Chat:    chat.New(s, gen, log),
		Quiz:    quiz.New(s, gen, log),
		Log:     log,
	}), s
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestCourseRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/courses", gin.H{"name": "Computer Science", "code": "CS101"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var c model.Course
	decode(t, w, &c)
	assert.Equal(t, model.PresetColors[0], c.Color)

	w = doJSON(t, router, http.MethodPatch, "/api/courses/"+c.ID, gin.H{"color": "#2563EB"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &c)
	assert.Equal(t, "#2563EB", c.Color)
	assert.Equal(t, "CS101", c.Code)

	w = doJSON(t, router, http.MethodPost, "/api/courses", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e map[string]string
	decode(t, w, &e)
	assert.Equal(t, "course name is required", e["error"])

	w = doJSON(t, router, http.MethodDelete, "/api/courses/"+c.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/courses/"+c.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNoteRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/notes", gin.H{"title": "Algorithms", "content": "Binary search"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var n model.Note
	decode(t, w, &n)

	w = doJSON(t, router, http.MethodPatch, "/api/notes/"+n.ID, gin.H{"content": "Binary search is O(log n)"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &n)
	assert.Equal(t, "Binary search is O(log n)", n.Content)

	w = doJSON(t, router, http.MethodGet, "/api/notes?q=log", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var found []model.Note
	decode(t, w, &found)
	assert.Len(t, found, 1)

	w = doJSON(t, router, http.MethodPost, "/api/notes", gin.H{"title": "x", "course_id": "missing"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/notes/"+n.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/notes/"+n.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeRoute(t *testing.T) {
	router, s := newTestRouter(t,
		aitest.Text(`{"summary":"Binary search halves.","concepts":["Binary Search"],"topics":["Searching"]}`))

	n, err := s.CreateNote(testContext(t), store.NewNote{Title: "Algorithms", Content: "Binary search"})
	require.NoError(t, err)
	empty, err := s.CreateNote(testContext(t), store.NewNote{Title: "Empty"})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/notes/"+n.ID+"/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got model.Note
	decode(t, w, &got)
	assert.Equal(t, "Binary search halves.", got.AISummary)

	w = doJSON(t, router, http.MethodPost, "/api/notes/"+empty.ID+"/analyze", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var e map[string]string
	decode(t, w, &e)
	assert.Equal(t, "add some content to the note first", e["error"])
}

func TestChatRoutes(t *testing.T) {
	router, s := newTestRouter(t,
		aitest.Text("Big O is an upper bound."),
		aitest.Fail(&ai.GenerationError{Reason: ai.ReasonRateLimited}),
	)
	n, err := s.CreateNote(testContext(t), store.NewNote{Title: "Algorithms", Content: "Big O"})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodGet, "/api/notes/"+n.ID+"/chat", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conv chat.Conversation
	decode(t, w, &conv)
	assert.Empty(t, conv.Turns)

	w = doJSON(t, router, http.MethodPost, "/api/notes/"+n.ID+"/chat", gin.H{"question": "What is Big O?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Reply    model.Message    `json:"reply"`
		Messages model.Transcript `json:"messages"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Big O is an upper bound.", resp.Reply.Content)
	assert.Len(t, resp.Messages, 2)

	w = doJSON(t, router, http.MethodPost, "/api/notes/"+n.ID+"/chat", gin.H{"question": "More?"})
	assert.Equal(t, http.StatusBadGateway, w.Code)
	var e map[string]string
	decode(t, w, &e)
	assert.Equal(t, "couldn't complete AI request", e["error"])

	stored, err := s.GetChat(testContext(t), n.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 2)
}

func TestQuizRoutes(t *testing.T) {
	router, s := newTestRouter(t, aitest.Text(quizReply), aitest.Text("no quiz today"))
	n, err := s.CreateNote(testContext(t), store.NewNote{Title: "Algorithms", Content: "Binary search"})
	require.NoError(t, err)

	w := doJSON(t, router, http.MethodPost, "/api/notes/"+n.ID+"/quizzes", gin.H{"topic": "Searching"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var q model.Quiz
	decode(t, w, &q)
	assert.Len(t, q.Questions, 2)
	assert.Nil(t, q.Score)

	w = doJSON(t, router, http.MethodPost, "/api/quizzes/"+q.ID+"/submit", gin.H{"answers": []string{"O(log n)", "False"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var g quiz.Graded
	decode(t, w, &g)
	assert.Equal(t, 50, g.Score)

	w = doJSON(t, router, http.MethodPost, "/api/quizzes/"+q.ID+"/submit", gin.H{"answers": []string{"O(log n)", "True"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/quizzes?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []model.Quiz
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "Algorithms", list[0].NoteTitle)

	w = doJSON(t, router, http.MethodPost, "/api/notes/"+n.ID+"/quizzes", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var e map[string]string
	decode(t, w, &e)
	assert.Equal(t, "quiz generation failed", e["error"])

	w = doJSON(t, router, http.MethodDelete, "/api/quizzes/"+q.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = doJSON(t, router, http.MethodGet, "/api/quizzes/"+q.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOnboardingRoutes(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/onboarding", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"complete":false}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/onboarding", gin.H{"complete": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/onboarding", nil)
	assert.JSONEq(t, `{"complete":true}`, w.Body.String())

	w = doJSON(t, router, http.MethodPost, "/api/onboarding", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateQuizTopicFromStreamedBody(t *testing.T) {
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	gen := aitest.New(aitest.Text(quizReply))
	log := logger.Nop()
	router := NewRouter(&Handler{Store: s, Quiz: quiz.New(s, gen, log), Log: log})

	n, err := s.CreateNote(testContext(t), store.NewNote{Title: "Algorithms", Content: "Binary search"})
	require.NoError(t, err)

	body := io.MultiReader(strings.NewReader(`{"topic":"Searching"}`))
	req, err := http.NewRequest(http.MethodPost, "/api/notes/"+n.ID+"/quizzes", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, gen.LastCall().Prompt, "Focus on the topic: Searching")

	req, err = http.NewRequest(http.MethodPost, "/api/notes/"+n.ID+"/quizzes", http.NoBody)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, gen.LastCall().Prompt, "Focus on the topic")
}

// testContext mirrors testing.T.Context (Go 1.24+) for older toolchains.
func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}
