package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathlingo/mathlingo/internal/chat"
	"github.com/mathlingo/mathlingo/internal/grading"
	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
	"github.com/mathlingo/mathlingo/internal/problemstore"
	"github.com/mathlingo/mathlingo/internal/vision"
)

// newTestServer wires a Server with a shared problem store and the given
// canned LLM responses. The audit repos stay nil; those endpoints are
// tested against a real database in the store package.
func newTestServer(responses ...llm.MockResponse) (*Server, *problemstore.Store, *llm.MockProvider) {
	mock := llm.NewMockProvider(responses...)
	ps := problemstore.New()
	srv := New(Deps{
		Generator: problems.NewGenerator(mock, ps, problems.DefaultConfig()),
		Grader:    grading.NewGrader(mock, ps),
		Solver:    grading.NewSolver(mock),
		Extractor: vision.NewExtractor(mock),
		Topics:    chat.NewService(mock),
	})
	return srv, ps, mock
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func problemJSON(prompt, answer, solution string) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"prompt":   prompt,
		"answer":   answer,
		"solution": solution,
		"options":  []string{},
	})
	return b
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerateEndpoint(t *testing.T) {
	srv, ps, _ := newTestServer(llm.MockResponse{
		Content: problemJSON("What is 7 * 8?", "56", "7 * 8 = 56"),
	})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/problems", map[string]any{
		"topic":      "multiplication",
		"difficulty": 5,
		"kind":       "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ID         string `json:"id"`
		Prompt     string `json:"prompt"`
		Difficulty int    `json:"difficulty"`
		Kind       string `json:"kind"`
		Degraded   bool   `json:"degraded"`
	}
	decode(t, rec, &resp)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "What is 7 * 8?", resp.Prompt)
	assert.Equal(t, 5, resp.Difficulty)
	assert.Equal(t, "text", resp.Kind)
	assert.False(t, resp.Degraded)

	// The answer never leaves through this endpoint.
	assert.NotContains(t, rec.Body.String(), "56")

	_, ok := ps.Get(resp.ID)
	assert.True(t, ok)
}

func TestGenerateEndpointDegraded(t *testing.T) {
	srv, _, _ := newTestServer() // empty queue: transport failure

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/problems", map[string]any{
		"topic":      "algebra",
		"difficulty": 5,
		"kind":       "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Prompt   string `json:"prompt"`
		Degraded bool   `json:"degraded"`
		Error    string `json:"error"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Degraded)
	assert.NotEmpty(t, resp.Error)
	assert.Equal(t, "What is 2 + 2?", resp.Prompt)
}

func TestGenerateEndpointBadKind(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/problems", map[string]any{
		"topic": "algebra",
		"kind":  "essay",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGradeEndpointRoundTrip(t *testing.T) {
	srv, ps, _ := newTestServer(llm.MockResponse{
		Content: problemJSON("What is 7 * 8?", "56", "7 * 8 = 56"),
	})
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/problems", map[string]any{
		"topic":      "multiplication",
		"difficulty": 5,
		"kind":       "text",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var gen struct {
		ID string `json:"id"`
	}
	decode(t, rec, &gen)

	rec = doJSON(t, h, http.MethodPost, "/api/grade", map[string]any{
		"id":     gen.ID,
		"answer": "56",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict struct {
		Correct  bool `json:"correct"`
		XPGained int  `json:"xp_gained"`
	}
	decode(t, rec, &verdict)
	assert.True(t, verdict.Correct)
	assert.Equal(t, 10, verdict.XPGained)

	// The record is still there; grading is idempotent in outcome.
	_, ok := ps.Get(gen.ID)
	assert.True(t, ok)
}

func TestGradeEndpointNotFound(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/grade", map[string]any{
		"id":     "nope",
		"answer": "4",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGradeEndpointCallerRecord(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/grade", map[string]any{
		"id":     "expired",
		"answer": "4",
		"record": map[string]any{
			"prompt":   "What is 2 + 2?",
			"answer":   "4",
			"solution": "2 + 2 = 4",
			"kind":     "text",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var verdict struct {
		Correct bool `json:"correct"`
	}
	decode(t, rec, &verdict)
	assert.True(t, verdict.Correct)
}

func TestSolveEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(
		llm.MockResponse{Content: json.RawMessage("1. 6 * 7 = 42\nANSWER: 42")},
		llm.MockResponse{Content: json.RawMessage(`{"critique": "Correct.", "confidence": 0.9}`)},
	)

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/solve", map[string]any{
		"problem": "What is 6 * 7?",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Solution   string  `json:"solution"`
		Answer     string  `json:"answer"`
		Critique   string  `json:"critique"`
		Confidence float64 `json:"confidence"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "42", resp.Answer)
	assert.Equal(t, "Correct.", resp.Critique)
}

func TestSolveEndpointMissingProblem(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/solve", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpoint(t *testing.T) {
	srv, _, mock := newTestServer(llm.MockResponse{
		Content: json.RawMessage("y = 2x + 1"),
	})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/extract", map[string]any{
		"image":      base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G'}),
		"media_type": "image/png",
		"kind":       "formula_drawing",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ExtractedText string `json:"extracted_text"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "y = 2x + 1", resp.ExtractedText)
	assert.Equal(t, 1, mock.CallCount())
}

func TestExtractEndpointMissingImage(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/extract", map[string]any{
		"image": "",
		"kind":  "graphing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTopicsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer()
	rec := doJSON(t, srv.Handler(), http.MethodGet, "/api/topics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Topics []string `json:"topics"`
	}
	decode(t, rec, &resp)
	assert.Len(t, resp.Topics, 10)
}

func TestDiscussEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(llm.MockResponse{
		Content: json.RawMessage("Algebra it is! What difficulty feels right?"),
	})

	rec := doJSON(t, srv.Handler(), http.MethodPost, "/api/topics/discuss", map[string]any{
		"message": "I want algebra practice",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Response string `json:"response"`
	}
	decode(t, rec, &resp)
	assert.Contains(t, resp.Response, "Algebra")
}

func TestAuditEndpointsWithoutDatabase(t *testing.T) {
	srv, _, _ := newTestServer()
	h := srv.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/attempts", map[string]any{
		"question_text": "What is 2 + 2?",
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/stats", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
