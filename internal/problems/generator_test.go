package problems

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathlingo/mathlingo/internal/llm"
)

// memStore is the minimal Store used by generator tests.
type memStore struct {
	records map[string]*Problem
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]*Problem)}
}

func (s *memStore) Put(id string, p *Problem) { s.records[id] = p }

func (s *memStore) Get(id string) (*Problem, bool) {
	p, ok := s.records[id]
	return p, ok
}

func goodReply(t *testing.T, out problemOutput) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(out)
	require.NoError(t, err)
	return b
}

func TestGenerateSuccess(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: goodReply(t, problemOutput{
			Prompt:   "What is 3 * 7?",
			Answer:   "21",
			Solution: "Multiply 3 by 7.\n\n3 * 7 = 21",
		}),
	})
	store := newMemStore()
	gen := NewGenerator(mock, store, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{
		Topic:      "multiplication",
		Difficulty: 4,
		Kind:       KindText,
	})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.NotEmpty(t, res.Problem.ID)
	assert.Equal(t, "What is 3 * 7?", res.Problem.Prompt)
	assert.Equal(t, KindText, res.Problem.Kind)
	assert.Equal(t, 4, res.Problem.Difficulty)
	assert.Empty(t, res.Problem.Options)

	stored, ok := store.Get(res.Problem.ID)
	require.True(t, ok)
	assert.Equal(t, "21", stored.Answer)
	assert.NotEmpty(t, stored.Solution)
}

func TestGeneratePublicHidesAnswer(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: goodReply(t, problemOutput{
			Prompt:   "What is 5 + 5?",
			Answer:   "10",
			Solution: "5 + 5 = 10",
		}),
	})
	gen := NewGenerator(mock, newMemStore(), DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "addition", Difficulty: 2, Kind: KindText})
	require.NoError(t, err)

	b, err := json.Marshal(res.Problem)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "answer")
	assert.NotContains(t, string(b), "solution")
}

func TestGenerateMultipleChoice(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: goodReply(t, problemOutput{
			Prompt:   "Which is prime?",
			Answer:   "B",
			Solution: "9 = 3*3 and 15 = 3*5, but 7 has no divisors other than 1 and 7.",
			Options:  []string{"9", "7", "15"},
		}),
	})
	store := newMemStore()
	gen := NewGenerator(mock, store, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{
		Topic:      "primes",
		Difficulty: 5,
		Kind:       KindMultipleChoice,
	})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, KindMultipleChoice, res.Problem.Kind)
	assert.Equal(t, []string{"9", "7", "15"}, res.Problem.Options)

	stored, ok := store.Get(res.Problem.ID)
	require.True(t, ok)
	assert.Equal(t, "B", stored.Answer)
}

func TestGenerateAdaptsDifficulty(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: goodReply(t, problemOutput{
			Prompt:   "What is 12 / 4?",
			Answer:   "3",
			Solution: "12 / 4 = 3",
		}),
	})
	gen := NewGenerator(mock, newMemStore(), DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{
		Topic:      "division",
		Difficulty: 5,
		History:    history(true, true, true),
		Kind:       KindText,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, res.Problem.Difficulty)

	// The adapted difficulty also drives the prompt sent to the model.
	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "6")
}

func TestGenerateMalformedReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`Sure! Here's a nice problem for you.`),
	})
	store := newMemStore()
	gen := NewGenerator(mock, store, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "algebra", Difficulty: 7, Kind: KindText})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "What is 2 + 2?", res.Problem.Prompt)
	assert.Equal(t, KindText, res.Problem.Kind)
	assert.Equal(t, 7, res.Problem.Difficulty)

	// The fallback is stored like any other record so grading still works.
	stored, ok := store.Get(res.Problem.ID)
	require.True(t, ok)
	assert.Equal(t, "4", stored.Answer)
}

func TestGenerateTruncatedReplyFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage(`{"prompt": "What is`),
	})
	gen := NewGenerator(mock, newMemStore(), DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "algebra", Difficulty: 3, Kind: KindText})
	require.NoError(t, err)
	assert.Equal(t, "What is 2 + 2?", res.Problem.Prompt)
}

func TestGenerateBadChoicesFallsBack(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: goodReply(t, problemOutput{
			Prompt:   "Which is even?",
			Answer:   "D",
			Solution: "An even number is divisible by 2.",
			Options:  []string{"1", "3", "5", "8"},
		}),
	})
	gen := NewGenerator(mock, newMemStore(), DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "parity", Difficulty: 2, Kind: KindMultipleChoice})
	require.NoError(t, err)
	assert.False(t, res.Degraded)
	assert.Equal(t, "What is 2 + 2?", res.Problem.Prompt)
	assert.Equal(t, KindText, res.Problem.Kind)
}

func TestGenerateProviderErrorDegrades(t *testing.T) {
	mock := llm.NewMockProvider() // empty queue yields ErrProviderUnavailable
	store := newMemStore()
	gen := NewGenerator(mock, store, DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "geometry", Difficulty: 6, Kind: KindText})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, "What is 2 + 2?", res.Problem.Prompt)

	_, ok := store.Get(res.Problem.ID)
	assert.True(t, ok)
}

func TestGenerateNilProviderDegrades(t *testing.T) {
	gen := NewGenerator(nil, newMemStore(), DefaultConfig())

	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "fractions", Difficulty: 4, Kind: KindText})
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.Equal(t, "What is 2 + 2?", res.Problem.Prompt)
}

func TestGenerateRandomKindIsValid(t *testing.T) {
	gen := NewGenerator(nil, newMemStore(), DefaultConfig())

	// Kind unset: the fallback path still yields a valid record.
	res, err := gen.Generate(context.Background(), GenerateInput{Topic: "mixed", Difficulty: 5})
	require.NoError(t, err)
	assert.True(t, res.Problem.Kind.Valid())
}

func TestParseReplyNormalizesOptionTextAnswer(t *testing.T) {
	raw := goodReply(t, problemOutput{
		Prompt:   "Which is largest?",
		Answer:   "12",
		Solution: "12 > 9 > 4.",
		Options:  []string{"4", "12", "9"},
	})

	out, err := parseReply(raw, KindMultipleChoice)
	require.NoError(t, err)
	assert.Equal(t, "B", out.Answer)
}

func TestParseReplyStripsOptionsForTextKind(t *testing.T) {
	raw := goodReply(t, problemOutput{
		Prompt:   "What is 8 - 3?",
		Answer:   "5",
		Solution: "8 - 3 = 5",
		Options:  []string{"5", "6", "7"},
	})

	out, err := parseReply(raw, KindText)
	require.NoError(t, err)
	assert.Nil(t, out.Options)
}
