package vision

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
)

var fakePNG = []byte{0x89, 'P', 'N', 'G'}

func TestExtractFormula(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("  x = (-b +- sqrt(b^2 - 4*a*c)) / (2*a)\n"),
	})
	e := NewExtractor(mock)

	got, err := e.Extract(context.Background(), fakePNG, "image/png", problems.KindFormulaDrawing)
	require.NoError(t, err)
	assert.Equal(t, "x = (-b +- sqrt(b^2 - 4*a*c)) / (2*a)", got)

	require.Len(t, mock.Calls, 1)
	msg := mock.Calls[0].Messages[0]
	assert.Contains(t, msg.Content, "Transcribe")
	require.Len(t, msg.Images, 1)
	assert.Equal(t, "image/png", msg.Images[0].MediaType)
	assert.Equal(t, fakePNG, msg.Images[0].Data)
}

func TestExtractGraphInstruction(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("upward parabola with vertex at (0, 0), passing through (1, 1) and (-1, 1)"),
	})
	e := NewExtractor(mock)

	got, err := e.Extract(context.Background(), fakePNG, "image/png", problems.KindGraphing)
	require.NoError(t, err)
	assert.Contains(t, got, "parabola")

	require.Len(t, mock.Calls, 1)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "shape")
}

func TestExtractCoercesMediaType(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("2x + 1"),
	}, llm.MockResponse{
		Content: json.RawMessage("2x + 1"),
	})
	e := NewExtractor(mock)

	_, err := e.Extract(context.Background(), fakePNG, "image/bmp", problems.KindFormulaDrawing)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mock.Calls[0].Messages[0].Images[0].MediaType)

	_, err = e.Extract(context.Background(), fakePNG, "", problems.KindFormulaDrawing)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mock.Calls[1].Messages[0].Images[0].MediaType)
}

func TestExtractKeepsSupportedMediaType(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: json.RawMessage("y = x"),
	})
	e := NewExtractor(mock)

	_, err := e.Extract(context.Background(), fakePNG, "image/jpeg", problems.KindGraphing)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mock.Calls[0].Messages[0].Images[0].MediaType)
}

func TestExtractMissingImage(t *testing.T) {
	e := NewExtractor(llm.NewMockProvider())

	_, err := e.Extract(context.Background(), nil, "image/png", problems.KindFormulaDrawing)
	assert.ErrorIs(t, err, ErrNoImage)
}

func TestExtractProviderError(t *testing.T) {
	e := NewExtractor(llm.NewMockProvider())

	_, err := e.Extract(context.Background(), fakePNG, "image/png", problems.KindFormulaDrawing)
	require.Error(t, err)

	var unavailable *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavailable)
}
