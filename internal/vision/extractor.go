// Package vision turns a learner's freehand drawing into text. It only
// transcribes; grading happens downstream so the learner can review and
// edit the transcription before submitting it.
package vision

import (
	"context"
	"errors"
	"strings"

	"github.com/mathlingo/mathlingo/internal/llm"
	"github.com/mathlingo/mathlingo/internal/problems"
)

// ErrNoImage indicates the request carried no image bytes. This is a
// caller error, surfaced directly.
var ErrNoImage = errors.New("no image provided")

// defaultMediaType is substituted for unsupported or missing encodings.
const defaultMediaType = "image/png"

var supportedMediaTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

const formulaInstruction = `Transcribe the handwritten mathematical expression in this image to plain ASCII text.
Use standard operators: / for fractions, * for multiplication, ^ for exponents, sqrt() for roots.
Reply with ONLY the transcribed expression, nothing else.`

const graphInstruction = `Describe the graph sketched in this image as plain ASCII text.
State the overall shape (line, parabola, curve), the approximate vertex if any, where it crosses the axes, and any clearly marked points as (x, y) pairs.
Reply with ONLY the description, nothing else.`

// Extractor transcribes drawings via an LLM vision call.
type Extractor struct {
	provider llm.Provider
}

// NewExtractor creates an Extractor.
func NewExtractor(provider llm.Provider) *Extractor {
	return &Extractor{provider: provider}
}

// Extract sends the image with a kind-appropriate instruction and returns
// the model's reply trimmed but otherwise verbatim. An unsupported media
// type is coerced to image/png rather than rejected; missing image bytes
// are a hard error.
func (e *Extractor) Extract(ctx context.Context, image []byte, mediaType string, kind problems.Kind) (string, error) {
	if len(image) == 0 {
		return "", ErrNoImage
	}
	if e.provider == nil {
		return "", &llm.ErrProviderUnavailable{}
	}

	if !supportedMediaTypes[mediaType] {
		mediaType = defaultMediaType
	}

	instruction := formulaInstruction
	if kind == problems.KindGraphing {
		instruction = graphInstruction
	}

	ctx = llm.WithPurpose(ctx, "vision-extract")
	resp, err := e.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{
			{
				Role:    llm.RoleUser,
				Content: instruction,
				Images:  []llm.Image{{MediaType: mediaType, Data: image}},
			},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Text()), nil
}
