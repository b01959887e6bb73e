package reply

import (
	"errors"
	"testing"
)

func TestExtractObject_Plain(t *testing.T) {
	raw, err := ExtractObject(`{"a": 1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"a": 1}` {
		t.Errorf("unexpected raw: %s", raw)
	}
}

func TestExtractObject_Fenced(t *testing.T) {
	text := "```json\n{\"prompt\": \"What is 2 + 2?\", \"answer\": \"4\"}\n```"
	raw, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"prompt": "What is 2 + 2?", "answer": "4"}` {
		t.Errorf("unexpected raw: %s", raw)
	}
}

func TestExtractObject_SurroundingProse(t *testing.T) {
	text := "Sure! Here is the problem:\n{\"answer\": \"7\"}\nLet me know if you need more."
	raw, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"answer": "7"}` {
		t.Errorf("unexpected raw: %s", raw)
	}
}

func TestExtractObject_NestedBraces(t *testing.T) {
	text := `{"outer": {"inner": true}}`
	raw, err := ExtractObject(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != text {
		t.Errorf("unexpected raw: %s", raw)
	}
}

func TestExtractObject_Truncated(t *testing.T) {
	_, err := ExtractObject(`{"prompt": "What is`)
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestExtractObject_NoObject(t *testing.T) {
	_, err := ExtractObject("I cannot help with that.")
	if !errors.Is(err, ErrNoObject) {
		t.Errorf("expected ErrNoObject, got %v", err)
	}
}

func TestExtractObject_InvalidJSON(t *testing.T) {
	if _, err := ExtractObject(`{"a": }`); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestUnmarshal(t *testing.T) {
	var out struct {
		Critique   string  `json:"critique"`
		Confidence float64 `json:"confidence"`
	}
	text := "```\n{\"critique\": \"solid\", \"confidence\": 0.9}\n```"
	if err := Unmarshal(text, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Critique != "solid" || out.Confidence != 0.9 {
		t.Errorf("unexpected decode: %+v", out)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"no fences", "no fences"},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range tests {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("StripFences(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestField(t *testing.T) {
	text := "PROMPT: What is 3 * 4?\nANSWER: 12\nSOLUTION: Multiply."

	if v, ok := Field(text, "answer"); !ok || v != "12" {
		t.Errorf("Field(answer) = %q, %v", v, ok)
	}
	if v, ok := Field(text, "PROMPT"); !ok || v != "What is 3 * 4?" {
		t.Errorf("Field(PROMPT) = %q, %v", v, ok)
	}
	if _, ok := Field(text, "missing"); ok {
		t.Error("expected missing label to report false")
	}
}
