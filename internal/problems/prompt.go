package problems

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a math tutor creating practice problems for a learner.

Rules:
- Generate a single math problem for the given topic and difficulty.
- Use plain ASCII text for all math. No LaTeX, no Unicode symbols. Use / for fractions, * for multiplication, and standard operators.
- The problem text must be clear and self-contained.
- The answer must be correct and in simplest form (reduce fractions, no trailing zeros on decimals).
- The solution must show the steps in markdown, one step per line.
- Respond ONLY with the structured object. No commentary before or after.`

// kindInstructions holds the kind-specific formatting rules appended to
// the user message.
var kindInstructions = map[Kind]string{
	KindText: `Kind: text
The learner types the answer. The answer must be a number or a short simplified expression.
Leave "options" as an empty array.`,

	KindMultipleChoice: `Kind: multiple_choice
Provide exactly 3 answer options where exactly one is correct. Distractors should reflect common mistakes, not random values.
Set "answer" to the label of the correct option: A, B or C.`,

	KindFormulaDrawing: `Kind: formula_drawing
Ask the learner to draw or write a mathematical expression (for example, "Write the quadratic formula"). The answer is the expected expression in plain ASCII.
Leave "options" as an empty array.`,

	KindGraphing: `Kind: graphing
Ask the learner to graph a function or relation (for example, "Graph y = x^2 - 4"). The answer describes the expected graph: shape, key points, intercepts.
Leave "options" as an empty array.`,
}

// buildUserMessage constructs the generation request for a topic, an
// effective difficulty, and a kind.
func buildUserMessage(topic string, difficulty int, kind Kind) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Difficulty: %s (level %d/10)\n", DifficultyBand(difficulty), difficulty)
	b.WriteString("\n")
	b.WriteString(kindInstructions[kind])

	return b.String()
}
