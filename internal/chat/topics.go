// Package chat runs the topic-selection conversation: a stateless prompt
// relay that helps the learner settle on what to practice.
package chat

import (
	"context"
	"strings"

	"github.com/mathlingo/mathlingo/internal/llm"
)

// SuggestedTopics are the starter topics offered before the conversation
// begins. Free text chosen in the chat works just as well.
var SuggestedTopics = []string{
	"Basic arithmetic (addition, subtraction, multiplication, division)",
	"Fractions and decimals",
	"Algebra and linear equations",
	"Geometry and shapes",
	"Word problems and real-world applications",
	"Mental math and quick calculations",
	"Patterns and sequences",
	"Probability and statistics",
	"Trigonometry basics",
	"Calculus fundamentals",
}

const discussSystemPrompt = `You are a helpful math tutor helping a student choose what type of math problems they want to work on.

Your goal is to:
1. Understand what math topics interest them
2. Help them articulate their preferences clearly
3. Suggest appropriate difficulty levels
4. Ask clarifying questions to better understand their needs
5. Eventually help them settle on a specific topic area

Keep responses friendly and encouraging. Ask follow-up questions to better understand their interests and skill level. Don't be too formal - be conversational and supportive.

After a few exchanges, if they seem ready, help them summarize their preferences into a clear topic description that can be used to generate problems.`

// fallbackReply is returned when the LLM call fails. The conversation
// keeps going instead of erroring out.
const fallbackReply = "I'm having trouble understanding. Could you try rephrasing that?"

// Turn is one prior exchange in the conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service relays the topic conversation to the LLM.
type Service struct {
	provider llm.Provider
}

// NewService creates a Service.
func NewService(provider llm.Provider) *Service {
	return &Service{provider: provider}
}

// Discuss sends the conversation so far plus the new message and returns
// the tutor's reply. Failures degrade to a fixed apology so the client
// never sees an error mid-conversation.
func (s *Service) Discuss(ctx context.Context, history []Turn, message string) string {
	if s.provider == nil {
		return fallbackReply
	}

	msgs := make([]llm.Message, 0, len(history)+1)
	for _, t := range history {
		role := llm.RoleUser
		if t.Role == "assistant" {
			role = llm.RoleAssistant
		}
		msgs = append(msgs, llm.Message{Role: role, Content: t.Content})
	}
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	ctx = llm.WithPurpose(ctx, "topic-chat")
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:    discussSystemPrompt,
		Messages:  msgs,
		MaxTokens: 500,
	})
	if err != nil {
		return fallbackReply
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return fallbackReply
	}
	return reply
}
