package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// LLMRequestEventData captures a single LLM API call for the audit log.
type LLMRequestEventData struct {
	Purpose       string
	Provider      string
	Model         string
	InputTokens   int
	OutputTokens  int
	LatencyMs     int64
	EstimatedCost float64
	Success       bool
	ErrorMessage  string
}

// LLMEvent is a persisted LLM request event.
type LLMEvent struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to LLM request events.
// The llm package's logging decorator appends here; the `mathlingo llm`
// subcommands read it back.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns the most recent events, newest first.
	QueryLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events (purpose, provider, model, input_tokens, output_tokens, latency_ms, estimated_cost, success, error_message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.Purpose, data.Provider, data.Model, data.InputTokens, data.OutputTokens,
		data.LatencyMs, data.EstimatedCost, data.Success, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("append llm event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, limit int) ([]LLMEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, purpose, provider, model, input_tokens, output_tokens, latency_ms, estimated_cost, success, error_message, created_at
		 FROM llm_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		var e LLMEvent
		if err := rows.Scan(&e.ID, &e.Purpose, &e.Provider, &e.Model,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.EstimatedCost,
			&e.Success, &e.ErrorMessage, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
