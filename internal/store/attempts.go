package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Attempt is one audit row per graded answer. The grading pipeline never
// reads this table; it exists for analytics and the stats endpoint.
type Attempt struct {
	ID               int64
	UserID           *string
	QuestionText     string
	StudentAnswer    string
	LLMAnswer        string
	TimeTakenSeconds *int
	Points           int
	Topic            string
	Difficulty       int
	CreatedAt        time.Time
}

// AttemptTotals aggregates the attempt log for the stats endpoint.
type AttemptTotals struct {
	Attempts    int
	TotalPoints int
}

// AttemptRepo provides access to the attempts audit table.
type AttemptRepo interface {
	// Insert stores an attempt and returns the generated row id.
	Insert(ctx context.Context, a Attempt) (int64, error)

	// Recent returns the most recent attempts, newest first.
	Recent(ctx context.Context, limit int) ([]Attempt, error)

	// Totals returns attempt count and accumulated points.
	Totals(ctx context.Context) (AttemptTotals, error)
}

type attemptRepo struct {
	db *sql.DB
}

func (r *attemptRepo) Insert(ctx context.Context, a Attempt) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO attempts (user_id, question_text, student_answer, llm_answer, time_taken_seconds, points, topic, difficulty)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.QuestionText, a.StudentAnswer, a.LLMAnswer,
		a.TimeTakenSeconds, a.Points, a.Topic, a.Difficulty,
	)
	if err != nil {
		return 0, fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("attempt id: %w", err)
	}
	return id, nil
}

func (r *attemptRepo) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, question_text, student_answer, llm_answer, time_taken_seconds, points, topic, difficulty, created_at
		 FROM attempts ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionText, &a.StudentAnswer,
			&a.LLMAnswer, &a.TimeTakenSeconds, &a.Points, &a.Topic, &a.Difficulty, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *attemptRepo) Totals(ctx context.Context) (AttemptTotals, error) {
	var t AttemptTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(points), 0) FROM attempts`,
	).Scan(&t.Attempts, &t.TotalPoints)
	if err != nil {
		return AttemptTotals{}, fmt.Errorf("attempt totals: %w", err)
	}
	return t, nil
}
