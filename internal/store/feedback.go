package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Feedback is a thumbs-up/down row referencing an attempt.
type Feedback struct {
	ID        int64
	AttemptID int64
	ThumbsUp  bool
	Comment   string
	CreatedAt time.Time
}

// FeedbackRepo provides access to the feedback audit table.
type FeedbackRepo interface {
	// Insert stores a feedback row and returns the generated id.
	// Fails if the referenced attempt does not exist.
	Insert(ctx context.Context, f Feedback) (int64, error)
}

type feedbackRepo struct {
	db *sql.DB
}

func (r *feedbackRepo) Insert(ctx context.Context, f Feedback) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (attempt_id, thumbs_up, comment) VALUES (?, ?, ?)`,
		f.AttemptID, f.ThumbsUp, f.Comment,
	)
	if err != nil {
		return 0, fmt.Errorf("insert feedback: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("feedback id: %w", err)
	}
	return id, nil
}
