package problemstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathlingo/mathlingo/internal/problems"
)

func sample(id string) *problems.Problem {
	return &problems.Problem{
		ID:         id,
		Prompt:     "What is 6 * 6?",
		Answer:     "36",
		Solution:   "6 * 6 = 36",
		Kind:       problems.KindText,
		Difficulty: 3,
		CreatedAt:  time.Now(),
	}
}

func TestPutGet(t *testing.T) {
	s := New()
	s.Put("p1", sample("p1"))

	got, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "36", got.Answer)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	s := New()
	s.Put("p1", sample("p1"))

	updated := sample("p1")
	updated.Answer = "49"
	s.Put("p1", updated)

	got, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "49", got.Answer)
	assert.Equal(t, 1, s.Len())
}

func TestGetDropsExpired(t *testing.T) {
	s := NewWithTTL(30 * time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("p1", sample("p1"))

	s.now = func() time.Time { return base.Add(29 * time.Minute) }
	_, ok := s.Get("p1")
	assert.True(t, ok)

	s.now = func() time.Time { return base.Add(31 * time.Minute) }
	_, ok = s.Get("p1")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestPutResetsExpiry(t *testing.T) {
	s := NewWithTTL(30 * time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("p1", sample("p1"))

	s.now = func() time.Time { return base.Add(20 * time.Minute) }
	s.Put("p1", sample("p1"))

	s.now = func() time.Time { return base.Add(45 * time.Minute) }
	_, ok := s.Get("p1")
	assert.True(t, ok)
}

func TestSweep(t *testing.T) {
	s := NewWithTTL(30 * time.Minute)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("old1", sample("old1"))
	s.Put("old2", sample("old2"))

	s.now = func() time.Time { return base.Add(25 * time.Minute) }
	s.Put("fresh", sample("fresh"))

	s.now = func() time.Time { return base.Add(40 * time.Minute) }
	assert.Equal(t, 2, s.Sweep())
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("fresh")
	assert.True(t, ok)
}

func TestDelete(t *testing.T) {
	s := New()
	s.Put("p1", sample("p1"))
	s.Delete("p1")

	_, ok := s.Get("p1")
	assert.False(t, ok)
}

func TestZeroTTLNeverExpires(t *testing.T) {
	s := NewWithTTL(0)

	base := time.Now()
	s.now = func() time.Time { return base }
	s.Put("p1", sample("p1"))

	s.now = func() time.Time { return base.Add(24 * time.Hour) }
	_, ok := s.Get("p1")
	assert.True(t, ok)
	assert.Equal(t, 0, s.Sweep())
}
