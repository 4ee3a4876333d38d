package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_MarkCompletedIdempotent(t *testing.T) {
	p := NewProgress(3, nil)

	p.MarkCompleted("l1")
	p.MarkCompleted("l1")
	p.MarkCompleted("l1")

	assert.Equal(t, []string{"l1"}, p.CompletedIDs())
	assert.Equal(t, 33, p.Percentage())
}

func TestProgress_CertificateExactlyOnce(t *testing.T) {
	p := NewProgress(3, nil)

	assert.False(t, p.MarkCompleted("l1"))
	assert.False(t, p.MarkCompleted("l2"))
	assert.True(t, p.MarkCompleted("l3"))

	// once complete, re-marking never raises the signal again
	assert.False(t, p.MarkCompleted("l3"))
	assert.False(t, p.MarkCompleted("l1"))
	assert.True(t, p.IsComplete())
}

func TestProgress_Percentage(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed []string
		expected  int
	}{
		{
			name:     "empty course yields zero",
			total:    0,
			expected: 0,
		},
		{
			name:      "one of three rounds to 33",
			total:     3,
			completed: []string{"l1"},
			expected:  33,
		},
		{
			name:      "two of three rounds to 67",
			total:     3,
			completed: []string{"l1", "l2"},
			expected:  67,
		},
		{
			name:      "all completed",
			total:     3,
			completed: []string{"l1", "l2", "l3"},
			expected:  100,
		},
		{
			name:      "one of six rounds to 17",
			total:     6,
			completed: []string{"l1"},
			expected:  17,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProgress(tt.total, tt.completed)
			assert.Equal(t, tt.expected, p.Percentage())
		})
	}
}

func TestProgress_EmptyCourseNeverComplete(t *testing.T) {
	p := NewProgress(0, nil)
	assert.False(t, p.IsComplete())
	assert.False(t, p.MarkCompleted("ghost"))
}

func TestProgress_SeedCollapsesDuplicates(t *testing.T) {
	p := NewProgress(2, []string{"l1", "l1", "l2", "l2"})
	assert.Equal(t, []string{"l1", "l2"}, p.CompletedIDs())
	assert.True(t, p.IsComplete())
	assert.Equal(t, 100, p.Percentage())
}

func TestProgress_Completed(t *testing.T) {
	p := NewProgress(2, []string{"l1"})
	assert.True(t, p.Completed("l1"))
	assert.False(t, p.Completed("l2"))
}
