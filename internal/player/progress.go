package player

import "math"

// Progress tracks the set of completed lesson ids against a fixed total.
// Membership is what matters; the insertion order is kept only so persisted
// snapshots stay byte-stable across save/load cycles.
type Progress struct {
	total     int
	order     []string
	completed map[string]struct{}
}

// NewProgress creates a tracker for a course with the given lesson total,
// pre-populated from a persisted completed set. Ids appearing more than once
// are collapsed.
func NewProgress(total int, completedIDs []string) *Progress {
	p := &Progress{
		total:     total,
		completed: make(map[string]struct{}, len(completedIDs)),
	}
	for _, id := range completedIDs {
		p.MarkCompleted(id)
	}
	return p
}

// MarkCompleted records a lesson as completed. Re-marking an already
// completed lesson is a no-op. The return value reports whether this call
// was the one that completed the whole course, so the caller can surface
// the certificate exactly once.
func (p *Progress) MarkCompleted(id string) bool {
	if _, ok := p.completed[id]; ok {
		return false
	}
	p.completed[id] = struct{}{}
	p.order = append(p.order, id)
	return p.IsComplete()
}

// Completed reports whether the lesson id is in the completed set
func (p *Progress) Completed(id string) bool {
	_, ok := p.completed[id]
	return ok
}

// CompletedIDs returns the completed lesson ids in completion order
func (p *Progress) CompletedIDs() []string {
	ids := make([]string, len(p.order))
	copy(ids, p.order)
	return ids
}

// Percentage returns the rounded completion percentage. An empty course
// yields 0, never a division by zero.
func (p *Progress) Percentage() int {
	if p.total == 0 {
		return 0
	}
	return int(math.Round(float64(len(p.completed)) / float64(p.total) * 100))
}

// IsComplete reports whether every lesson has been completed
func (p *Progress) IsComplete() bool {
	return p.total > 0 && len(p.completed) == p.total
}
