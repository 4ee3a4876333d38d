package models

// SnapshotVersion is the current schema version of persisted snapshots.
// Snapshots with a different version are discarded on load.
const SnapshotVersion = 1

// Snapshot represents the persisted state of an in-progress course. The
// course, the completed set and the current lesson pointer form one
// consistency unit and are always stored and loaded together.
type Snapshot struct {
	Version          int      `json:"version"`
	Course           *Course  `json:"course"`
	CompletedLessons []string `json:"completedLessons"`
	CurrentLessonID  string   `json:"currentLessonId,omitempty"`
}
