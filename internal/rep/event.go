package rep

// EventKind discriminates the single discrete event a frame may emit.
type EventKind string

const (
	// EventHardReset fires when an inactivity watchdog trips; all session
	// state has been zeroed.
	EventHardReset EventKind = "hard_reset"
	// EventCorrect fires when a rep resolves as correct; Count carries the
	// new total.
	EventCorrect EventKind = "correct"
	// EventIncorrect fires when an open rep attempt resolves as incorrect.
	EventIncorrect EventKind = "incorrect"
)

// Event is the discrete outcome of processing one frame. At most one fires
// per frame, with hard-reset taking priority over correct over incorrect.
type Event struct {
	Kind  EventKind `json:"kind"`
	Count int       `json:"count,omitempty"`
}
