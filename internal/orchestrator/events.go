package orchestrator

import "time"

// Transition is emitted for every state change
type Transition struct {
	From       State     `json:"from"`
	To         State     `json:"to"`
	Reason     string    `json:"reason,omitempty"`
	AttemptID  string    `json:"attempt_id,omitempty"`
	Generation uint64    `json:"generation"`
	At         time.Time `json:"at"`
}

// TransitionCallback is called after the orchestrator releases its lock
type TransitionCallback func(event Transition)
