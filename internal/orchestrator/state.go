// Package orchestrator drives one assessment attempt from profile entry to
// the final report. It is the single owner of the current stage.
package orchestrator

import "fmt"

// State is a stage of the assessment flow
type State int

// Assessment states
const (
	Idle State = iota
	CollectingProfile
	GeneratingQuestions
	Testing
	Scoring
	GeneratingReport
	ReportReady
	// Failed is never held; it only appears in transition events on the way back to Idle.
	Failed
)

var stateNames = map[State]string{
	Idle:                "idle",
	CollectingProfile:   "collecting_profile",
	GeneratingQuestions: "generating_questions",
	Testing:             "testing",
	Scoring:             "scoring",
	GeneratingReport:    "generating_report",
	ReportReady:         "report_ready",
	Failed:              "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Busy reports whether a service call is pending in this state.
func (s State) Busy() bool {
	return s == GeneratingQuestions || s == GeneratingReport
}
