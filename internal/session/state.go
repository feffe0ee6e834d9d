// Package session owns the courtroom session lifecycle: flagging,
// session start, polling, and reset. All session and view state lives
// in one container mutated only through Driver operations; rendering
// is a projection subscribed to state changes.
package session

import (
	"time"

	"github.com/openveritas/cybercourt/internal/model"
)

// View selects which of the two top-level views is visible.
type View int

const (
	// ViewFlagging shows the post-flagging form.
	ViewFlagging View = iota
	// ViewCourtroom shows the live courtroom session.
	ViewCourtroom
)

func (v View) String() string {
	if v == ViewCourtroom {
		return "courtroom"
	}
	return "flagging"
}

// Activity is one line of the transient activity log.
type Activity struct {
	Time    time.Time
	Message string
	IsError bool
}

// State is the full client-side state snapshot handed to observers.
// Observers receive a copy; mutation happens only inside the Driver.
type State struct {
	View      View
	CaseID    string
	Session   model.SessionState
	Busy      bool
	ErrorText string
	Activity  []Activity
	Polling   bool
}

func initialState() State {
	return State{
		View:    ViewFlagging,
		Session: model.NewIdleSession(),
	}
}

// clone returns a deep-enough copy for observers: the slices and maps
// an observer could retain are duplicated.
func (s State) clone() State {
	out := s
	out.Activity = append([]Activity(nil), s.Activity...)
	out.Session.Transcript = append([]model.TranscriptEntry(nil), s.Session.Transcript...)
	agents := make(map[string]string, len(s.Session.AgentsStatus))
	for k, v := range s.Session.AgentsStatus {
		agents[k] = v
	}
	out.Session.AgentsStatus = agents
	return out
}
