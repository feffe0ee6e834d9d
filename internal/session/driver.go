package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/openveritas/cybercourt/internal/courtapi"
	"github.com/openveritas/cybercourt/internal/identity"
	"github.com/openveritas/cybercourt/internal/logging"
	"github.com/openveritas/cybercourt/internal/model"
)

// Backend is the slice of the courtroom API the driver needs.
type Backend interface {
	FlagPost(ctx context.Context, req courtapi.FlagPostRequest) (courtapi.FlagPostResponse, error)
	StartSession(ctx context.Context, caseID string) (courtapi.StartSessionResponse, error)
	Updates(ctx context.Context, caseID string) (model.SessionState, error)
}

// ErrNoCaseSelected is returned by Start when no case is bound.
var ErrNoCaseSelected = errors.New("no case selected")

// ErrSessionActive is returned by Start while a previous session is
// still polling. Callers must Reset before rebinding.
var ErrSessionActive = errors.New("a courtroom session is already active")

// FlagOutcome is the result of a successful flagging call.
type FlagOutcome struct {
	CaseID            string
	Message           string
	CaseStatus        string
	ViolationDetected bool
}

// Driver owns the courtroom session lifecycle for at most one bound
// case. Every mutation funnels through its operations and is published
// to subscribers as an immutable state snapshot.
type Driver struct {
	backend  Backend
	userID   string
	interval time.Duration
	log      zerolog.Logger

	mu         sync.Mutex
	state      State
	poller     *poller
	generation int
	observers  map[int]func(State)
	nextObsID  int
}

// NewDriver constructs a driver. userID is the resolved install
// identity; flagging refuses with identity.ErrNotReady while empty.
func NewDriver(backend Backend, userID string, pollInterval time.Duration) *Driver {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}
	return &Driver{
		backend:   backend,
		userID:    userID,
		interval:  pollInterval,
		log:       logging.Component("session"),
		state:     initialState(),
		observers: map[int]func(State){},
	}
}

// Subscribe registers an observer called with a state copy after every
// mutation. The returned function unsubscribes.
func (d *Driver) Subscribe(fn func(State)) func() {
	d.mu.Lock()
	id := d.nextObsID
	d.nextObsID++
	d.observers[id] = fn
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		delete(d.observers, id)
		d.mu.Unlock()
	}
}

// State returns a copy of the current state.
func (d *Driver) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.clone()
}

// FlagPost validates the form, submits it for initial analysis, and on
// a detected violation binds the returned case and switches to the
// courtroom view with a fresh IDLE session.
func (d *Driver) FlagPost(ctx context.Context, in FlagInput) (FlagOutcome, error) {
	if err := identity.Require(d.userID); err != nil {
		return FlagOutcome{}, err
	}
	if err := in.validate(); err != nil {
		return FlagOutcome{}, err
	}

	d.mutate(func(s *State) {
		s.Busy = true
		s.ErrorText = ""
	})
	defer d.mutate(func(s *State) { s.Busy = false })

	resp, err := d.backend.FlagPost(ctx, courtapi.FlagPostRequest{
		PostContent:      strings.TrimSpace(in.Content),
		VictimInfo:       strings.TrimSpace(in.VictimInfo),
		UserID:           d.userID,
		PostLink:         strings.TrimSpace(in.Link),
		VictimEthAddress: strings.TrimSpace(in.VictimAddress),
	})
	if err != nil {
		d.mutate(func(s *State) {
			s.ErrorText = err.Error()
			s.Activity = append(s.Activity, Activity{Time: time.Now(), Message: "flagging failed: " + err.Error(), IsError: true})
		})
		return FlagOutcome{}, err
	}

	outcome := FlagOutcome{
		CaseID:            resp.CaseID,
		Message:           resp.Message,
		CaseStatus:        resp.CaseDetails.Status,
		ViolationDetected: resp.ViolationDetected(),
	}
	d.mutate(func(s *State) {
		s.Activity = append(s.Activity, Activity{Time: time.Now(), Message: resp.Message})
		if outcome.ViolationDetected {
			s.View = ViewCourtroom
			s.CaseID = resp.CaseID
			s.Session = model.NewIdleSession()
			s.Session.CaseID = resp.CaseID
		}
	})
	d.log.Info().Str("case_id", resp.CaseID).Bool("violation", outcome.ViolationDetected).Msg("post flagged")
	return outcome, nil
}

// Bind attaches an existing case and switches to the courtroom view
// with a fresh IDLE session. Any previous session is reset first, so
// rebinding over an active session is safe.
func (d *Driver) Bind(caseID string) {
	d.Reset()
	d.mutate(func(s *State) {
		s.View = ViewCourtroom
		s.CaseID = caseID
		s.Session = model.NewIdleSession()
		s.Session.CaseID = caseID
	})
}

// Start initiates the courtroom session for the bound case and begins
// polling. On backend failure the session lands in ERROR and polling
// never starts.
func (d *Driver) Start(ctx context.Context) error {
	d.mu.Lock()
	caseID := d.state.CaseID
	active := d.poller != nil
	d.mu.Unlock()
	if caseID == "" {
		return ErrNoCaseSelected
	}
	if active {
		return ErrSessionActive
	}

	resp, err := d.backend.StartSession(ctx, caseID)
	if err != nil {
		d.mutate(func(s *State) {
			s.Session.CourtStatus = model.StatusError
			s.Session.ErrorMessage = err.Error()
			s.ErrorText = err.Error()
			s.Activity = append(s.Activity, Activity{Time: time.Now(), Message: "start session failed: " + err.Error(), IsError: true})
		})
		return err
	}

	d.mu.Lock()
	d.state.Session.CourtStatus = model.StatusStarting
	d.state.Polling = true
	d.state.Activity = append(d.state.Activity, Activity{Time: time.Now(), Message: resp.Message})
	gen := d.generation
	d.poller = startPoller(d.interval, func(ctx context.Context) bool {
		return d.pollStep(ctx, caseID, gen)
	})
	st := d.state.clone()
	d.mu.Unlock()
	d.notify(st)
	d.log.Info().Str("case_id", caseID).Msg("courtroom session started")
	return nil
}

// pollStep is one poll tick. It reports whether polling should
// continue. The snapshot replaces local session state wholesale; on
// transport failure the session is forced to ERROR and polling halts.
func (d *Driver) pollStep(ctx context.Context, caseID string, gen int) bool {
	snapshot, err := d.backend.Updates(ctx, caseID)

	d.mu.Lock()
	if gen != d.generation {
		// A reset or rebind happened while this call was in flight;
		// the response belongs to a dead session.
		d.mu.Unlock()
		return false
	}
	if err != nil {
		if ctx.Err() != nil {
			d.mu.Unlock()
			return false
		}
		d.state.Session.CourtStatus = model.StatusError
		d.state.Session.ErrorMessage = err.Error()
		d.state.ErrorText = err.Error()
		d.state.Polling = false
		d.poller = nil
		d.state.Activity = append(d.state.Activity, Activity{Time: time.Now(), Message: "poll failed: " + err.Error(), IsError: true})
		st := d.state.clone()
		d.mu.Unlock()
		d.notify(st)
		d.log.Warn().Err(err).Str("case_id", caseID).Msg("poll failed, session marked ERROR")
		return false
	}

	d.state.Session = snapshot
	terminal := snapshot.CourtStatus.Terminal()
	if terminal {
		d.state.Polling = false
		d.poller = nil
	}
	st := d.state.clone()
	d.mu.Unlock()
	d.notify(st)
	if terminal {
		d.log.Info().Str("case_id", caseID).Str("status", string(snapshot.CourtStatus)).Msg("session reached terminal status")
	}
	return !terminal
}

// Reset unconditionally stops polling, unbinds the case, restores the
// IDLE snapshot, and returns to the flagging view. Idempotent and safe
// at any time, including with no active session.
func (d *Driver) Reset() {
	d.mu.Lock()
	d.generation++
	p := d.poller
	d.poller = nil
	d.state.View = ViewFlagging
	d.state.CaseID = ""
	d.state.Session = model.NewIdleSession()
	d.state.ErrorText = ""
	d.state.Busy = false
	d.state.Polling = false
	st := d.state.clone()
	d.mu.Unlock()

	// Outside the lock: an in-flight poll step needs the lock to
	// notice its generation is stale.
	p.stop()
	d.notify(st)
}

// mutate applies fn under the lock and publishes the result.
func (d *Driver) mutate(fn func(*State)) {
	d.mu.Lock()
	fn(&d.state)
	st := d.state.clone()
	d.mu.Unlock()
	d.notify(st)
}

func (d *Driver) notify(st State) {
	d.mu.Lock()
	fns := make([]func(State), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn(st)
	}
}
