// Package model defines the case and courtroom session types shared
// across the client.
package model

import (
	"fmt"
	"time"
)

// CourtStatus is the phase label reported by the backend. The set is
// open-ended: anything that is not one of the terminal values below is
// an in-progress phase and must not be special-cased.
type CourtStatus string

// Statuses reported by the courtroom backend.
const (
	StatusIdle         CourtStatus = "IDLE"
	StatusStarting     CourtStatus = "STARTING"
	StatusOpening      CourtStatus = "OPENING_STATEMENTS"
	StatusQueryRounds  CourtStatus = "QUERY_ROUNDS"
	StatusDeliberation CourtStatus = "JURY_DELIBERATION"
	StatusVoting       CourtStatus = "VOTING"
	StatusSentencing   CourtStatus = "VERDICT_AND_SENTENCING"
	StatusCompleted    CourtStatus = "COMPLETED"
	StatusError        CourtStatus = "ERROR"
)

// Terminal reports whether the session has ended and must not be
// polled again.
func (s CourtStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Roster is the fixed set of courtroom agents, in seating order.
var Roster = []string{
	"Prosecution Lawyer",
	"Defense Lawyer",
	"Cyber Law Expert",
	"Digital Rights Activist",
	"Social Media Expert",
	"Court Judge",
	"Court Clerk",
}

// Transcript entry kinds. The backend may emit kinds outside this set;
// renderers fall back to the statement treatment for unknown kinds.
const (
	KindStatement    = "statement"
	KindVote         = "vote"
	KindQuery        = "query"
	KindAnswer       = "answer"
	KindDeliberation = "deliberation"
	KindLog          = "log"
	KindSystem       = "system"
	KindError        = "error"
)

// TranscriptEntry is one line of the public courtroom transcript.
type TranscriptEntry struct {
	AgentName string  `json:"agent_name"`
	Message   string  `json:"message"`
	Kind      string  `json:"type"`
	Timestamp float64 `json:"timestamp"`
}

// Time converts the backend's unix-seconds timestamp.
func (e TranscriptEntry) Time() time.Time {
	sec := int64(e.Timestamp)
	nsec := int64((e.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

// JuryVote is a single juror's recorded vote and sentencing
// recommendation.
type JuryVote struct {
	Vote           string         `json:"vote"`
	Recommendation map[string]any `json:"recommendation,omitempty"`
}

// Verdict is the judge's final ruling, present only once the session
// has completed. Monetary amounts arrive in ether units from the
// backend and are converted to wei for the ledger.
type Verdict struct {
	VerdictType       string  `json:"verdict_type"`
	FineEth           float64 `json:"final_fine_eth"`
	BanStatus         string  `json:"final_ban_status"`
	Explanation       string  `json:"explanation"`
	CompensationEth   float64 `json:"final_compensation_eth"`
	SocialScore       int     `json:"social_score"`
	SocialScoreReason string  `json:"social_score_explanation"`
	VictimEthAddress  string  `json:"victim_eth_address,omitempty"`
}

// WeiPerEth is the smallest-denomination conversion factor.
const WeiPerEth = 1e18

// FineWei returns the fine in wei.
func (v Verdict) FineWei() int64 { return int64(v.FineEth * WeiPerEth) }

// CompensationWei returns the victim compensation in wei.
func (v Verdict) CompensationWei() int64 { return int64(v.CompensationEth * WeiPerEth) }

// SessionState is the full courtroom session snapshot as reported by
// the backend. The client never mutates it in place: each poll
// replaces the previous snapshot wholesale.
type SessionState struct {
	CaseID           string              `json:"case_id"`
	CourtStatus      CourtStatus         `json:"court_status"`
	CurrentTurnAgent string              `json:"current_turn_agent,omitempty"`
	Transcript       []TranscriptEntry   `json:"transcript"`
	JuryVotes        map[string]JuryVote `json:"jury_votes,omitempty"`
	AgentsStatus     map[string]string   `json:"agents_status"`
	FinalVerdict     *Verdict            `json:"final_verdict,omitempty"`
	ErrorMessage     string              `json:"error_message,omitempty"`
}

// NewIdleSession returns the initial snapshot: status IDLE, empty
// transcript, empty agent-status map, no verdict, no error. Roster
// agents read as Waiting through AgentStatus until the backend
// mentions them.
func NewIdleSession() SessionState {
	return SessionState{
		CourtStatus:  StatusIdle,
		Transcript:   []TranscriptEntry{},
		AgentsStatus: map[string]string{},
	}
}

// Validate rejects snapshots that violate the session invariants. A
// verdict without COMPLETED status means the backend (or the wire) is
// lying; such a snapshot must not enter the state machine.
func (s SessionState) Validate() error {
	if s.CourtStatus == "" {
		return fmt.Errorf("session snapshot: missing court_status")
	}
	if s.FinalVerdict != nil && s.CourtStatus != StatusCompleted {
		return fmt.Errorf("session snapshot: final_verdict present but court_status is %q, want %q", s.CourtStatus, StatusCompleted)
	}
	if s.CourtStatus == StatusError && s.ErrorMessage == "" {
		return fmt.Errorf("session snapshot: status ERROR without error_message")
	}
	return nil
}

// AgentStatus returns the roster agent's reported status, defaulting
// to Waiting when the backend has not mentioned the agent yet.
func (s SessionState) AgentStatus(name string) string {
	if st, ok := s.AgentsStatus[name]; ok && st != "" {
		return st
	}
	return "Waiting"
}

// CaseRecord is one entry of the public case ledger, owned by the
// remote store. The mirror replaces its copy in full on every update.
type CaseRecord struct {
	ID               string `json:"id"`
	Timestamp        string `json:"timestamp"`
	Status           string `json:"status"`
	ViolationType    string `json:"violationType,omitempty"`
	VerdictType      string `json:"verdictType,omitempty"`
	FineWei          int64  `json:"finalFineWei,omitempty"`
	CompensationWei  int64  `json:"finalCompensationWei,omitempty"`
	SocialScore      *int   `json:"socialScore,omitempty"`
	VictimEthAddress string `json:"victimEthAddress,omitempty"`
}

// Case statuses written by the backend during initial analysis.
const (
	CaseStatusPending     = "Pending Initial Analysis"
	CaseStatusViolation   = "Violation Detected"
	CaseStatusNoViolation = "No Violation - Initial Analysis"
	CaseStatusClosed      = "Case Closed - No Violation"
	CaseStatusUnderReview = "Under Review"
)

// ObservedPost is a post captured by the page-content observer before
// any flagging decision is made.
type ObservedPost struct {
	ID        int64     `json:"id"`
	Content   string    `json:"postContent"`
	SourceURL string    `json:"sourceUrl"`
	Timestamp time.Time `json:"timestamp"`
}
