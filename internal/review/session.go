// Package review implements the prototype review session: a
// turn-limited chat with the assistant, tracked per prototype page,
// with page-change markers and per-page verdicts.
package review

import (
	"errors"
	"time"
)

// ErrTurnLimit is returned once the session has used all assistant
// turns. The transcript stays readable; only new turns are refused.
var ErrTurnLimit = errors.New("review session turn limit reached")

// Verdict is the reviewer's call on one prototype page.
type Verdict string

const (
	VerdictApproved     Verdict = "approved"
	VerdictRejected     Verdict = "rejected"
	VerdictNeedsChanges Verdict = "needs_changes"
)

var AllowedVerdicts = map[Verdict]struct{}{
	VerdictApproved:     {},
	VerdictRejected:     {},
	VerdictNeedsChanges: {},
}

// EntryKind discriminates transcript entries.
type EntryKind string

const (
	EntryUser       EntryKind = "user"
	EntryAssistant  EntryKind = "assistant"
	EntryPageChange EntryKind = "page_change"
	EntryVerdict    EntryKind = "verdict"
)

// Entry is one transcript item. Page is the page the entry was made on.
type Entry struct {
	Kind EntryKind `json:"kind"`
	Body string    `json:"body,omitempty"`
	Page string    `json:"page"`
	At   time.Time `json:"at"`
}

// PageVerdict is the recorded outcome for one page.
type PageVerdict struct {
	Verdict Verdict   `json:"verdict"`
	Comment string    `json:"comment,omitempty"`
	At      time.Time `json:"at"`
}

// Session is one reviewer's pass over a prototype.
type Session struct {
	ID             string                 `json:"id"`
	ProjectID      string                 `json:"projectId"`
	PrototypeID    string                 `json:"prototypeId"`
	CurrentPage    string                 `json:"currentPage"`
	MaxTurns       int                    `json:"maxTurns"`
	AssistantTurns int                    `json:"assistantTurns"`
	Entries        []Entry                `json:"entries"`
	Verdicts       map[string]PageVerdict `json:"verdicts"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// RemainingTurns is how many assistant replies the session has left.
func (s *Session) RemainingTurns() int {
	left := s.MaxTurns - s.AssistantTurns
	if left < 0 {
		return 0
	}
	return left
}

// AppendUser records a reviewer message on the current page.
func (s *Session) AppendUser(body string) {
	s.append(Entry{Kind: EntryUser, Body: body, Page: s.CurrentPage})
}

// AppendAssistant records an assistant reply and spends one turn.
// Fails once the turn budget is exhausted.
func (s *Session) AppendAssistant(body string) error {
	if s.RemainingTurns() == 0 {
		return ErrTurnLimit
	}
	s.AssistantTurns++
	s.append(Entry{Kind: EntryAssistant, Body: body, Page: s.CurrentPage})
	return nil
}

// ChangePage moves the session to another prototype page and drops a
// marker into the transcript. Re-selecting the current page is a no-op.
func (s *Session) ChangePage(page string) {
	if page == s.CurrentPage {
		return
	}
	s.CurrentPage = page
	s.append(Entry{Kind: EntryPageChange, Page: page})
}

// RecordVerdict stores the reviewer's verdict for a page. The latest
// verdict per page wins.
func (s *Session) RecordVerdict(page string, verdict Verdict, comment string) {
	if _, ok := AllowedVerdicts[verdict]; !ok {
		return
	}
	if s.Verdicts == nil {
		s.Verdicts = make(map[string]PageVerdict)
	}
	now := time.Now()
	s.Verdicts[page] = PageVerdict{Verdict: verdict, Comment: comment, At: now}
	s.append(Entry{Kind: EntryVerdict, Body: string(verdict) + ": " + comment, Page: page})
}

func (s *Session) append(e Entry) {
	e.At = time.Now()
	s.Entries = append(s.Entries, e)
	s.UpdatedAt = e.At
}
