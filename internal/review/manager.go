package review

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"scopeline/workbench/internal/api"
	"scopeline/workbench/internal/util"
)

// assistant is the chat side of the backend: one request, one reply.
type assistant interface {
	ReviewTurn(ctx context.Context, req api.ReviewTurnRequest) (api.ReviewTurnReply, error)
}

// Manager drives review sessions against a Store and the assistant.
type Manager struct {
	store     Store
	assistant assistant
	maxTurns  int
	log       *zap.Logger
}

func NewManager(store Store, assistant assistant, maxTurns int, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, assistant: assistant, maxTurns: maxTurns, log: log}
}

// Start opens a new session on the given prototype page.
func (m *Manager) Start(ctx context.Context, projectID, prototypeID, page string) (Session, error) {
	session := Session{
		ID:          util.NewID("rev"),
		ProjectID:   projectID,
		PrototypeID: prototypeID,
		CurrentPage: page,
		MaxTurns:    m.maxTurns,
	}
	session.append(Entry{Kind: EntryPageChange, Page: page})
	if err := m.store.Save(ctx, session); err != nil {
		return Session{}, fmt.Errorf("save new session: %w", err)
	}
	m.log.Info("review session started",
		zap.String("session", session.ID),
		zap.String("prototype", prototypeID),
		zap.String("page", page))
	return session, nil
}

// Say sends one reviewer message and returns the assistant's reply.
// The user message is kept in the transcript even when the turn budget
// is already spent or the assistant call fails.
func (m *Manager) Say(ctx context.Context, sessionID, message string) (string, Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return "", Session{}, err
	}

	session.AppendUser(message)
	if session.RemainingTurns() == 0 {
		if err := m.store.Save(ctx, session); err != nil {
			return "", Session{}, fmt.Errorf("save session: %w", err)
		}
		return "", session, ErrTurnLimit
	}

	reply, err := m.assistant.ReviewTurn(ctx, api.ReviewTurnRequest{
		SessionID:      session.ID,
		ProjectID:      session.ProjectID,
		PrototypeID:    session.PrototypeID,
		Page:           session.CurrentPage,
		Message:        message,
		RemainingTurns: session.RemainingTurns(),
	})
	if err != nil {
		if serr := m.store.Save(ctx, session); serr != nil {
			m.log.Warn("save after failed turn", zap.Error(serr))
		}
		return "", session, fmt.Errorf("assistant turn: %w", err)
	}

	if err := session.AppendAssistant(reply.Reply); err != nil {
		return "", session, err
	}
	if err := m.store.Save(ctx, session); err != nil {
		return "", Session{}, fmt.Errorf("save session: %w", err)
	}
	return reply.Reply, session, nil
}

// ChangePage moves the session to another prototype page.
func (m *Manager) ChangePage(ctx context.Context, sessionID, page string) (Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	session.ChangePage(page)
	if err := m.store.Save(ctx, session); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// RecordVerdict stores a page verdict.
func (m *Manager) RecordVerdict(ctx context.Context, sessionID, page string, verdict Verdict, comment string) (Session, error) {
	session, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}
	session.RecordVerdict(page, verdict, comment)
	if err := m.store.Save(ctx, session); err != nil {
		return Session{}, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// End deletes the session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.store.Delete(ctx, sessionID)
}

// Get loads a session without modifying it.
func (m *Manager) Get(ctx context.Context, sessionID string) (Session, error) {
	return m.store.Get(ctx, sessionID)
}
