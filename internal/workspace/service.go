// Package workspace owns the live snapshot for one project view and
// reconciles optimistic local changes with the backend.
//
// Every mutation is apply-then-send: the snapshot changes synchronously
// before the network call goes out. On failure the whole snapshot is
// reloaded from the server, discarding every unsaved optimistic change
// since the last successful load. The rollback is deliberately coarse;
// the server is always the source of truth.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"scopeline/workbench/internal/api"
	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/session"
)

// ErrPartialConfirm is returned when a batch confirm updated fewer rows
// than requested. Treated exactly like a failure: full reload.
var ErrPartialConfirm = errors.New("batch confirm updated fewer entities than requested")

// ErrNotLoaded is returned when a mutation runs before the first Load.
var ErrNotLoaded = errors.New("workspace not loaded")

type apiClient interface {
	GetWorkspace(ctx context.Context, projectID string) (brd.WorkspaceSnapshot, error)
	BatchConfirmEntities(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error)
	UpdateFeaturePriority(ctx context.Context, projectID, featureID string, group brd.PriorityGroup) error
	UpdateProjectVision(ctx context.Context, projectID, text string) error
	UpdateProjectBackground(ctx context.Context, projectID, text string) error
	UpdateCanvasRole(ctx context.Context, projectID, personaID string, role brd.CanvasRole) error
	RefreshStaleEntity(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) error
	GetBRDHealth(ctx context.Context, projectID string) (brd.HealthData, error)
	ProcessCascades(ctx context.Context, projectID string) error
	GetImpactAnalysis(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) (api.ImpactAnalysis, error)
	AnswerOpenQuestion(ctx context.Context, projectID, questionID, answer string) error
	DismissOpenQuestion(ctx context.Context, projectID, questionID string) error
	InviteMember(ctx context.Context, projectID, email, role string) error
}

// recorder receives each successfully loaded snapshot, for local
// history. A nil recorder disables recording; recorder failures never
// fail the load.
type recorder interface {
	RecordSnapshot(projectID string, snap brd.WorkspaceSnapshot, message string) error
}

// Service is the single writer of one project's snapshot.
type Service struct {
	api       apiClient
	recorder  recorder
	sess      session.Context
	projectID string
	log       *zap.Logger

	mu     sync.Mutex
	snap   brd.WorkspaceSnapshot
	health brd.HealthData
	loaded bool
}

func New(client apiClient, sess session.Context, projectID string, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{api: client, sess: sess, projectID: projectID, log: log}
}

// WithRecorder attaches a snapshot history recorder.
func (s *Service) WithRecorder(r recorder) *Service {
	s.recorder = r
	return s
}

// Load fetches the snapshot and health payload from the server,
// replacing any local state.
func (s *Service) Load(ctx context.Context) error {
	return s.reload(ctx, "load workspace")
}

func (s *Service) reload(ctx context.Context, message string) error {
	snap, err := s.api.GetWorkspace(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("fetch workspace: %w", err)
	}
	health, err := s.api.GetBRDHealth(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("fetch health: %w", err)
	}

	s.mu.Lock()
	s.snap = snap
	s.health = health
	s.loaded = true
	s.mu.Unlock()

	if s.recorder != nil {
		if rerr := s.recorder.RecordSnapshot(s.projectID, snap, message); rerr != nil {
			s.log.Warn("snapshot history record failed", zap.Error(rerr))
		}
	}
	return nil
}

// Snapshot returns a deep copy of the current snapshot.
func (s *Service) Snapshot() brd.WorkspaceSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Health returns the last fetched health payload.
func (s *Service) Health() brd.HealthData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

// Metrics derives the workspace health metrics from current state.
func (s *Service) Metrics() brd.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return brd.ComputeMetrics(s.snap, s.health)
}

// OpenQuestions lists the questions still open.
func (s *Service) OpenQuestions() []brd.OpenQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Open()
}

// confirmStatus maps the session role to the status a confirm produces.
func (s *Service) confirmStatus() brd.ConfirmationStatus {
	if s.sess.EffectiveRole() == session.RoleClient {
		return brd.StatusConfirmedClient
	}
	return brd.StatusConfirmedConsultant
}

// ConfirmEntity optimistically confirms one entity, then tells the
// server. Confirming an already-confirmed entity is a safe no-op
// round trip.
func (s *Service) ConfirmEntity(ctx context.Context, entityType brd.EntityType, id string) error {
	status := s.confirmStatus()
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.SetConfirmation(snap, entityType, id, status)
	}); err != nil {
		return err
	}
	return s.send(ctx, "confirm entity", func(ctx context.Context) error {
		updated, err := s.api.BatchConfirmEntities(ctx, s.projectID, entityType, []string{id}, status)
		if err != nil {
			return err
		}
		if updated < 1 {
			return ErrPartialConfirm
		}
		return nil
	})
}

// MarkNeedsReview optimistically sends one entity back for client
// review.
func (s *Service) MarkNeedsReview(ctx context.Context, entityType brd.EntityType, id string) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.MarkNeedsReview(snap, entityType, id)
	}); err != nil {
		return err
	}
	return s.send(ctx, "mark needs review", func(ctx context.Context) error {
		updated, err := s.api.BatchConfirmEntities(ctx, s.projectID, entityType, []string{id}, brd.StatusNeedsClient)
		if err != nil {
			return err
		}
		if updated < 1 {
			return ErrPartialConfirm
		}
		return nil
	})
}

// ConfirmAll batch-confirms the listed entities. A partial server
// result (fewer updated rows than ids) counts as failure and reloads.
func (s *Service) ConfirmAll(ctx context.Context, entityType brd.EntityType, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	status := s.confirmStatus()
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.ConfirmAll(snap, entityType, ids, status)
	}); err != nil {
		return err
	}
	return s.send(ctx, "batch confirm", func(ctx context.Context) error {
		updated, err := s.api.BatchConfirmEntities(ctx, s.projectID, entityType, ids, status)
		if err != nil {
			return err
		}
		if updated < len(ids) {
			return fmt.Errorf("%w: %d of %d", ErrPartialConfirm, updated, len(ids))
		}
		return nil
	})
}

// MovePriority moves a feature to another MoSCoW group.
func (s *Service) MovePriority(ctx context.Context, featureID string, group brd.PriorityGroup) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.MovePriority(snap, featureID, group)
	}); err != nil {
		return err
	}
	return s.send(ctx, "move priority", func(ctx context.Context) error {
		return s.api.UpdateFeaturePriority(ctx, s.projectID, featureID, group)
	})
}

// SetVision replaces the project vision.
func (s *Service) SetVision(ctx context.Context, text string) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.UpdateVision(snap, text)
	}); err != nil {
		return err
	}
	return s.send(ctx, "update vision", func(ctx context.Context) error {
		return s.api.UpdateProjectVision(ctx, s.projectID, text)
	})
}

// SetBackground replaces the project background.
func (s *Service) SetBackground(ctx context.Context, text string) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.UpdateBackground(snap, text)
	}); err != nil {
		return err
	}
	return s.send(ctx, "update background", func(ctx context.Context) error {
		return s.api.UpdateProjectBackground(ctx, s.projectID, text)
	})
}

// SetCanvasRole sets or clears a persona's canvas role.
func (s *Service) SetCanvasRole(ctx context.Context, personaID string, role brd.CanvasRole) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.UpdateCanvasRole(snap, personaID, role)
	}); err != nil {
		return err
	}
	return s.send(ctx, "update canvas role", func(ctx context.Context) error {
		return s.api.UpdateCanvasRole(ctx, s.projectID, personaID, role)
	})
}

// AnswerQuestion marks an open question answered; it drops out of the
// open view immediately.
func (s *Service) AnswerQuestion(ctx context.Context, questionID, answer string) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.SetQuestionStatus(snap, questionID, brd.QuestionAnswered)
	}); err != nil {
		return err
	}
	return s.send(ctx, "answer question", func(ctx context.Context) error {
		return s.api.AnswerOpenQuestion(ctx, s.projectID, questionID, answer)
	})
}

// DismissQuestion dismisses an open question.
func (s *Service) DismissQuestion(ctx context.Context, questionID string) error {
	if err := s.apply(func(snap brd.WorkspaceSnapshot) brd.WorkspaceSnapshot {
		return brd.SetQuestionStatus(snap, questionID, brd.QuestionDismissed)
	}); err != nil {
		return err
	}
	return s.send(ctx, "dismiss question", func(ctx context.Context) error {
		return s.api.DismissOpenQuestion(ctx, s.projectID, questionID)
	})
}

// RefreshStale asks the server to re-derive one stale entity, then
// reloads so the cleared isStale flag lands locally. Staleness is only
// ever cleared server-side.
func (s *Service) RefreshStale(ctx context.Context, entityType brd.EntityType, entityID string) error {
	if err := s.api.RefreshStaleEntity(ctx, s.projectID, entityType, entityID); err != nil {
		return fmt.Errorf("refresh stale entity: %w", err)
	}
	return s.reload(ctx, fmt.Sprintf("refresh %s %s", entityType, entityID))
}

// ProcessCascades runs server-side staleness propagation and refetches
// health.
func (s *Service) ProcessCascades(ctx context.Context) error {
	if err := s.api.ProcessCascades(ctx, s.projectID); err != nil {
		return fmt.Errorf("process cascades: %w", err)
	}
	health, err := s.api.GetBRDHealth(ctx, s.projectID)
	if err != nil {
		return fmt.Errorf("refetch health: %w", err)
	}
	s.mu.Lock()
	s.health = health
	s.mu.Unlock()
	return nil
}

// ImpactAnalysis fetches the server's cascade estimate for one entity.
func (s *Service) ImpactAnalysis(ctx context.Context, entityType brd.EntityType, entityID string) (api.ImpactAnalysis, error) {
	return s.api.GetImpactAnalysis(ctx, s.projectID, entityType, entityID)
}

// Invite asks the backend to invite a teammate into the project's
// organization.
func (s *Service) Invite(ctx context.Context, email, role string) error {
	if err := s.api.InviteMember(ctx, s.projectID, email, role); err != nil {
		return fmt.Errorf("invite member: %w", err)
	}
	return nil
}

// apply runs a pure mutator against the current snapshot under the
// lock. The snapshot visibly changes before any network traffic.
func (s *Service) apply(mutate func(brd.WorkspaceSnapshot) brd.WorkspaceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.snap = mutate(s.snap)
	return nil
}

// send issues the network call for an already-applied optimistic
// change. Any failure discards all optimism via a full reload; the
// original error is returned either way.
func (s *Service) send(ctx context.Context, op string, call func(context.Context) error) error {
	if err := call(ctx); err != nil {
		s.log.Warn("reconcile failed, reloading workspace",
			zap.String("op", op),
			zap.String("project", s.projectID),
			zap.Error(err))
		if rerr := s.reload(ctx, "rollback reload after failed "+op); rerr != nil {
			s.log.Error("rollback reload failed", zap.String("op", op), zap.Error(rerr))
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
