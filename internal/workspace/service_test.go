package workspace

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"scopeline/workbench/internal/api"
	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/session"
)

type fakeAPI struct {
	getWorkspaceFn      func(context.Context, string) (brd.WorkspaceSnapshot, error)
	batchConfirmFn      func(context.Context, string, brd.EntityType, []string, brd.ConfirmationStatus) (int, error)
	updatePriorityFn    func(context.Context, string, string, brd.PriorityGroup) error
	updateVisionFn      func(context.Context, string, string) error
	updateBackgroundFn  func(context.Context, string, string) error
	updateCanvasRoleFn  func(context.Context, string, string, brd.CanvasRole) error
	refreshStaleFn      func(context.Context, string, brd.EntityType, string) error
	getHealthFn         func(context.Context, string) (brd.HealthData, error)
	processCascadesFn   func(context.Context, string) error
	getImpactFn         func(context.Context, string, brd.EntityType, string) (api.ImpactAnalysis, error)
	answerQuestionFn    func(context.Context, string, string, string) error
	dismissQuestionFn   func(context.Context, string, string) error
	inviteMemberFn      func(context.Context, string, string, string) error
	workspaceFetchCount int
}

func (f *fakeAPI) GetWorkspace(ctx context.Context, projectID string) (brd.WorkspaceSnapshot, error) {
	f.workspaceFetchCount++
	if f.getWorkspaceFn != nil {
		return f.getWorkspaceFn(ctx, projectID)
	}
	return serverSnapshot(), nil
}

func (f *fakeAPI) BatchConfirmEntities(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error) {
	if f.batchConfirmFn != nil {
		return f.batchConfirmFn(ctx, projectID, entityType, ids, status)
	}
	return len(ids), nil
}

func (f *fakeAPI) UpdateFeaturePriority(ctx context.Context, projectID, featureID string, group brd.PriorityGroup) error {
	if f.updatePriorityFn != nil {
		return f.updatePriorityFn(ctx, projectID, featureID, group)
	}
	return nil
}

func (f *fakeAPI) UpdateProjectVision(ctx context.Context, projectID, text string) error {
	if f.updateVisionFn != nil {
		return f.updateVisionFn(ctx, projectID, text)
	}
	return nil
}

func (f *fakeAPI) UpdateProjectBackground(ctx context.Context, projectID, text string) error {
	if f.updateBackgroundFn != nil {
		return f.updateBackgroundFn(ctx, projectID, text)
	}
	return nil
}

func (f *fakeAPI) UpdateCanvasRole(ctx context.Context, projectID, personaID string, role brd.CanvasRole) error {
	if f.updateCanvasRoleFn != nil {
		return f.updateCanvasRoleFn(ctx, projectID, personaID, role)
	}
	return nil
}

func (f *fakeAPI) RefreshStaleEntity(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) error {
	if f.refreshStaleFn != nil {
		return f.refreshStaleFn(ctx, projectID, entityType, entityID)
	}
	return nil
}

func (f *fakeAPI) GetBRDHealth(ctx context.Context, projectID string) (brd.HealthData, error) {
	if f.getHealthFn != nil {
		return f.getHealthFn(ctx, projectID)
	}
	return brd.HealthData{}, nil
}

func (f *fakeAPI) ProcessCascades(ctx context.Context, projectID string) error {
	if f.processCascadesFn != nil {
		return f.processCascadesFn(ctx, projectID)
	}
	return nil
}

func (f *fakeAPI) GetImpactAnalysis(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) (api.ImpactAnalysis, error) {
	if f.getImpactFn != nil {
		return f.getImpactFn(ctx, projectID, entityType, entityID)
	}
	return api.ImpactAnalysis{Recommendation: "safe"}, nil
}

func (f *fakeAPI) AnswerOpenQuestion(ctx context.Context, projectID, questionID, answer string) error {
	if f.answerQuestionFn != nil {
		return f.answerQuestionFn(ctx, projectID, questionID, answer)
	}
	return nil
}

func (f *fakeAPI) DismissOpenQuestion(ctx context.Context, projectID, questionID string) error {
	if f.dismissQuestionFn != nil {
		return f.dismissQuestionFn(ctx, projectID, questionID)
	}
	return nil
}

func (f *fakeAPI) InviteMember(ctx context.Context, projectID, email, role string) error {
	if f.inviteMemberFn != nil {
		return f.inviteMemberFn(ctx, projectID, email, role)
	}
	return nil
}

func serverSnapshot() brd.WorkspaceSnapshot {
	return brd.WorkspaceSnapshot{
		ProjectID: "proj-1",
		BusinessContext: brd.BusinessContext{
			Vision: "Original vision",
		},
		Actors: []brd.Actor{
			{ID: "actor-1", Name: "Lead", ConfirmationStatus: brd.StatusAIGenerated},
		},
		Requirements: brd.Requirements{
			MustHave: []brd.Feature{
				{ID: "feat-1", Title: "Upload", ConfirmationStatus: brd.StatusAIGenerated},
				{ID: "feat-2", Title: "Review", ConfirmationStatus: brd.StatusNeedsClient},
			},
		},
		OpenQuestions: []brd.OpenQuestion{
			{ID: "q-1", Question: "Sign-off?", Priority: brd.PriorityHigh, Status: brd.QuestionOpen},
		},
	}
}

func consultant() session.Context {
	return session.Authenticated("tok", "user-1", "Dana", session.RoleConsultant)
}

func loadedService(t *testing.T, fake *fakeAPI) *Service {
	t.Helper()
	svc := New(fake, consultant(), "proj-1", nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return svc
}

func TestMutationBeforeLoad(t *testing.T) {
	svc := New(&fakeAPI{}, consultant(), "proj-1", nil)
	err := svc.ConfirmEntity(context.Background(), brd.TypeFeature, "feat-1")
	if !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestConfirmEntityAppliesBeforeSend(t *testing.T) {
	fake := &fakeAPI{}
	var svc *Service
	var statusAtSendTime brd.ConfirmationStatus
	fake.batchConfirmFn = func(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error) {
		// The optimistic update must be visible before the call lands.
		statusAtSendTime = svc.Snapshot().Requirements.MustHave[0].ConfirmationStatus
		return 1, nil
	}
	svc = loadedService(t, fake)

	if err := svc.ConfirmEntity(context.Background(), brd.TypeFeature, "feat-1"); err != nil {
		t.Fatalf("ConfirmEntity failed: %v", err)
	}
	if statusAtSendTime != brd.StatusConfirmedConsultant {
		t.Fatalf("snapshot not updated before network call, saw %s", statusAtSendTime)
	}
}

func TestRollbackOnFailure(t *testing.T) {
	fake := &fakeAPI{}
	fake.batchConfirmFn = func(context.Context, string, brd.EntityType, []string, brd.ConfirmationStatus) (int, error) {
		return 0, errors.New("network down")
	}
	svc := loadedService(t, fake)

	err := svc.ConfirmEntity(context.Background(), brd.TypeFeature, "feat-1")
	if err == nil {
		t.Fatalf("expected error from failed confirm")
	}
	// The final snapshot must equal a fresh server fetch, not a hybrid.
	fresh := serverSnapshot()
	got := svc.Snapshot()
	got.FetchedAt = fresh.FetchedAt
	if !reflect.DeepEqual(got, fresh) {
		t.Fatalf("optimistic change survived rollback:\n got %+v\nwant %+v", got, fresh)
	}
}

func TestRollbackDiscardsAllOptimism(t *testing.T) {
	// A failure rolls back every unsaved optimistic change, not just the
	// failed operation.
	fake := &fakeAPI{}
	fail := false
	fake.updateVisionFn = func(context.Context, string, string) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}
	svc := loadedService(t, fake)

	if err := svc.ConfirmEntity(context.Background(), brd.TypeFeature, "feat-1"); err != nil {
		t.Fatalf("ConfirmEntity failed: %v", err)
	}
	fail = true
	if err := svc.SetVision(context.Background(), "New vision"); err == nil {
		t.Fatalf("expected vision update to fail")
	}

	got := svc.Snapshot()
	if got.BusinessContext.Vision != "Original vision" {
		t.Errorf("vision change survived rollback: %q", got.BusinessContext.Vision)
	}
	// The earlier confirm was only ever optimistic state; the reload
	// reverts it too because the fake server never persisted it.
	if got.Requirements.MustHave[0].ConfirmationStatus != brd.StatusAIGenerated {
		t.Errorf("earlier optimistic confirm survived rollback")
	}
}

func TestPartialBatchTreatedAsFailure(t *testing.T) {
	fake := &fakeAPI{}
	fake.batchConfirmFn = func(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error) {
		return len(ids) - 1, nil
	}
	svc := loadedService(t, fake)
	fetchesBefore := fake.workspaceFetchCount

	err := svc.ConfirmAll(context.Background(), brd.TypeFeature, []string{"feat-1", "feat-2"})
	if !errors.Is(err, ErrPartialConfirm) {
		t.Fatalf("expected ErrPartialConfirm, got %v", err)
	}
	if fake.workspaceFetchCount != fetchesBefore+1 {
		t.Fatalf("partial batch did not trigger a reload")
	}
}

func TestConfirmAllSuccess(t *testing.T) {
	fake := &fakeAPI{}
	svc := loadedService(t, fake)

	if err := svc.ConfirmAll(context.Background(), brd.TypeFeature, []string{"feat-1", "feat-2"}); err != nil {
		t.Fatalf("ConfirmAll failed: %v", err)
	}
	for _, f := range svc.Snapshot().Requirements.MustHave {
		if f.ConfirmationStatus != brd.StatusConfirmedConsultant {
			t.Errorf("feature %s not confirmed", f.ID)
		}
	}
}

func TestConfirmAsClientRole(t *testing.T) {
	fake := &fakeAPI{}
	var sentStatus brd.ConfirmationStatus
	fake.batchConfirmFn = func(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error) {
		sentStatus = status
		return len(ids), nil
	}
	svc := New(fake, session.Authenticated("tok", "user-2", "Pat", session.RoleClient), "proj-1", nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := svc.ConfirmEntity(context.Background(), brd.TypeFeature, "feat-1"); err != nil {
		t.Fatalf("ConfirmEntity failed: %v", err)
	}
	if sentStatus != brd.StatusConfirmedClient {
		t.Fatalf("client session should confirm as confirmed_client, sent %s", sentStatus)
	}
	if got := svc.Snapshot().Requirements.MustHave[0].ConfirmationStatus; got != brd.StatusConfirmedClient {
		t.Fatalf("local status %s", got)
	}
}

func TestDismissQuestionLeavesOpenView(t *testing.T) {
	fake := &fakeAPI{}
	svc := loadedService(t, fake)

	if got := len(svc.OpenQuestions()); got != 1 {
		t.Fatalf("expected 1 open question, got %d", got)
	}
	if err := svc.DismissQuestion(context.Background(), "q-1"); err != nil {
		t.Fatalf("DismissQuestion failed: %v", err)
	}
	if got := len(svc.OpenQuestions()); got != 0 {
		t.Fatalf("expected 0 open questions, got %d", got)
	}
}

func TestRefreshStaleReloads(t *testing.T) {
	fake := &fakeAPI{}
	refreshed := false
	fake.refreshStaleFn = func(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) error {
		refreshed = true
		return nil
	}
	svc := loadedService(t, fake)
	fetchesBefore := fake.workspaceFetchCount

	if err := svc.RefreshStale(context.Background(), brd.TypeActor, "actor-1"); err != nil {
		t.Fatalf("RefreshStale failed: %v", err)
	}
	if !refreshed {
		t.Fatalf("refresh endpoint never called")
	}
	if fake.workspaceFetchCount != fetchesBefore+1 {
		t.Fatalf("refresh did not reload the snapshot")
	}
}

func TestProcessCascadesRefetchesHealth(t *testing.T) {
	fake := &fakeAPI{}
	calls := 0
	fake.getHealthFn = func(context.Context, string) (brd.HealthData, error) {
		calls++
		if calls > 1 {
			return brd.HealthData{ScopeAlerts: []brd.ScopeAlert{{Severity: brd.SeverityWarning, Message: "scope grew"}}}, nil
		}
		return brd.HealthData{}, nil
	}
	svc := loadedService(t, fake)

	if err := svc.ProcessCascades(context.Background()); err != nil {
		t.Fatalf("ProcessCascades failed: %v", err)
	}
	if svc.Metrics().RiskScore != brd.RiskHigh {
		t.Fatalf("refetched health not applied")
	}
}

type fakeRecorder struct {
	messages []string
}

func (f *fakeRecorder) RecordSnapshot(projectID string, snap brd.WorkspaceSnapshot, message string) error {
	f.messages = append(f.messages, message)
	return nil
}

func TestRecorderSeesLoadsAndRollbacks(t *testing.T) {
	fake := &fakeAPI{}
	fake.updateVisionFn = func(context.Context, string, string) error {
		return errors.New("boom")
	}
	rec := &fakeRecorder{}
	svc := New(fake, consultant(), "proj-1", nil).WithRecorder(rec)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	_ = svc.SetVision(context.Background(), "nope")

	if len(rec.messages) != 2 {
		t.Fatalf("expected 2 recorded snapshots, got %d: %v", len(rec.messages), rec.messages)
	}
}
