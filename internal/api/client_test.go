package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(server.URL, session.Authenticated("tok-1", "user-1", "Dana", session.RoleConsultant), 5*time.Second, nil)
	return client, server
}

func TestGetWorkspace(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/proj-1/workspace" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Write([]byte(`{
			"projectId": "proj-1",
			"businessContext": {"vision": "v", "background": "b"},
			"actors": [{"id": "actor-1", "name": "Lead", "confirmationStatus": "ai_generated"}],
			"requirements": {"mustHave": [{"id": "feat-1", "title": "Upload", "confirmationStatus": "needs_client"}]}
		}`))
	})

	snap, err := client.GetWorkspace(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("GetWorkspace failed: %v", err)
	}
	if snap.ProjectID != "proj-1" || len(snap.Actors) != 1 || len(snap.Requirements.MustHave) != 1 {
		t.Fatalf("snapshot decoded wrong: %+v", snap)
	}
	if snap.FetchedAt.IsZero() {
		t.Fatalf("expected FetchedAt to be stamped")
	}
}

func TestGetWorkspaceUnknownShape(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected": true}`))
	})

	_, err := client.GetWorkspace(context.Background(), "proj-1")
	if !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape, got %v", err)
	}
}

func TestBatchConfirmEntities(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Write([]byte(`{"updatedCount": 2}`))
	})

	updated, err := client.BatchConfirmEntities(context.Background(), "proj-1", brd.TypeFeature, []string{"feat-1", "feat-2"}, brd.StatusConfirmedConsultant)
	if err != nil {
		t.Fatalf("BatchConfirmEntities failed: %v", err)
	}
	if updated != 2 {
		t.Fatalf("expected 2 updated, got %d", updated)
	}
}

func TestBatchConfirmMissingCount(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok": true}`))
	})

	_, err := client.BatchConfirmEntities(context.Background(), "proj-1", brd.TypeFeature, []string{"feat-1"}, brd.StatusConfirmedConsultant)
	if !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("expected ErrUnknownShape for missing updatedCount, got %v", err)
	}
}

func TestAPIErrorPayload(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code": "VALIDATION_ERROR", "error": "group is required"}`))
	})

	err := client.UpdateFeaturePriority(context.Background(), "proj-1", "feat-1", brd.GroupMustHave)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Code != "VALIDATION_ERROR" {
		t.Fatalf("error mapped wrong: %+v", apiErr)
	}
}

func TestErrorWithMalformedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	err := client.ProcessCascades(context.Background(), "proj-1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != "HTTP_502" {
		t.Fatalf("fallback error mapped wrong: %+v", apiErr)
	}
}

func TestUpdateCanvasRoleClearSendsNull(t *testing.T) {
	var gotBody string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		gotBody = string(data)
		w.Write([]byte(`{}`))
	})

	if err := client.UpdateCanvasRole(context.Background(), "proj-1", "actor-1", brd.RoleNone); err != nil {
		t.Fatalf("UpdateCanvasRole failed: %v", err)
	}
	if gotBody != `{"role":null}` {
		t.Fatalf("expected explicit null role, got %s", gotBody)
	}
}

func TestDevFallbackHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Scopeline-Dev-User"); got != "dev-dana" {
			t.Errorf("expected dev user header, got %q", got)
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("dev fallback must not send a bearer token")
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, session.DevFallback("dev-dana"), 5*time.Second, nil)
	if err := client.ProcessCascades(context.Background(), "proj-1"); err != nil {
		t.Fatalf("ProcessCascades failed: %v", err)
	}
}

func TestReviewTurn(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/review/turn" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"reply": "The checkout page matches the must-have flow."}`))
	})

	reply, err := client.ReviewTurn(context.Background(), ReviewTurnRequest{
		SessionID: "rev-1", ProjectID: "proj-1", PrototypeID: "proto-1", Page: "/checkout", Message: "Does this match?", RemainingTurns: 5,
	})
	if err != nil {
		t.Fatalf("ReviewTurn failed: %v", err)
	}
	if reply.Reply == "" {
		t.Fatalf("empty reply")
	}
}
