// Package api is the typed client for the Scopeline backend REST API.
// The backend owns all persistence and is the source of truth; this
// client only moves JSON across the boundary and validates shapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/session"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    session.Context
	log        *zap.Logger
}

func NewClient(baseURL string, sess session.Context, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		session:    sess,
		log:        log,
	}
}

// GetWorkspace fetches the full workspace snapshot for a project.
func (c *Client) GetWorkspace(ctx context.Context, projectID string) (brd.WorkspaceSnapshot, error) {
	var snap brd.WorkspaceSnapshot
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID, "workspace"), nil, &snap); err != nil {
		return brd.WorkspaceSnapshot{}, err
	}
	if snap.ProjectID == "" {
		return brd.WorkspaceSnapshot{}, unknownShape("workspace missing projectId")
	}
	snap.FetchedAt = time.Now()
	return snap, nil
}

// BatchConfirmEntities sets the status on a batch of entities and
// returns how many rows the server actually updated.
func (c *Client) BatchConfirmEntities(ctx context.Context, projectID string, entityType brd.EntityType, ids []string, status brd.ConfirmationStatus) (int, error) {
	body := batchConfirmRequest{EntityType: entityType, IDs: ids, Status: status}
	var resp batchConfirmResponse
	if err := c.do(ctx, http.MethodPost, c.projectPath(projectID, "entities/confirm"), body, &resp); err != nil {
		return 0, err
	}
	if resp.UpdatedCount == nil {
		return 0, unknownShape("batch confirm missing updatedCount")
	}
	return *resp.UpdatedCount, nil
}

func (c *Client) UpdateFeaturePriority(ctx context.Context, projectID, featureID string, group brd.PriorityGroup) error {
	path := c.projectPath(projectID, "features/"+url.PathEscape(featureID)+"/priority")
	return c.do(ctx, http.MethodPut, path, priorityRequest{Group: group}, nil)
}

func (c *Client) UpdateProjectVision(ctx context.Context, projectID, text string) error {
	return c.do(ctx, http.MethodPut, c.projectPath(projectID, "vision"), textRequest{Text: text}, nil)
}

func (c *Client) UpdateProjectBackground(ctx context.Context, projectID, text string) error {
	return c.do(ctx, http.MethodPut, c.projectPath(projectID, "background"), textRequest{Text: text}, nil)
}

// UpdateCanvasRole sets or clears (role == RoleNone) a persona's canvas
// role.
func (c *Client) UpdateCanvasRole(ctx context.Context, projectID, personaID string, role brd.CanvasRole) error {
	body := canvasRoleRequest{}
	if role != brd.RoleNone {
		value := string(role)
		body.Role = &value
	}
	path := c.projectPath(projectID, "actors/"+url.PathEscape(personaID)+"/canvas-role")
	return c.do(ctx, http.MethodPut, path, body, nil)
}

// RefreshStaleEntity asks the server to re-derive one stale entity from
// its current evidence.
func (c *Client) RefreshStaleEntity(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) error {
	path := c.projectPath(projectID, fmt.Sprintf("entities/%s/%s/refresh", url.PathEscape(string(entityType)), url.PathEscape(entityID)))
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// GetBRDHealth fetches the server-computed staleness and scope-alert
// payload.
func (c *Client) GetBRDHealth(ctx context.Context, projectID string) (brd.HealthData, error) {
	var health brd.HealthData
	if err := c.do(ctx, http.MethodGet, c.projectPath(projectID, "health"), nil, &health); err != nil {
		return brd.HealthData{}, err
	}
	return health, nil
}

// ProcessCascades asks the server to propagate staleness through the
// entity graph. Callers refetch health afterwards.
func (c *Client) ProcessCascades(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodPost, c.projectPath(projectID, "health/cascades"), nil, nil)
}

func (c *Client) GetImpactAnalysis(ctx context.Context, projectID string, entityType brd.EntityType, entityID string) (ImpactAnalysis, error) {
	path := c.projectPath(projectID, fmt.Sprintf("entities/%s/%s/impact", url.PathEscape(string(entityType)), url.PathEscape(entityID)))
	var impact ImpactAnalysis
	if err := c.do(ctx, http.MethodGet, path, nil, &impact); err != nil {
		return ImpactAnalysis{}, err
	}
	if impact.Recommendation == "" {
		return ImpactAnalysis{}, unknownShape("impact analysis missing recommendation")
	}
	return impact, nil
}

func (c *Client) AnswerOpenQuestion(ctx context.Context, projectID, questionID, answer string) error {
	path := c.projectPath(projectID, "questions/"+url.PathEscape(questionID))
	return c.do(ctx, http.MethodPut, path, questionStatusRequest{Status: brd.QuestionAnswered, Answer: answer}, nil)
}

func (c *Client) DismissOpenQuestion(ctx context.Context, projectID, questionID string) error {
	path := c.projectPath(projectID, "questions/"+url.PathEscape(questionID))
	return c.do(ctx, http.MethodPut, path, questionStatusRequest{Status: brd.QuestionDismissed}, nil)
}

// InviteMember invites a teammate into the project's organization.
func (c *Client) InviteMember(ctx context.Context, projectID, email, role string) error {
	return c.do(ctx, http.MethodPost, c.projectPath(projectID, "members/invite"), inviteRequest{Email: email, Role: role}, nil)
}

// ReviewTurn sends one prototype-review chat message and returns the
// assistant's reply. Plain request/response, no streaming.
func (c *Client) ReviewTurn(ctx context.Context, req ReviewTurnRequest) (ReviewTurnReply, error) {
	var reply ReviewTurnReply
	if err := c.do(ctx, http.MethodPost, "/api/review/turn", req, &reply); err != nil {
		return ReviewTurnReply{}, err
	}
	if reply.Reply == "" {
		return ReviewTurnReply{}, unknownShape("review turn missing reply")
	}
	return reply, nil
}

func (c *Client) projectPath(projectID, rest string) string {
	return "/api/projects/" + url.PathEscape(projectID) + "/" + rest
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.session.IsAuthenticated() {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	} else if c.session.Kind == session.KindDevFallback {
		req.Header.Set("X-Scopeline-Dev-User", c.session.UserName)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(out); err != nil {
		c.log.Debug("undecodable response body", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("decode %s response: %w", path, ErrUnknownShape)
	}
	return nil
}

// errorFrom maps a non-2xx response to an APIError, falling back to the
// bare status when the error body itself is malformed.
func (c *Client) errorFrom(status int, data []byte) error {
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"error"`
		Details any    `json:"details"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || payload.Code == "" {
		return &APIError{Status: status, Code: "HTTP_" + fmt.Sprint(status), Message: http.StatusText(status)}
	}
	return &APIError{Status: status, Code: payload.Code, Message: payload.Message, Details: payload.Details}
}
