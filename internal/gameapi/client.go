package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"escape-ops-console/config"
)

// APIError is an application-level failure: the backend answered with a
// well-formed envelope carrying success=false. Transport and decode
// failures are returned as plain wrapped errors instead.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend rejected request: %s", e.Message)
}

// Client is the typed HTTP client for the game backend. All responses are
// decoded into concrete types; a payload that does not parse is treated
// the same as a transport failure, so callers never see half-decoded
// state.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the configured backend.
func NewClient(cfg *config.BackendConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// UnresolvedErrors fetches the ordered list of unresolved errors. The
// backend returns oldest first; an empty array means nothing is pending.
func (c *Client) UnresolvedErrors(ctx context.Context) ([]ErrorRecord, error) {
	var out []ErrorRecord
	if err := c.getJSON(ctx, "/api/adminui/errorcheck", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ErrorHistory fetches the full error log, solved entries included.
func (c *Client) ErrorHistory(ctx context.Context) ([]ErrorRecord, error) {
	var out []ErrorRecord
	if err := c.getJSON(ctx, "/api/adminui/errorHistory", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ResolveError marks one error as solved. The HTTP status alone signals
// the outcome.
func (c *Client) ResolveError(ctx context.Context, errorID int64) error {
	body := map[string]int64{"ErrorId": errorID}
	resp, err := c.do(ctx, http.MethodPost, "/api/adminui/errorsolve", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("errorsolve returned status %d", resp.StatusCode)
	}
	return nil
}

// ListRooms fetches the current room table.
func (c *Client) ListRooms(ctx context.Context) ([]Room, error) {
	env, err := c.getEnvelope(ctx, "/api/adminui/rooms/list")
	if err != nil {
		return nil, err
	}
	var rooms []Room
	if err := json.Unmarshal(env.Data, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode room list: %w", err)
	}
	return rooms, nil
}

// UpdateRoom rewrites a room's editable fields.
func (c *Client) UpdateRoom(ctx context.Context, roomID string, upd RoomUpdate) error {
	resp, err := c.do(ctx, http.MethodPut, "/api/adminui/rooms/update/"+url.PathEscape(roomID), upd)
	if err != nil {
		return err
	}
	return c.closeEnvelope(resp)
}

// DeleteRoom removes a room entry.
func (c *Client) DeleteRoom(ctx context.Context, roomID string) error {
	resp, err := c.do(ctx, http.MethodDelete, "/api/adminui/rooms/delete/"+url.PathEscape(roomID), nil)
	if err != nil {
		return err
	}
	return c.closeEnvelope(resp)
}

// Register submits a registration. The manual endpoint is used when the
// request names a room, the auto-assign endpoint otherwise. A
// success=false answer comes back as *APIError so the caller can inspect
// the message for the duplicate-name marker.
func (c *Client) Register(ctx context.Context, req RegistrationRequest) error {
	path := "/api/adminui/regChallenge"
	if req.RoomID == "" {
		path = "/api/adminui/regChallenge/auto"
	}
	resp, err := c.do(ctx, http.MethodPost, path, req)
	if err != nil {
		return err
	}
	return c.closeEnvelope(resp)
}

// ListGroups fetches all registered groups.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	env, err := c.getEnvelope(ctx, "/api/adminui/groups/list")
	if err != nil {
		return nil, err
	}
	var groups []Group
	if err := json.Unmarshal(env.Data, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode group list: %w", err)
	}
	return groups, nil
}

// IssueCertificate asks the backend to render a completion certificate
// and returns the PDF filename. The reissue endpoint must be used once
// the certificate has already been collected: the backend records first
// issuance and duplicate issuance differently.
func (c *Client) IssueCertificate(ctx context.Context, groupID string, reissue bool) (string, error) {
	path := "/api/adminui/groups/" + url.PathEscape(groupID) + "/getCertificate"
	if reissue {
		path += "/re"
	}
	env, err := c.getEnvelope(ctx, path)
	if err != nil {
		return "", err
	}
	if env.Filename == "" {
		return "", fmt.Errorf("certificate response carried no filename")
	}
	return env.Filename, nil
}

// GiveSnack records the snack hand-out for a group.
func (c *Client) GiveSnack(ctx context.Context, groupID string) error {
	_, err := c.getEnvelope(ctx, "/api/adminui/groups/"+url.PathEscape(groupID)+"/giveSnack")
	return err
}

// QueueStatus fetches rooms that became free and are waiting for their
// assigned group to be escorted over.
func (c *Client) QueueStatus(ctx context.Context) ([]QueueEntry, error) {
	var out []QueueEntry
	if err := c.getJSON(ctx, "/api/adminui/getQueueStatus", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetGuided marks a challenge's group as escorted to its room.
func (c *Client) SetGuided(ctx context.Context, challengeID string) error {
	resp, err := c.do(ctx, http.MethodPost, "/api/adminui/setGuidedStatus/"+url.PathEscape(challengeID), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("setGuidedStatus returned status %d", resp.StatusCode)
	}
	return nil
}

// ClearTimes fetches the leaderboard for one difficulty tier.
func (c *Client) ClearTimes(ctx context.Context, difficulty int) ([]RankingEntry, error) {
	env, err := c.getEnvelope(ctx, "/api/cleartimes?difficulty="+strconv.Itoa(difficulty))
	if err != nil {
		return nil, err
	}
	var entries []RankingEntry
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &entries); err != nil {
			return nil, fmt.Errorf("failed to decode rankings: %w", err)
		}
	}
	return entries, nil
}

// QuestionStats fetches the per-question statistics index.
func (c *Client) QuestionStats(ctx context.Context) (json.RawMessage, error) {
	env, err := c.getEnvelope(ctx, "/api/adminui/stats/Questions")
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// QuestionDetail fetches the challenger answers for one question.
func (c *Client) QuestionDetail(ctx context.Context, questionID string) (json.RawMessage, error) {
	env, err := c.getEnvelope(ctx, "/api/adminui/stats/"+url.PathEscape(questionID))
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// do issues one request with an optional JSON body.
func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request payload: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	return resp, nil
}

// getJSON fetches a bare JSON document (the endpoints that answer with a
// plain array rather than an envelope).
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("received non-200 status code: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// getEnvelope fetches an enveloped endpoint and fails on success=false.
func (c *Client) getEnvelope(ctx context.Context, path string) (*envelope, error) {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return c.decodeEnvelope(resp)
}

// closeEnvelope decodes and discards an envelope, keeping only the
// success/message outcome.
func (c *Client) closeEnvelope(resp *http.Response) error {
	_, err := c.decodeEnvelope(resp)
	return err
}

func (c *Client) decodeEnvelope(resp *http.Response) (*envelope, error) {
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response envelope: %w", err)
	}
	if !env.Success {
		return nil, &APIError{Message: env.Message}
	}
	return &env, nil
}
