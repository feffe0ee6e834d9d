// Package courtapi is the HTTP client for the courtroom backend. It
// owns the wire shapes of the three endpoints and validates every
// session snapshot before it enters the state machine.
package courtapi

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

	"github.com/openveritas/cybercourt/internal/model"
)

// Client talks to the courtroom backend.
type Client struct {
	baseURL string
	http    *http.Client
}

const defaultTimeout = 30 * time.Second

// NewClient constructs a backend client. httpClient may be nil, in
// which case a client with the default timeout is used.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("backend base url is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: baseURL, http: httpClient}, nil
}

// APIError is a non-2xx backend response. Detail carries the backend's
// message verbatim.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// FlagPostRequest is the body of POST /flag_post.
type FlagPostRequest struct {
	PostContent      string `json:"postContent"`
	VictimInfo       string `json:"victimInfo"`
	UserID           string `json:"userId"`
	PostLink         string `json:"postLink,omitempty"`
	VictimEthAddress string `json:"victimEthAddress,omitempty"`
}

// CaseDetails is the subset of the stored case the flag response
// echoes back.
type CaseDetails struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	PostContent   string          `json:"postContent,omitempty"`
	VictimInfo    string          `json:"victimInfo,omitempty"`
	Analysis      json.RawMessage `json:"analysis,omitempty"`
	ViolationType string          `json:"violationType,omitempty"`
}

// FlagPostResponse is the success body of POST /flag_post.
type FlagPostResponse struct {
	Status      string      `json:"status"`
	Message     string      `json:"message"`
	CaseID      string      `json:"case_id"`
	CaseDetails CaseDetails `json:"case_details"`
}

// ViolationDetected reports whether the initial analysis found a
// violation, i.e. the case is eligible for a courtroom session.
func (r FlagPostResponse) ViolationDetected() bool {
	return r.CaseDetails.Status == model.CaseStatusViolation ||
		r.CaseDetails.Status == model.CaseStatusUnderReview
}

// StartSessionResponse is the success body of POST /start_courtroom_session.
type StartSessionResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	CaseID  string `json:"case_id"`
}

// FlagPost submits a post for initial analysis.
func (c *Client) FlagPost(ctx context.Context, req FlagPostRequest) (FlagPostResponse, error) {
	var out FlagPostResponse
	if err := c.postJSON(ctx, "/flag_post", req, &out); err != nil {
		return FlagPostResponse{}, err
	}
	return out, nil
}

// StartSession asks the backend to begin courtroom deliberation for a
// case.
func (c *Client) StartSession(ctx context.Context, caseID string) (StartSessionResponse, error) {
	var out StartSessionResponse
	body := map[string]string{"case_id": caseID}
	if err := c.postJSON(ctx, "/start_courtroom_session", body, &out); err != nil {
		return StartSessionResponse{}, err
	}
	return out, nil
}

// Updates fetches the current session snapshot for a case. The raw
// body is schema-checked and invariant-checked before it is returned;
// a snapshot that fails either never reaches the caller.
func (c *Client) Updates(ctx context.Context, caseID string) (model.SessionState, error) {
	u := fmt.Sprintf("%s/get_courtroom_updates?case_id=%s", c.baseURL, url.QueryEscape(caseID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.SessionState{}, fmt.Errorf("build updates request: %w", err)
	}
	raw, err := c.do(httpReq)
	if err != nil {
		return model.SessionState{}, err
	}
	snapshot, err := DecodeSnapshot(raw)
	if err != nil {
		return model.SessionState{}, err
	}
	return snapshot, nil
}

// Ping hits the backend health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	if _, err := c.do(httpReq); err != nil {
		return err
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	raw, err := c.do(httpReq)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// do executes the request and maps non-2xx responses to *APIError with
// the backend's detail message intact.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var detail struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(raw, &detail); err == nil {
			apiErr.Detail = detail.Detail
		}
		return nil, apiErr
	}
	return raw, nil
}
