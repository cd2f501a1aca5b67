// Package docstore is the HTTP client for the external document store and
// mail dispatch backend. File transport and merge binary generation live
// there; this client only moves metadata.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Error represents an error from a backend call.
type Error struct {
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("docstore %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("docstore %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the document store / dispatch backend.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client from options.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("docstore base URL is required")
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: opts.BaseURL,
		apiKey:  opts.APIKey,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return &Error{Op: op, Message: "failed to encode request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return &Error{Op: op, Message: "failed to build request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Op: op, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Message: "failed to read response", Cause: err}
	}
	if resp.StatusCode == http.StatusNotFound {
		return &Error{Op: op, Message: "not found", Cause: errNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Op: op, Message: fmt.Sprintf("backend returned %d: %s", resp.StatusCode, truncate(string(data), 200))}
	}

	if out != nil {
		if raw, ok := out.(*[]byte); ok {
			*raw = data
			return nil
		}
		if err := json.Unmarshal(data, out); err != nil {
			return &Error{Op: op, Message: "failed to decode response", Cause: err}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var errNotFound = fmt.Errorf("not found")

func keyQuery(key types.AssignmentKey) url.Values {
	q := url.Values{}
	q.Set("candidate_id", key.CandidateID.String())
	q.Set("project_id", key.ProjectID.String())
	q.Set("role_id", key.RoleID.String())
	return q
}

// ListVerifiedDocuments fetches the current verified document records for an
// assignment key. The response is schema-checked before use.
func (c *Client) ListVerifiedDocuments(ctx context.Context, key types.AssignmentKey) ([]types.DocumentRecord, error) {
	var raw []byte
	if err := c.do(ctx, "list-documents", http.MethodGet, "/documents/verified", keyQuery(key), nil, &raw); err != nil {
		return nil, err
	}
	if err := validateAgainstSchema("document_list.json", raw); err != nil {
		return nil, &Error{Op: "list-documents", Message: "invalid response", Cause: err}
	}

	var out struct {
		Documents []types.DocumentRecord `json:"documents"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &Error{Op: "list-documents", Message: "failed to decode response", Cause: err}
	}
	return out.Documents, nil
}

// GetMergedArtifact fetches the current artifact for the key, or nil when
// none exists.
func (c *Client) GetMergedArtifact(ctx context.Context, key types.AssignmentKey) (*types.MergedArtifact, error) {
	var raw []byte
	err := c.do(ctx, "get-artifact", http.MethodGet, "/documents/merged", keyQuery(key), nil, &raw)
	if err != nil {
		var derr *Error
		if errors.As(err, &derr) && derr.Cause == errNotFound {
			return nil, nil
		}
		return nil, err
	}
	if err := validateAgainstSchema("merged_artifact.json", raw); err != nil {
		return nil, &Error{Op: "get-artifact", Message: "invalid response", Cause: err}
	}

	var artifact types.MergedArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, &Error{Op: "get-artifact", Message: "failed to decode response", Cause: err}
	}
	return &artifact, nil
}

// RequestMerge asks the backend to build a merged artifact from the ordered
// document ids. A successful merge replaces the key's previous artifact.
func (c *Client) RequestMerge(ctx context.Context, key types.AssignmentKey, orderedIDs []uuid.UUID, fileName string) (*types.MergedArtifact, error) {
	payload := map[string]any{
		"candidate_id":    key.CandidateID,
		"project_id":      key.ProjectID,
		"role_id":         key.RoleID,
		"ordered_doc_ids": orderedIDs,
		"file_name":       fileName,
	}
	var raw []byte
	if err := c.do(ctx, "request-merge", http.MethodPost, "/documents/merge", nil, payload, &raw); err != nil {
		return nil, err
	}
	if err := validateAgainstSchema("merged_artifact.json", raw); err != nil {
		return nil, &Error{Op: "request-merge", Message: "invalid response", Cause: err}
	}

	var artifact types.MergedArtifact
	if err := json.Unmarshal(raw, &artifact); err != nil {
		return nil, &Error{Op: "request-merge", Message: "failed to decode response", Cause: err}
	}
	return &artifact, nil
}

// DispatchForward submits one forward-to-client payload. The backend reports
// one record per candidate.
func (c *Client) DispatchForward(ctx context.Context, payload dispatch.ForwardPayload) ([]types.ForwardingRecord, error) {
	var out struct {
		Records []types.ForwardingRecord `json:"records"`
	}
	if err := c.do(ctx, "dispatch-forward", http.MethodPost, "/dispatch/forward", nil, payload, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

// DispatchTransfer hands one partition of candidates to processing.
func (c *Client) DispatchTransfer(ctx context.Context, assignmentIDs []uuid.UUID, assignedUserID uuid.UUID, notes string) error {
	payload := map[string]any{
		"assignment_ids":   assignmentIDs,
		"assigned_user_id": assignedUserID,
		"notes":            notes,
	}
	return c.do(ctx, "dispatch-transfer", http.MethodPost, "/dispatch/transfer", nil, payload, nil)
}
