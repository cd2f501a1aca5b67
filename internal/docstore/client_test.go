package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/dispatch"
	"github.com/NUAM-ENTERPRISES/rms-sub003/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)
	return client
}

func testKey() types.AssignmentKey {
	return types.AssignmentKey{CandidateID: uuid.New(), ProjectID: uuid.New(), RoleID: uuid.New()}
}

func TestListVerifiedDocuments(t *testing.T) {
	docID := uuid.New()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/verified", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.URL.Query().Get("candidate_id"))

		fmt.Fprintf(w, `{"documents":[{"id":%q,"file_name":"passport.pdf","file_size":1024,"file_url":"https://files.example/p.pdf","doc_type":"passport","verification_status":"verified"}]}`, docID)
	})

	docs, err := client.ListVerifiedDocuments(context.Background(), testKey())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, docID, docs[0].ID)
	assert.Equal(t, int64(1024), docs[0].FileSize)
	assert.True(t, docs[0].Verified())
}

func TestListVerifiedDocuments_RejectsMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// file_size as a string must fail the schema check
		fmt.Fprint(w, `{"documents":[{"id":"not-a-uuid","file_name":"x","file_size":"big","file_url":"u","verification_status":"verified"}]}`)
	})

	_, err := client.ListVerifiedDocuments(context.Background(), testKey())
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "invalid response")
}

func TestGetMergedArtifact_NoneIsNil(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	artifact, err := client.GetMergedArtifact(context.Background(), testKey())
	require.NoError(t, err)
	assert.Nil(t, artifact)
}

func TestRequestMerge(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/documents/merge", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Len(t, payload["ordered_doc_ids"], 2)

		resp := map[string]any{
			"file_url":       "https://files.example/merged.pdf",
			"file_name":      payload["file_name"],
			"file_size":      13631488,
			"generated_at":   time.Now().Format(time.RFC3339),
			"source_doc_ids": payload["ordered_doc_ids"],
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	})

	artifact, err := client.RequestMerge(context.Background(), testKey(), ids, "amira-hassan_staff-nurse_20260830_merged.pdf")
	require.NoError(t, err)
	assert.Equal(t, int64(13631488), artifact.FileSize)
	assert.Equal(t, ids, artifact.SourceDocIDs)
}

func TestRequestMerge_BackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported document format", http.StatusUnprocessableEntity)
	})

	_, err := client.RequestMerge(context.Background(), testKey(), []uuid.UUID{uuid.New()}, "x.pdf")
	var derr *Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Message, "422")
}

func TestDispatchForwardAndTransfer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/dispatch/forward":
			fmt.Fprint(w, `{"records":[{"id":"`+uuid.NewString()+`","status":"queued","send_type":"merged","delivery_method":"combined"}]}`)
		case "/dispatch/transfer":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	records, err := client.DispatchForward(context.Background(), dispatch.ForwardPayload{
		Recipient:      "client@example.com",
		DeliveryMethod: types.DeliveryCombined,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, types.ForwardingQueued, records[0].Status)

	err = client.DispatchTransfer(context.Background(), []uuid.UUID{uuid.New()}, uuid.New(), "urgent")
	assert.NoError(t, err)
}
