package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/bizdesk/backend/internal/api"
	"github.com/bizdesk/backend/internal/clients/drive"
	"github.com/bizdesk/backend/internal/collection"
	"github.com/bizdesk/backend/internal/entity"
	"github.com/bizdesk/backend/internal/service"
	"github.com/bizdesk/backend/internal/tablestore"
	"github.com/bizdesk/backend/pkg/broker"
	"github.com/bizdesk/backend/pkg/security"
)

const testJWTSecret = "test-jwt-secret"

type stubTables struct {
	mu   sync.Mutex
	rows map[string][]tablestore.Row
}

func newStubTables() *stubTables {
	return &stubTables{rows: make(map[string][]tablestore.Row)}
}

func (s *stubTables) Select(_ context.Context, q tablestore.Query) ([]tablestore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []tablestore.Row

	for _, row := range s.rows[q.Table] {
		if rowMatches(row, q.Eq) {
			out = append(out, cloneRow(row))
		}
	}

	return out, nil
}

func (s *stubTables) Insert(_ context.Context, table string, row tablestore.Row) (tablestore.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := cloneRow(row)
	stored["id"] = uuid.Must(uuid.NewV4())
	stored["created_at"] = time.Now().UTC()

	if _, ok := stored["updated_at"]; !ok {
		stored["updated_at"] = time.Now().UTC()
	}

	s.rows[table] = append(s.rows[table], stored)

	return cloneRow(stored), nil
}

func (s *stubTables) Update(_ context.Context, table string, id uuid.UUID, eq map[string]any, row tablestore.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stored := range s.rows[table] {
		if stored["id"] == id && rowMatches(stored, eq) {
			for k, v := range row {
				stored[k] = v
			}
		}
	}

	return nil
}

func (s *stubTables) Delete(_ context.Context, table string, id uuid.UUID, eq map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.rows[table][:0]

	for _, stored := range s.rows[table] {
		if stored["id"] == id && rowMatches(stored, eq) {
			continue
		}

		kept = append(kept, stored)
	}

	s.rows[table] = kept

	return nil
}

func rowMatches(row tablestore.Row, eq map[string]any) bool {
	for k, v := range eq {
		if row[k] != v {
			return false
		}
	}

	return true
}

func cloneRow(row tablestore.Row) tablestore.Row {
	out := make(tablestore.Row, len(row))
	for k, v := range row {
		out[k] = v
	}

	return out
}

type stubDrive struct{}

func (stubDrive) AuthURL(state string) string {
	return "https://google.test/auth?state=" + state
}

func (stubDrive) Exchange(context.Context, string) (drive.Token, error) {
	return drive.Token{AccessToken: "access-1", RefreshToken: "refresh-1", ExpiresIn: 3600}, nil
}

func (stubDrive) Upload(_ context.Context, _, name, _ string, data []byte) (entity.DriveFile, error) {
	return entity.DriveFile{
		ID:           "file-" + name,
		WebViewLink:  "https://drive.test/view",
		DownloadLink: "https://drive.test/dl",
	}, nil
}

type noAlerts struct{}

func (noAlerts) LowStock(context.Context, broker.LowStockEvent) {}

func newTestServer(t *testing.T) (*httptest.Server, *security.StateSigner) {
	t.Helper()

	tables := newStubTables()
	signer := security.NewStateSigner("state-secret")
	collections := collection.NewSet(tables, nil)
	svc := service.New(tables, collections, stubDrive{}, signer, noAlerts{})

	handler := api.NewHandler(svc)
	mw := api.NewMiddleware(testJWTSecret, false, "")

	srv := httptest.NewServer(api.NewRouter(handler, mw))
	t.Cleanup(srv.Close)

	return srv, signer
}

func makeToken(t *testing.T, actorID uuid.UUID) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   actorID.String(),
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return signed
}

func doJSON(t *testing.T, method, url, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader

	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()

	var out T

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)

	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_RequiresToken(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/clients/")
	require.NoError(t, err)

	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_RejectsForgedToken(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.Must(uuid.NewV4()).String(),
	})

	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/clients/", signed, nil)

	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_ClientCRUD(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/clients/", token, map[string]any{
		"name":   "Acme",
		"email":  "acme@example.com",
		"status": "lead",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[entity.Client](t, resp)
	require.Equal(t, "Acme", created.Name)
	require.NotEqual(t, uuid.Nil, created.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clients/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listed := decodeBody[[]entity.Client](t, resp)
	require.Len(t, listed, 1)

	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/clients/"+created.ID.String(), token, map[string]any{
		"status": "active",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	patched := decodeBody[entity.Client](t, resp)
	require.Equal(t, entity.ClientStatusActive, patched.Status)
	require.Equal(t, "Acme", patched.Name)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/clients/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/clients/", token, nil)
	require.Empty(t, decodeBody[[]entity.Client](t, resp))
}

func TestHandler_CrossActorMutationIsNotFound(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	ownerToken := makeToken(t, uuid.Must(uuid.NewV4()))
	intruderToken := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/notes/", ownerToken, map[string]any{
		"title":   "private",
		"content": "confidential",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[entity.Note](t, resp)

	// Another user patching the record by id must not see or touch it.
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/notes/"+created.ID.String(), intruderToken, map[string]any{
		"title": "owned-by-someone-else-now",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodDelete, srv.URL+"/api/notes/"+created.ID.String(), intruderToken, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/notes/", ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	listed := decodeBody[[]entity.Note](t, resp)
	require.Len(t, listed, 1)
	require.Equal(t, "private", listed[0].Title)
	require.Equal(t, "confidential", listed[0].Content)
}

func TestHandler_ListIsScopedPerActor(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	tokenA := makeToken(t, uuid.Must(uuid.NewV4()))
	tokenB := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/notes/", tokenA, map[string]any{"title": "A-note"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/notes/", tokenB, map[string]any{"title": "B-confidential"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/notes/", tokenA, nil)
	listedA := decodeBody[[]entity.Note](t, resp)
	require.Len(t, listedA, 1)
	require.Equal(t, "A-note", listedA[0].Title)

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/notes/", tokenB, nil)
	listedB := decodeBody[[]entity.Note](t, resp)
	require.Len(t, listedB, 1)
	require.Equal(t, "B-confidential", listedB[0].Title)
}

func TestHandler_UpdateUnknownIDReturns404(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPatch, srv.URL+"/api/notes/"+uuid.Must(uuid.NewV4()).String(), token, map[string]any{
		"title": "ghost",
	})

	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_Dashboard(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/transactions/", token, map[string]any{
		"description": "consulting",
		"amount":      "250",
		"kind":        "income",
		"occurredOn":  time.Now().UTC().Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/dashboard", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[map[string]any](t, resp)
	require.EqualValues(t, "250", summary["monthIncome"])
}

func TestHandler_CashFlowRejectsBadMonths(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard/cashflow?months=99", token, nil)

	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandler_DriveFlow(t *testing.T) {
	t.Parallel()

	srv, signer := newTestServer(t)
	actorID := uuid.Must(uuid.NewV4())
	token := makeToken(t, actorID)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/drive/status", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	status := decodeBody[service.DriveStatus](t, resp)
	require.False(t, status.Connected)

	// The callback comes in unauthenticated, identified by the signed state.
	resp = doJSON(t, http.MethodGet, srv.URL+"/api/drive/callback?code=code-1&state="+signer.Sign(actorID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/drive/status", token, nil)
	status = decodeBody[service.DriveStatus](t, resp)
	require.True(t, status.Connected)
}

func TestHandler_DriveCallbackRejectsForgedState(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/drive/callback?code=code-1&state=forged")
	require.NoError(t, err)

	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandler_UploadDocument(t *testing.T) {
	t.Parallel()

	srv, signer := newTestServer(t)
	actorID := uuid.Must(uuid.NewV4())
	token := makeToken(t, actorID)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/drive/callback?code=code-1&state="+signer.Sign(actorID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("category", "contracts"))

	part, err := w.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)

	_, err = part.Write([]byte("pdf content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/documents/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	doc := decodeBody[entity.Document](t, resp)
	require.Equal(t, "report.pdf", doc.Name)
	require.Equal(t, "contracts", doc.Category)
	require.Equal(t, "file-report.pdf", doc.DriveFileID)
	require.EqualValues(t, len("pdf content"), doc.SizeBytes)
}

func TestHandler_UploadDocumentWithoutDriveLink(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	var buf bytes.Buffer

	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)

	_, err = part.Write([]byte("pdf content"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/documents/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestHandler_PrivateJobRequiresAPIKey(t *testing.T) {
	t.Parallel()

	tables := newStubTables()
	signer := security.NewStateSigner("state-secret")
	svc := service.New(tables, collection.NewSet(tables, nil), stubDrive{}, signer, noAlerts{})

	mw := api.NewMiddleware(testJWTSecret, true, "ops-key")
	srv := httptest.NewServer(api.NewRouter(api.NewHandler(svc), mw))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/private/jobs/low-stock", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/private/jobs/low-stock", nil)
	require.NoError(t, err)
	req.Header.Set("X-Api-Key", "ops-key")

	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandler_TaskStatusWireMapping(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks/", token, map[string]any{
		"projectId": uuid.Must(uuid.NewV4()).String(),
		"title":     "write report",
		"status":    "pending",
		"priority":  "high",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeBody[entity.Task](t, resp)
	require.Equal(t, entity.TaskStatusPending, created.Status)

	// An out-of-vocabulary status must be rejected, not defaulted.
	resp = doJSON(t, http.MethodPatch, srv.URL+"/api/tasks/"+created.ID.String(), token, map[string]any{
		"status": "archived",
	})

	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	if !strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		t.Fatalf("unexpected content type %q", resp.Header.Get("Content-Type"))
	}
}

func TestHandler_CreateTaskRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	token := makeToken(t, uuid.Must(uuid.NewV4()))

	// Rejected before any insert, so nothing is persisted.
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks/", token, map[string]any{
		"projectId": uuid.Must(uuid.NewV4()).String(),
		"title":     "bad status",
		"status":    "archived",
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks/", token, nil)
	require.Empty(t, decodeBody[[]entity.Task](t, resp))
}
