package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/config"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore implements the Store interface without a database.
type fakeStore struct {
	snapshot    map[string]importer.Record
	snapshotErr error
	applied     []importer.ReconciliationSummary
	runs        []store.RunRecord
}

func (f *fakeStore) Snapshot(_ context.Context, _ string) (map[string]importer.Record, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	if f.snapshot == nil {
		return map[string]importer.Record{}, nil
	}
	return f.snapshot, nil
}

func (f *fakeStore) Apply(_ context.Context, importType, fileName string, result *importer.ImportResult, summary importer.ReconciliationSummary) (store.RunRecord, error) {
	f.applied = append(f.applied, summary)
	return store.RunRecord{
		ID:         uuid.New(),
		ImportType: importType,
		FileName:   fileName,
		TotalRows:  result.TotalRows,
		Accepted:   len(result.Accepted),
		Rejected:   len(result.Errors),
		Created:    summary.Created,
		Updated:    summary.Updated,
		Skipped:    summary.Skipped,
		Archived:   summary.Archived,
		CreatedAt:  time.Now(),
	}, nil
}

func (f *fakeStore) Run(_ context.Context, id uuid.UUID) (store.RunRecord, error) {
	for _, r := range f.runs {
		if r.ID == id {
			return r, nil
		}
	}
	return store.RunRecord{}, errors.New("run not found")
}

func (f *fakeStore) Runs(_ context.Context, importType string, _ int) ([]store.RunRecord, error) {
	if importType == "" {
		return f.runs, nil
	}
	var out []store.RunRecord
	for _, r := range f.runs {
		if r.ImportType == importType {
			out = append(out, r)
		}
	}
	return out, nil
}

func testServer(t *testing.T, fs *fakeStore) *Server {
	t.Helper()

	importer.Clear()
	t.Cleanup(importer.Clear)
	importer.Register(importer.ParseConfig{
		Key:        "guards",
		Label:      "Guards",
		NaturalKey: []string{"code"},
		Fields: []importer.FieldSpec{
			{Name: "code", Synonyms: []string{"Guard Code"}, Required: true},
			{Name: "name", Synonyms: []string{"Full Name"}, Required: true},
		},
	})

	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 30 * time.Second
	cfg.Server.AllowedOrigins = []string{"*"}
	cfg.Import.MaxFileSize = 1 << 20

	return NewServer(fs, cfg)
}

// multipartBody builds the multipart request body for a file upload plus
// optional form fields.
func multipartBody(t *testing.T, csv string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "upload.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte(csv))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := testServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListImports(t *testing.T) {
	s := testServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/imports", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var infos []ImportTypeInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "guards", infos[0].Key)
	assert.Equal(t, []string{"Guard Code", "Full Name"}, infos[0].Headers)
	assert.Equal(t, []string{"code", "name"}, infos[0].RequiredFields)
}

func TestTemplate(t *testing.T) {
	s := testServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template/guards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "Guard Code,Full Name\n", rec.Body.String())
}

func TestTemplateUnknownType(t *testing.T) {
	s := testServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/template/payslips", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, importer.CodeUnknownType, resp.Code)
}

func TestPreviewDoesNotWrite(t *testing.T) {
	fs := &fakeStore{snapshot: map[string]importer.Record{
		"G1": {"code": "G1", "name": "Alice"},
	}}
	s := testServer(t, fs)

	body, contentType := multipartBody(t, "Guard Code,Full Name\nG1,Alicia\nG2,Bob\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/guards/preview", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp PreviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Summary)
	assert.Equal(t, 1, resp.Summary.Updated)
	assert.Equal(t, 1, resp.Summary.Created)
	assert.Empty(t, fs.applied, "preview must not apply anything")
}

func TestImportApplies(t *testing.T) {
	fs := &fakeStore{}
	s := testServer(t, fs)

	body, contentType := multipartBody(t, "Guard Code,Full Name\nG1,Alice\nG2,\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/guards", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, fs.applied, 1)

	var run store.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &run))
	assert.Equal(t, "guards", run.ImportType)
	assert.Equal(t, "upload.csv", run.FileName)
	assert.Equal(t, 2, run.TotalRows)
	assert.Equal(t, 1, run.Accepted)
	assert.Equal(t, 1, run.Rejected)
	assert.Equal(t, 1, run.Created)
}

func TestImportOptionSwitches(t *testing.T) {
	fs := &fakeStore{snapshot: map[string]importer.Record{
		"G1": {"code": "G1", "name": "Alice"},
		"G9": {"code": "G9", "name": "Zed"},
	}}
	s := testServer(t, fs)

	body, contentType := multipartBody(t, "Guard Code,Full Name\nG1,Alicia\nG2,Bob\n",
		map[string]string{"addNew": "false", "archiveMissing": "true"})
	req := httptest.NewRequest(http.MethodPost, "/api/import/guards", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, fs.applied, 1)
	summary := fs.applied[0]
	assert.Equal(t, 0, summary.Created, "addNew=false must suppress creates")
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Archived, "G9 absent from file must be archived")
}

func TestImportStructuralError(t *testing.T) {
	s := testServer(t, &fakeStore{})

	body, contentType := multipartBody(t, "Full Name\nAlice\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/guards", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, importer.CodeMissingColumns, resp.Code)
	assert.Equal(t, []string{"code"}, resp.Details)
}

func TestImportNoFile(t *testing.T) {
	s := testServer(t, &fakeStore{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("updateExisting", "true"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/import/guards", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "FILE004", resp.Code)
}

func TestImportUnknownType(t *testing.T) {
	s := testServer(t, &fakeStore{})

	body, contentType := multipartBody(t, "Guard Code,Full Name\nG1,Alice\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/payslips", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRun(t *testing.T) {
	run := store.RunRecord{ID: uuid.New(), ImportType: "guards"}
	s := testServer(t, &fakeStore{runs: []store.RunRecord{run}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/"+run.ID.String(), nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got store.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, run.ID, got.ID)
}

func TestGetRunBadID(t *testing.T) {
	s := testServer(t, &fakeStore{})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRunsFilter(t *testing.T) {
	s := testServer(t, &fakeStore{runs: []store.RunRecord{
		{ID: uuid.New(), ImportType: "guards"},
		{ID: uuid.New(), ImportType: "policies"},
	}})

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/runs?type=guards", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var runs []store.RunRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, "guards", runs[0].ImportType)
}

func TestSnapshotFailure(t *testing.T) {
	s := testServer(t, &fakeStore{snapshotErr: errors.New("connection refused")})

	body, contentType := multipartBody(t, "Guard Code,Full Name\nG1,Alice\n", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/import/guards/preview", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "DB003", resp.Code)
}
