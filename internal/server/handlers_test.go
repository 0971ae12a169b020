package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plainclause/plainclause/constants"
	"github.com/plainclause/plainclause/internal/entity"
	"github.com/plainclause/plainclause/internal/export"
	"github.com/plainclause/plainclause/internal/extract"
	"github.com/plainclause/plainclause/internal/llm"
	"github.com/plainclause/plainclause/internal/repository"
)

type stubProcessor struct {
	err    error
	answer string
}

func (s *stubProcessor) Process(_ context.Context, documentText, documentType string) (*entity.AnalysisRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &entity.AnalysisRecord{
		Summary:             "<div class='summary-section'><p>Summary of " + documentType + "</p></div>",
		KeyClauses:          []string{"<div class='clause-item'>Rent</div>"},
		HighlightedDocument: "<div class='document-text'>" + documentText + "</div>",
		ClauseReferences:    map[string][]string{"clause_1": {}},
		Analysis: llm.Analysis{
			Summary:    "Summary",
			KeyClauses: []llm.Clause{{Title: "Rent", Explanation: "Rent is due monthly", Importance: "High"}},
			Risk:       llm.RiskAssessment{OverallRisk: 7},
		},
	}, nil
}

func (s *stubProcessor) Answer(_ context.Context, _, question string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "<div class='qa-response'><p>" + question + "</p></div>", nil
}

func newTestRouter(t *testing.T, proc DocumentProcessor) (*gin.Engine, repository.DocumentRepository) {
	t.Helper()
	db, err := repository.Open(context.Background(), repository.Config{DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	docs := repository.NewDocumentRepository(db, nil)
	require.NoError(t, docs.Migrate(context.Background()))

	h := NewHandler(extract.NewExtractor(nil), proc, docs, export.NewService(docs, nil), nil)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.register(r)
	return r, docs
}

func multipartUpload(t *testing.T, filename, content, documentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	if documentType != "" {
		require.NoError(t, w.WriteField("document_type", documentType))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const docText = "The tenant must pay rent on the first of every month."

func uploadDocument(t *testing.T, r *gin.Engine) uuid.UUID {
	t.Helper()
	body, contentType := multipartUpload(t, "lease.txt", docText, "lease")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var doc entity.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	return doc.ID
}

func TestUploadDocument(t *testing.T) {
	r, docs := newTestRouter(t, &stubProcessor{})

	id := uploadDocument(t, r)

	stored, err := docs.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "lease.txt", stored.Filename)
	assert.Equal(t, "lease", stored.DocumentType)
	assert.Equal(t, docText, stored.OriginalText)
	assert.Equal(t, 7, stored.RiskScore)
	assert.Equal(t, constants.StatusCompleted, stored.Status)
	require.NotNil(t, stored.Analysis)
	assert.Contains(t, stored.Analysis.HighlightedDocument, docText)
}

func TestUploadUnsupportedExtension(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})

	body, contentType := multipartUpload(t, "contract.docx", "whatever", "")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported file type")
}

func TestUploadEmptyDocument(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})

	body, contentType := multipartUpload(t, "empty.txt", "   \n", "")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "no extractable text")
}

func TestUploadProcessingFailureStoresFailedRow(t *testing.T) {
	r, docs := newTestRouter(t, &stubProcessor{err: errors.New("model down")})

	body, contentType := multipartUpload(t, "lease.txt", docText, "lease")
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	list, err := docs.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, constants.StatusFailed, list[0].Status)
}

func TestGetDocument(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})
	id := uploadDocument(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+id.String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var doc entity.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, id, doc.ID)
	require.NotNil(t, doc.Analysis)
	assert.Contains(t, doc.Analysis.Summary, "Summary of lease")
}

func TestGetDocumentNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/documents/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListDocuments(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})
	uploadDocument(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/documents", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Documents []entity.Document `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "lease.txt", resp.Documents[0].Filename)
}

func TestAskQuestion(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})
	id := uploadDocument(t, r)

	payload := strings.NewReader(`{"question": "Can I sublet?"}`)
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/documents/%s/questions", id), payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Can I sublet?", resp["question"])
	assert.Contains(t, resp["answer"], "qa-response")
}

func TestAskQuestionMissingBody(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})
	id := uploadDocument(t, r)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/documents/%s/questions", id), strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportDocument(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})
	id := uploadDocument(t, r)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/documents/%s/export", id), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".xlsx")
	assert.NotEmpty(t, rec.Body.Bytes())
}

func TestExportMissingDocument(t *testing.T) {
	r, _ := newTestRouter(t, &stubProcessor{})

	req := httptest.NewRequest(http.MethodGet, "/api/documents/"+uuid.NewString()+"/export", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
