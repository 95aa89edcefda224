package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquivo/internal/domain/models"
	"arquivo/internal/handler"
	"arquivo/internal/middleware"
	"arquivo/internal/session"
	"arquivo/internal/store/storetest"
)

const testUser = "user-1"

func newTestServer(t *testing.T) (*httptest.Server, *storetest.Adapter, *storetest.Blobs) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter := storetest.NewAdapter()
	blobs := storetest.NewBlobs()
	sessions := session.NewRegistry(adapter, blobs, logger)
	t.Cleanup(sessions.Shutdown)

	mux := http.NewServeMux()
	handler.New(sessions, logger).Routes(mux)
	srv := httptest.NewServer(middleware.Recovery(logger)(middleware.Identity()(mux)))
	t.Cleanup(srv.Close)
	return srv, adapter, blobs
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set(middleware.IdentityHeader, testUser)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createSector(t *testing.T, srv *httptest.Server, name string) models.Sector {
	t.Helper()
	resp := do(t, srv, http.MethodPost, "/api/sectors", map[string]string{"name": name, "icon": "Folder"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Sector](t, resp)
}

func createFolder(t *testing.T, srv *httptest.Server, sectorID, name string, parentID *string) models.Folder {
	t.Helper()
	body := map[string]any{"sector_id": sectorID, "name": name}
	if parentID != nil {
		body["parent_folder_id"] = *parentID
	}
	resp := do(t, srv, http.MethodPost, "/api/folders", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Folder](t, resp)
}

func uploadDocument(t *testing.T, srv *httptest.Server, sectorID, folderID, name, content string) (*http.Response, models.Document) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("sector_id", sectorID))
	require.NoError(t, mw.WriteField("folder_id", folderID))
	require.NoError(t, mw.WriteField("name", name))
	part, err := mw.CreateFormFile("file", name+".pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/documents", &buf)
	require.NoError(t, err)
	req.Header.Set(middleware.IdentityHeader, testUser)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	if resp.StatusCode != http.StatusCreated {
		return resp, models.Document{}
	}
	return resp, decode[models.Document](t, resp)
}

func TestMissingIdentityRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/sectors")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthNeedsNoIdentity(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestFirstRequestSeedsDefaultSectors(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, srv, http.MethodGet, "/api/sectors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sectors := decode[[]models.Sector](t, resp)
	require.Len(t, sectors, 5)

	names := make([]string, len(sectors))
	for i, s := range sectors {
		names[i] = s.Name
	}
	assert.Equal(t, []string{"Financeiro", "Geral", "Marketing", "RH", "TI"}, names)
}

func TestSectorLifecycle(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Jurídico")
	assert.NotEmpty(t, sector.ID)
	assert.Equal(t, testUser, sector.CreatedBy)

	newName := "Legal"
	resp := do(t, srv, http.MethodPatch, "/api/sectors/"+sector.ID, models.SectorUpdate{Name: &newName})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[models.Sector](t, resp)
	assert.Equal(t, "Legal", updated.Name)
	assert.Equal(t, sector.Icon, updated.Icon)

	resp = do(t, srv, http.MethodDelete, "/api/sectors/"+sector.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, srv, http.MethodGet, "/api/sectors/"+sector.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateSectorValidation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/sectors", map[string]string{"icon": "Folder"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetSectorIncludesDocumentCount(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Contratos")
	folder := createFolder(t, srv, sector.ID, "2024", nil)
	resp, _ := uploadDocument(t, srv, sector.ID, folder.ID, "Contrato", "conteudo")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	got := decode[map[string]any](t, do(t, srv, http.MethodGet, "/api/sectors/"+sector.ID, nil))
	assert.Equal(t, float64(1), got["document_count"])
}

func TestFolderTreeNavigation(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "RH Local")
	parent := createFolder(t, srv, sector.ID, "2024", nil)
	child := createFolder(t, srv, sector.ID, "Janeiro", &parent.ID)

	// Root listing only shows the parent.
	resp := do(t, srv, http.MethodGet, "/api/folders?sector_id="+sector.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	roots := decode[[]models.Folder](t, resp)
	require.Len(t, roots, 1)
	assert.Equal(t, parent.ID, roots[0].ID)

	// Folder detail carries its children.
	got := decode[map[string]any](t, do(t, srv, http.MethodGet, "/api/folders/"+parent.ID, nil))
	children, ok := got["folders"].([]any)
	require.True(t, ok)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].(map[string]any)["id"])
}

func TestCreateFolderInvalidParent(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Vendas")
	missing := "no-such-folder"
	body := map[string]any{"sector_id": sector.ID, "name": "Órfã", "parent_folder_id": missing}
	resp := do(t, srv, http.MethodPost, "/api/folders", body)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteFolderRemovesSubtree(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Operações")
	parent := createFolder(t, srv, sector.ID, "Raiz", nil)
	child := createFolder(t, srv, sector.ID, "Filha", &parent.ID)
	resp, doc := uploadDocument(t, srv, sector.ID, child.ID, "Nota", "dados")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = do(t, srv, http.MethodDelete, "/api/folders/"+parent.ID, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	for _, path := range []string{
		"/api/folders/" + parent.ID,
		"/api/folders/" + child.ID,
		"/api/documents/" + doc.ID,
	} {
		resp := do(t, srv, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		resp.Body.Close()
	}
}

func TestDocumentUploadAndDownload(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Financeiro Local")
	folder := createFolder(t, srv, sector.ID, "Notas", nil)
	resp, doc := uploadDocument(t, srv, sector.ID, folder.ID, "NF-001", "corpo da nota")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "NF-001.pdf", doc.FileName)
	assert.Equal(t, int64(len("corpo da nota")), doc.FileSize)

	resp = do(t, srv, http.MethodGet, "/api/documents/"+doc.ID+"/content", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "corpo da nota", string(body))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "NF-001.pdf")
}

func TestUploadToUnknownFolderRejected(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Compras")
	resp, _ := uploadDocument(t, srv, sector.ID, "missing-folder", "Pedido", "x")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDownloadGoneContent(t *testing.T) {
	srv, adapter, _ := newTestServer(t)

	sector := createSector(t, srv, "Arquivo Morto")
	folder := createFolder(t, srv, sector.ID, "Antigos", nil)
	resp, doc := uploadDocument(t, srv, sector.ID, folder.ID, "Relatório", "x")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Simulate a record whose content reference no longer resolves: end the
	// session, blank the stored reference, reopen.
	resp = do(t, srv, http.MethodDelete, "/api/session", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()
	adapter.SetDocumentFile(doc.ID, models.FileRef{})

	resp = do(t, srv, http.MethodGet, "/api/documents/"+doc.ID+"/content", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusGone, resp.StatusCode)

	var problem struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&problem))
	assert.Equal(t, "content_unavailable", problem.Reason)
}

func TestSearchAcrossEntities(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Contratos Gerais")
	folder := createFolder(t, srv, sector.ID, "Contratos 2024", nil)
	resp, _ := uploadDocument(t, srv, sector.ID, folder.ID, "Contrato de Locação", "x")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	results := decode[models.SearchResults](t, do(t, srv, http.MethodGet, "/api/search?q=contrato", nil))
	assert.Len(t, results.Sectors, 1)
	assert.Len(t, results.Folders, 1)
	assert.Len(t, results.Documents, 1)

	results = decode[models.SearchResults](t, do(t, srv, http.MethodGet, "/api/search?q=zzz", nil))
	assert.Empty(t, results.Sectors)
	assert.NotNil(t, results.Folders)
}

func TestEndSessionReloadsWithoutReseeding(t *testing.T) {
	srv, adapter, _ := newTestServer(t)

	sector := createSector(t, srv, "Persistente")

	resp := do(t, srv, http.MethodDelete, "/api/session", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	sectors := decode[[]models.Sector](t, do(t, srv, http.MethodGet, "/api/sectors", nil))
	assert.Len(t, sectors, 6, "5 defaults plus the created one, no reseed")
	assert.Equal(t, 6, adapter.SectorCount())

	found := false
	for _, s := range sectors {
		if s.ID == sector.ID {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPersistenceFailureSurfacesAsServerError(t *testing.T) {
	srv, adapter, _ := newTestServer(t)

	// Warm the session first so Open succeeds.
	resp := do(t, srv, http.MethodGet, "/api/sectors", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	adapter.FailNext = fmt.Errorf("backend offline")
	resp = do(t, srv, http.MethodPost, "/api/sectors", map[string]string{"name": "Falha", "icon": "Folder"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestPartialUpdateLeavesOmittedFields(t *testing.T) {
	srv, _, _ := newTestServer(t)

	sector := createSector(t, srv, "Imutável")
	body := strings.NewReader(`{"icon": "Users"}`)
	req, err := http.NewRequest(http.MethodPatch, srv.URL+"/api/sectors/"+sector.ID, body)
	require.NoError(t, err)
	req.Header.Set(middleware.IdentityHeader, testUser)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	updated := decode[models.Sector](t, resp)
	assert.Equal(t, "Imutável", updated.Name)
	assert.Equal(t, "Users", updated.Icon)
}
