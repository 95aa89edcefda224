package store_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
	"arquivo/internal/store"
	"arquivo/internal/store/storetest"
)

func newTestStore(t *testing.T) (*store.Store, *storetest.Adapter, *storetest.Blobs) {
	t.Helper()

	adapter := storetest.NewAdapter()
	blobs := storetest.NewBlobs()

	s, err := store.New(adapter, blobs, "user-1", nil)
	require.NoError(t, err)
	require.NoError(t, s.Open(context.Background()))

	return s, adapter, blobs
}

func addSector(t *testing.T, s *store.Store, name string) *models.Sector {
	t.Helper()
	sec, err := s.AddSector(context.Background(), store.CreateSectorRequest{Name: name, Icon: "Folder"})
	require.NoError(t, err)
	return sec
}

func addFolder(t *testing.T, s *store.Store, sectorID string, parentID *string, name string) *models.Folder {
	t.Helper()
	f, err := s.AddFolder(context.Background(), store.CreateFolderRequest{
		SectorID: sectorID,
		ParentID: parentID,
		Name:     name,
	})
	require.NoError(t, err)
	return f
}

func addDocument(t *testing.T, s *store.Store, sectorID, folderID, name string) *models.Document {
	t.Helper()
	d, err := s.AddDocument(context.Background(), store.CreateDocumentRequest{
		SectorID: sectorID,
		FolderID: folderID,
		Name:     name,
		Type:     models.DocumentTypePDF,
		Content:  strings.NewReader("content of " + name),
		FileName: name + ".pdf",
		FileSize: 2048,
		MimeType: "application/pdf",
	})
	require.NoError(t, err)
	return d
}

func TestNew_RequiresIdentity(t *testing.T) {
	_, err := store.New(storetest.NewAdapter(), storetest.NewBlobs(), "", nil)
	require.ErrorIs(t, err, domain.ErrNoSession)
}

func TestOpen_SeedsDefaultSectors(t *testing.T) {
	s, adapter, _ := newTestStore(t)

	sectors := s.Sectors()
	require.Len(t, sectors, 5)
	assert.Equal(t, adapter.SectorCount(), len(sectors))

	names := make(map[string]string)
	for _, sec := range sectors {
		names[sec.Name] = sec.Icon
		assert.Equal(t, "user-1", sec.CreatedBy)
		assert.NotEmpty(t, sec.ID)
	}
	assert.Equal(t, "Users", names["RH"])
	assert.Equal(t, "DollarSign", names["Financeiro"])
}

func TestOpen_DoesNotReseedExistingData(t *testing.T) {
	s, adapter, blobs := newTestStore(t)
	sec := addSector(t, s, "Jurídico")
	s.Close()
	assert.Empty(t, s.Sectors())

	// A second session over the same backend sees the same data.
	s2, err := store.New(adapter, blobs, "user-2", nil)
	require.NoError(t, err)
	require.NoError(t, s2.Open(context.Background()))

	require.Len(t, s2.Sectors(), 6)
	got, ok := s2.Sector(sec.ID)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.CreatedBy)
}

func TestAddSector_PersistenceFailureLeavesMemoryUntouched(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	before := len(s.Sectors())

	adapter.FailNext = errors.New("backend down")
	_, err := s.AddSector(context.Background(), store.CreateSectorRequest{Name: "Obras", Icon: "Hammer"})
	require.Error(t, err)

	assert.Len(t, s.Sectors(), before)
}

func TestAddSector_Validation(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.AddSector(context.Background(), store.CreateSectorRequest{Icon: "Folder"})
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = s.AddSector(context.Background(), store.CreateSectorRequest{Name: "Obras"})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestUpdateSector_PartialFieldsOnly(t *testing.T) {
	s, _, _ := newTestStore(t)
	color := "#ff7700"
	sec, err := s.AddSector(context.Background(), store.CreateSectorRequest{
		Name: "Obras", Icon: "Hammer", Color: &color,
	})
	require.NoError(t, err)

	newName := "Engenharia"
	require.NoError(t, s.UpdateSector(context.Background(), sec.ID, models.SectorUpdate{Name: &newName}))

	got, ok := s.Sector(sec.ID)
	require.True(t, ok)
	assert.Equal(t, "Engenharia", got.Name)
	assert.Equal(t, "Hammer", got.Icon, "unspecified field changed")
	require.NotNil(t, got.Color)
	assert.Equal(t, color, *got.Color, "unspecified field changed")
}

func TestUpdateSector_MissingIDIsNoOp(t *testing.T) {
	s, _, _ := newTestStore(t)
	name := "x"
	require.NoError(t, s.UpdateSector(context.Background(), "nope", models.SectorUpdate{Name: &name}))
}

func TestDeleteSector_CascadesToFoldersAndDocuments(t *testing.T) {
	s, adapter, blobs := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	d := addDocument(t, s, sec.ID, f.ID, "Planta")

	other := addSector(t, s, "Outro")
	of := addFolder(t, s, other.ID, nil, "Mantém")
	od := addDocument(t, s, other.ID, of.ID, "Sobrevive")

	require.NoError(t, s.DeleteSector(context.Background(), sec.ID))

	_, ok := s.Sector(sec.ID)
	assert.False(t, ok)
	_, ok = s.Folder(f.ID)
	assert.False(t, ok)
	_, ok = s.Document(d.ID)
	assert.False(t, ok)

	require.Len(t, blobs.Released, 1)
	assert.Equal(t, d.File, blobs.Released[0])

	// The unrelated sector is untouched, in memory and in the backend.
	_, ok = s.Folder(of.ID)
	assert.True(t, ok)
	_, ok = s.Document(od.ID)
	assert.True(t, ok)
	assert.Equal(t, 1, adapter.FolderCount())
	assert.Equal(t, 1, adapter.DocumentCount())

	// Idempotent on the missing id.
	require.NoError(t, s.DeleteSector(context.Background(), sec.ID))
}

func TestDeleteSector_NonCascadingAdapterStripsRows(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	adapter.CascadeDeletes = false

	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	sub := addFolder(t, s, sec.ID, &f.ID, "Janeiro")
	addDocument(t, s, sec.ID, sub.ID, "Relatório")

	require.NoError(t, s.DeleteSector(context.Background(), sec.ID))

	assert.Equal(t, 0, adapter.FolderCount())
	assert.Equal(t, 0, adapter.DocumentCount())
	assert.Empty(t, s.FoldersByParent(sec.ID, nil))
}

func TestDeleteFolder_RemovesExactSubtree(t *testing.T) {
	s, _, blobs := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	root := addFolder(t, s, sec.ID, nil, "Raiz")
	childA := addFolder(t, s, sec.ID, &root.ID, "A")
	childB := addFolder(t, s, sec.ID, &root.ID, "B")
	grand := addFolder(t, s, sec.ID, &childA.ID, "A1")
	sibling := addFolder(t, s, sec.ID, nil, "Fora")

	inRoot := addDocument(t, s, sec.ID, root.ID, "d-root")
	inGrand := addDocument(t, s, sec.ID, grand.ID, "d-grand")
	outside := addDocument(t, s, sec.ID, sibling.ID, "d-outside")

	require.NoError(t, s.DeleteFolder(context.Background(), root.ID))

	for _, id := range []string{root.ID, childA.ID, childB.ID, grand.ID} {
		_, ok := s.Folder(id)
		assert.False(t, ok, "folder %s should be gone", id)
	}
	_, ok := s.Folder(sibling.ID)
	assert.True(t, ok)

	_, ok = s.Document(inRoot.ID)
	assert.False(t, ok)
	_, ok = s.Document(inGrand.ID)
	assert.False(t, ok)
	_, ok = s.Document(outside.ID)
	assert.True(t, ok)

	released := make(map[string]bool)
	for _, ref := range blobs.Released {
		released[ref.Locator] = true
	}
	assert.True(t, released[inRoot.File.Locator])
	assert.True(t, released[inGrand.File.Locator])
	assert.False(t, released[outside.File.Locator])

	// Idempotent on the missing id.
	require.NoError(t, s.DeleteFolder(context.Background(), root.ID))
}

func TestDeleteFolder_NonCascadingAdapterStripsRows(t *testing.T) {
	s, adapter, _ := newTestStore(t)
	adapter.CascadeDeletes = false

	sec := addSector(t, s, "Projetos")
	root := addFolder(t, s, sec.ID, nil, "Raiz")
	child := addFolder(t, s, sec.ID, &root.ID, "Filho")
	addDocument(t, s, sec.ID, child.ID, "doc")
	keep := addFolder(t, s, sec.ID, nil, "Mantém")

	require.NoError(t, s.DeleteFolder(context.Background(), root.ID))

	assert.Equal(t, 1, adapter.FolderCount())
	assert.Equal(t, 0, adapter.DocumentCount())
	_, ok := s.Folder(keep.ID)
	assert.True(t, ok)
}

func TestSectorDocumentCount(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	sub := addFolder(t, s, sec.ID, &f.ID, "Janeiro")

	d1 := addDocument(t, s, sec.ID, f.ID, "um")
	addDocument(t, s, sec.ID, sub.ID, "dois")
	assert.Equal(t, 2, s.SectorDocumentCount(sec.ID))

	require.NoError(t, s.DeleteDocument(context.Background(), d1.ID))
	assert.Equal(t, 1, s.SectorDocumentCount(sec.ID))
	assert.Equal(t, 0, s.SectorDocumentCount("unknown"))
}

func TestFolderDocumentCount_NonRecursive(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	sub := addFolder(t, s, sec.ID, &f.ID, "Janeiro")

	addDocument(t, s, sec.ID, f.ID, "direto")
	addDocument(t, s, sec.ID, sub.ID, "aninhado")

	assert.Equal(t, 1, s.FolderDocumentCount(f.ID))
	assert.Equal(t, 1, s.FolderDocumentCount(sub.ID))
}

func TestFoldersByParent(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	other := addSector(t, s, "Outro")
	b := addFolder(t, s, sec.ID, nil, "Beta")
	a := addFolder(t, s, sec.ID, nil, "Alfa")
	child := addFolder(t, s, sec.ID, &a.ID, "Filho")
	addFolder(t, s, other.ID, nil, "Alheio")

	roots := s.FoldersByParent(sec.ID, nil)
	require.Len(t, roots, 2)
	assert.Equal(t, a.ID, roots[0].ID, "name order")
	assert.Equal(t, b.ID, roots[1].ID)

	children := s.FoldersByParent(sec.ID, &a.ID)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)

	assert.Empty(t, s.FoldersByParent(sec.ID, &b.ID))
}

func TestAddFolder_RejectsInvalidReferences(t *testing.T) {
	s, _, _ := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	other := addSector(t, s, "Outro")
	parent := addFolder(t, s, other.ID, nil, "Alheio")

	_, err := s.AddFolder(context.Background(), store.CreateFolderRequest{
		SectorID: "missing", Name: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	missing := "missing-parent"
	_, err = s.AddFolder(context.Background(), store.CreateFolderRequest{
		SectorID: sec.ID, ParentID: &missing, Name: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidReference)

	// Parent from another sector violates the same-sector invariant.
	_, err = s.AddFolder(context.Background(), store.CreateFolderRequest{
		SectorID: sec.ID, ParentID: &parent.ID, Name: "x",
	})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
}

func TestAddDocument_RejectsInvalidReferences(t *testing.T) {
	s, _, blobs := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	other := addSector(t, s, "Outro")
	f := addFolder(t, s, other.ID, nil, "Alheio")

	_, err := s.AddDocument(context.Background(), store.CreateDocumentRequest{
		SectorID: sec.ID,
		FolderID: f.ID, // folder belongs to another sector
		Name:     "x",
		Type:     models.DocumentTypePDF,
		Content:  strings.NewReader("x"),
		FileName: "x.pdf",
	})
	require.ErrorIs(t, err, domain.ErrInvalidReference)
	assert.Zero(t, blobs.Stored(), "no content stored for a rejected document")
}

func TestAddDocument_RejectsUnknownType(t *testing.T) {
	s, _, _ := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")

	_, err := s.AddDocument(context.Background(), store.CreateDocumentRequest{
		SectorID: sec.ID,
		FolderID: f.ID,
		Name:     "x",
		Type:     "spreadsheet",
		Content:  strings.NewReader("x"),
		FileName: "x.xlsx",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAddDocument_InsertFailureReleasesStoredContent(t *testing.T) {
	s, adapter, blobs := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")

	adapter.FailNext = errors.New("backend down")
	_, err := s.AddDocument(context.Background(), store.CreateDocumentRequest{
		SectorID: sec.ID,
		FolderID: f.ID,
		Name:     "x",
		Type:     models.DocumentTypePDF,
		Content:  strings.NewReader("x"),
		FileName: "x.pdf",
	})
	require.Error(t, err)

	assert.Zero(t, blobs.Stored(), "orphan blob left after failed insert")
	assert.Empty(t, s.DocumentsByFolder(f.ID))
}

func TestUpdateDocument_PartialFieldsOnly(t *testing.T) {
	s, _, _ := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	d := addDocument(t, s, sec.ID, f.ID, "Contrato")

	desc := "versão assinada"
	require.NoError(t, s.UpdateDocument(context.Background(), d.ID, models.DocumentUpdate{Description: &desc}))

	got, ok := s.Document(d.ID)
	require.True(t, ok)
	assert.Equal(t, "Contrato", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
	assert.Equal(t, d.File, got.File, "file reference must never change")
	assert.Equal(t, d.Type, got.Type, "type is immutable")

	require.NoError(t, s.UpdateDocument(context.Background(), "missing", models.DocumentUpdate{Name: &desc}))
}

func TestDeleteDocument_ReleasesContent(t *testing.T) {
	s, adapter, blobs := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	d := addDocument(t, s, sec.ID, f.ID, "Contrato")

	require.NoError(t, s.DeleteDocument(context.Background(), d.ID))
	require.Len(t, blobs.Released, 1)
	assert.Equal(t, d.File, blobs.Released[0])
	assert.Equal(t, 0, adapter.DocumentCount())

	// Idempotent, and no double release.
	require.NoError(t, s.DeleteDocument(context.Background(), d.ID))
	assert.Len(t, blobs.Released, 1)
}

func TestOpenDocument(t *testing.T) {
	s, _, blobs := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2023")
	d := addDocument(t, s, sec.ID, f.ID, "Contrato")

	rc, err := s.OpenDocument(context.Background(), d.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, "content of Contrato", string(data))

	// Content vanishing behind the record surfaces as unavailable.
	require.NoError(t, blobs.Release(context.Background(), d.File))
	_, err = s.OpenDocument(context.Background(), d.ID)
	require.ErrorIs(t, err, domain.ErrContentUnavailable)

	_, err = s.OpenDocument(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScenario_SectorFolderDocumentLifecycle(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec, err := s.AddSector(context.Background(), store.CreateSectorRequest{Name: "RH Ops", Icon: "Users"})
	require.NoError(t, err)
	require.NotEmpty(t, sec.ID)

	folder, err := s.AddFolder(context.Background(), store.CreateFolderRequest{
		SectorID: sec.ID, Name: "2024",
	})
	require.NoError(t, err)
	assert.Nil(t, folder.ParentID)

	_, err = s.AddDocument(context.Background(), store.CreateDocumentRequest{
		SectorID: sec.ID,
		FolderID: folder.ID,
		Name:     "Contrato",
		Type:     models.DocumentTypePDF,
		Content:  strings.NewReader("pdf bytes"),
		FileName: "contrato.pdf",
		FileSize: 2048,
		MimeType: "application/pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, s.FolderDocumentCount(folder.ID))
	assert.Equal(t, 1, s.SectorDocumentCount(sec.ID))

	require.NoError(t, s.DeleteFolder(context.Background(), folder.ID))
	assert.Equal(t, 0, s.FolderDocumentCount(folder.ID))
	assert.Equal(t, 0, s.SectorDocumentCount(sec.ID))
}
