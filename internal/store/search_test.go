package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arquivo/internal/domain/models"
)

func TestSearch_CaseInsensitiveSubstring(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec := addSector(t, s, "Financeiro Norte")
	f := addFolder(t, s, sec.ID, nil, "Notas Fiscais")
	d := addDocument(t, s, sec.ID, f.ID, "Balanço ANUAL")

	results := s.Search("anual")
	require.Len(t, results.Documents, 1)
	assert.Equal(t, d.ID, results.Documents[0].ID)

	results = s.Search("FISCAIS")
	require.Len(t, results.Folders, 1)
	assert.Equal(t, f.ID, results.Folders[0].ID)

	results = s.Search("norte")
	require.Len(t, results.Sectors, 1)
	assert.Equal(t, sec.ID, results.Sectors[0].ID)
}

func TestSearch_MatchesDocumentDescription(t *testing.T) {
	s, _, _ := newTestStore(t)

	sec := addSector(t, s, "Projetos")
	f := addFolder(t, s, sec.ID, nil, "2024")
	d := addDocument(t, s, sec.ID, f.ID, "Anexo 3")

	desc := "ata da reunião de diretoria"
	require.NoError(t, s.UpdateDocument(context.Background(), d.ID, models.DocumentUpdate{Description: &desc}))

	results := s.Search("diretoria")
	require.Len(t, results.Documents, 1)
	assert.Equal(t, d.ID, results.Documents[0].ID)
}

func TestSearch_NoMatchesReturnsEmptyLists(t *testing.T) {
	s, _, _ := newTestStore(t)
	addSector(t, s, "Projetos")

	results := s.Search("zzz-does-not-exist")
	assert.True(t, results.Empty())
	assert.NotNil(t, results.Sectors)
	assert.NotNil(t, results.Folders)
	assert.NotNil(t, results.Documents)
}

func TestSearch_EmptyQueryMatchesEverything(t *testing.T) {
	s, _, _ := newTestStore(t)
	sec := addSector(t, s, "Projetos")
	addFolder(t, s, sec.ID, nil, "2024")

	results := s.Search("")
	assert.Len(t, results.Sectors, len(s.Sectors()))
	assert.Len(t, results.Folders, 1)
	assert.Empty(t, results.Documents)
}
