package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earring-market/models"
)

func TestCSVWriterWritesDerivedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "derived.csv")

	w, err := NewCSVWriter(path)
	require.NoError(t, err)

	listings := []*models.Listing{
		{
			Row: 1, Title: "CHANEL GOLD STUD", Price: 120, UnitsSold: 1,
			SaleDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Derived: models.Derived{
				Brand: "CHANEL", BrandCategory: models.CategoryHighBrand, ItemType: models.ItemStud,
				Material: "Gold", HasBox: true, Revenue: 120, PurchaseCeiling: 12180,
			},
		},
		{Row: 2, Title: "hoop", Price: 40.5, UnitsSold: 3, Derived: models.Derived{Brand: models.UnknownBrand, IsBulk: true}},
	}
	require.NoError(t, w.Write(listings))
	require.NoError(t, w.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, derivedHeader, records[0])
	assert.Equal(t, []string{
		"1", "CHANEL GOLD STUD", "", "CHANEL", "HighBrand", "Stud", "Gold",
		"120", "1", "120", "2024-01-02", "false", "false", "true", "12180",
	}, records[1])
	assert.Equal(t, "40.5", records[2][7])
	assert.Equal(t, "", records[2][10])
	assert.Equal(t, "true", records[2][11])
}

func TestFileWriterReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "index.html")
	w := NewFileWriter(path)
	assert.Equal(t, path, w.Path())

	require.NoError(t, w.WriteDocument([]byte("first")))
	require.NoError(t, w.WriteDocument([]byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestFileWriterFailsOnUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := NewFileWriter(filepath.Join(blocker, "index.html")).WriteDocument([]byte("x"))
	assert.Error(t, err)
}
