package main

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earring-market/config"
	"earring-market/models"
	"earring-market/utils"
)

const scenarioCSV = "タイトル,ブランド,価格,販売数,販売日\n" +
	"CHANEL GOLD STUD EARRINGS W/BOX,,120,1,2024-01-10\n" +
	"LOT OF 5 PAIRS SILVER HOOP EARRINGS,,40,3,2024-02-01\n" +
	"TIFFANY HEART DROP NOVELTY GIFT,TIFFANY,80,2,\n"

func testConfig(t *testing.T, input string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "listings.csv")
	require.NoError(t, os.WriteFile(inputPath, []byte(input), 0o644))

	return &config.Config{
		InputPath:          inputPath,
		OutputPath:         filepath.Join(dir, "out", "index.html"),
		DerivedCSVPath:     filepath.Join(dir, "out", "derived.csv"),
		ShippingJPY:        2700,
		ExchangeRate:       155,
		FeeRate:            0.20,
		MaxConcurrency:     2,
		TopBrands:          30,
		TopRecommendations: 20,
		TopItems:           15,
		LogLevel:           "info",
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, scenarioCSV)

	report, err := run(context.Background(), cfg, utils.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalListings)
	assert.Equal(t, 6, report.Overall.UnitsSold)
	assert.InDelta(t, 400, report.Overall.Revenue, 1e-9)
	require.Len(t, report.Brands, 2)
	assert.Equal(t, "TIFFANY", report.Brands[0].Key)
	assert.Equal(t, "2024-01-10", report.PeriodStart.Format("2006-01-02"))
	assert.Equal(t, "2024-02-01", report.PeriodEnd.Format("2006-01-02"))

	html, err := os.ReadFile(cfg.OutputPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "¥12,180")
	assert.Contains(t, string(html), "CHANEL")

	f, err := os.Open(cfg.DerivedCSVPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "CHANEL", records[1][3])
	assert.Equal(t, models.UnknownBrand, records[2][3])
	assert.Equal(t, "Drop/Dangle", records[3][5])
}

func TestRunWithoutDerivedExport(t *testing.T) {
	cfg := testConfig(t, scenarioCSV)
	cfg.DerivedCSVPath = ""

	_, err := run(context.Background(), cfg, utils.NewNopLogger())
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(filepath.Dir(cfg.OutputPath), "derived.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunMissingColumn(t *testing.T) {
	cfg := testConfig(t, "タイトル,ブランド,販売数,販売日\nx,,1,\n")

	_, err := run(context.Background(), cfg, utils.NewNopLogger())
	require.Error(t, err)

	var ie *models.InputError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "価格", ie.Column)
	assert.Contains(t, err.Error(), "価格")

	_, statErr := os.Stat(cfg.OutputPath)
	assert.True(t, os.IsNotExist(statErr), "no dashboard is written on input errors")
}

func TestRunMissingFile(t *testing.T) {
	cfg := testConfig(t, scenarioCSV)
	cfg.InputPath = filepath.Join(t.TempDir(), "absent.csv")

	_, err := run(context.Background(), cfg, utils.NewNopLogger())

	var ie *models.InputError
	require.True(t, errors.As(err, &ie))
	assert.True(t, strings.Contains(err.Error(), "absent.csv"))
}

func TestRunBadPrice(t *testing.T) {
	cfg := testConfig(t, "title,brand,price,units,date\nok,,10,1,\nbad,,ten dollars,1,\n")

	_, err := run(context.Background(), cfg, utils.NewNopLogger())

	var dfe *models.DataFormatError
	require.True(t, errors.As(err, &dfe))
	assert.Equal(t, 2, dfe.Row)
	assert.Equal(t, "ten dollars", dfe.Value)
}

func TestRunCustomRules(t *testing.T) {
	cfg := testConfig(t, "title,brand,price,units,date\nacme ring stud,,10,1,\n")
	cfg.RulesPath = filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(cfg.RulesPath, []byte(
		"item_types:\n  rules:\n    - label: Ring\n      any: [RING]\nbrands:\n  other: [ACME]\n"), 0o644))

	report, err := run(context.Background(), cfg, utils.NewNopLogger())
	require.NoError(t, err)

	require.Len(t, report.Brands, 1)
	assert.Equal(t, "ACME", report.Brands[0].Key)
	assert.Equal(t, "Ring", report.ItemTypes[0].Key)
	assert.Equal(t, 1, report.ItemTypes[0].Count)
}
