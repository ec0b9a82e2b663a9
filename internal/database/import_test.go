package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyFixture = `[
	{
		"symbol": "KO",
		"name": "Coca-Cola",
		"type": "Ação",
		"shares": 0.30126924,
		"purchase_price": 69.71,
		"purchase_date": "2024-01-10",
		"notes": "dividendos"
	},
	{
		"symbol": "GLD",
		"name": "SPDR Gold Shares",
		"type": "Commodity",
		"shares": 1.58998999,
		"purchase_price": 264.15,
		"purchase_date": "2024-02-20",
		"notes": ""
	}
]`

func TestImportLegacyAssets(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	writeFixture := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "assets.json")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("imports legacy rows and maps Portuguese types", func(t *testing.T) {
		testDB.TruncateAll(t)

		imported, err := testDB.ImportLegacyAssets(writeFixture(t, legacyFixture))
		require.NoError(t, err)
		assert.Equal(t, 2, imported)

		ko, err := testDB.GetAsset("KO")
		require.NoError(t, err)
		assert.Equal(t, "Coca-Cola", ko.Name)
		assert.EqualValues(t, "Stock", ko.Type)
		assert.True(t, decimal.NewFromFloat(0.30126924).Equal(ko.Shares))
	})

	t.Run("re-running the import skips existing symbols", func(t *testing.T) {
		testDB.TruncateAll(t)
		path := writeFixture(t, legacyFixture)

		imported, err := testDB.ImportLegacyAssets(path)
		require.NoError(t, err)
		assert.Equal(t, 2, imported)

		imported, err = testDB.ImportLegacyAssets(path)
		require.NoError(t, err)
		assert.Equal(t, 0, imported)

		assets, err := testDB.GetAllAssets()
		require.NoError(t, err)
		assert.Len(t, assets, 2)
	})

	t.Run("fails on missing file", func(t *testing.T) {
		_, err := testDB.ImportLegacyAssets(filepath.Join(t.TempDir(), "missing.json"))
		require.Error(t, err)
	})
}
