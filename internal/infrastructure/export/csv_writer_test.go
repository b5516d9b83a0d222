package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteMart(t *testing.T) {
	dataDir := t.TempDir()
	w := NewWriter(dataDir)

	header := []string{"week", "warehouse_section", "utilization_pct"}
	records := [][]string{
		{"2018_13", "KA", "61.2"},
		{"2018_13", "KB", "38.8"},
	}
	require.NoError(t, w.WriteMart("warehouse_utilization", "warehouse_utilization.csv", header, records))

	path := filepath.Join(dataDir, "marts", "warehouse_utilization", "warehouse_utilization.csv")
	got := readCSV(t, path)

	want := append([][]string{header}, records...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("artifact mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMartReplacesPrevious(t *testing.T) {
	dataDir := t.TempDir()
	w := NewWriter(dataDir)

	header := []string{"week", "avg_products"}
	require.NoError(t, w.WriteMart("avg_products_per_order", "avg_products_per_order.csv", header,
		[][]string{{"2018_13", "3.5"}, {"2018_14", "2.0"}}))
	require.NoError(t, w.WriteMart("avg_products_per_order", "avg_products_per_order.csv", header,
		[][]string{{"2018_15", "4.25"}}))

	path := filepath.Join(dataDir, "marts", "avg_products_per_order", "avg_products_per_order.csv")
	got := readCSV(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"2018_15", "4.25"}, got[1])

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteMartEmptyRecords(t *testing.T) {
	dataDir := t.TempDir()
	w := NewWriter(dataDir)

	require.NoError(t, w.WriteMart("order_mix", "order_mix.csv", []string{"order_date", "sk_order_id"}, nil))

	got := readCSV(t, filepath.Join(dataDir, "marts", "order_mix", "order_mix.csv"))
	require.Len(t, got, 1)
	assert.Equal(t, []string{"order_date", "sk_order_id"}, got[0])
}
