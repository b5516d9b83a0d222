package csvsource_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/infrastructure/csvsource"
)

// writeSource writes a raw file under <dataDir>/source. Content is written
// byte for byte, so tests can feed ISO-8859-1 encoded input.
func writeSource(t *testing.T, dataDir, name string, content []byte) {
	t.Helper()
	dir := filepath.Join(dataDir, "source")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
}

func TestReadPicks(t *testing.T) {
	dataDir := t.TempDir()
	// Three picks: a regular one, a zero volume and a return.
	writeSource(t, dataDir, csvsource.PickDataFile, []byte(
		"P100,HRL,46,1001,1,12,ST,2018-03-26 08:58:05.000\n"+
			"P101,KOM,48,1002,1,0,ST,2018-03-26 09:15:41.000\n"+
			"P100,HRL,48,1003,2,-3,ST,2018-03-27 11:02:00.000\n",
	))

	src := csvsource.New(dataDir)
	picks, anomalies, err := src.ReadPicks(context.Background())
	require.NoError(t, err)
	require.Len(t, picks, 3)

	first := picks[0]
	assert.Equal(t, "P100", first.ProductID)
	assert.Equal(t, "HRL", first.WarehouseSection)
	assert.Equal(t, int16(46), first.Origin)
	assert.Equal(t, "1001", first.OrderNumber)
	assert.Equal(t, 12, first.PickVolume)
	assert.Equal(t, time.Date(2018, 3, 26, 8, 58, 5, 0, time.UTC), first.PickTimestamp)
	assert.Equal(t, time.Date(2018, 3, 26, 0, 0, 0, 0, time.UTC), first.PickDate)

	// Anomalous volumes are staged, not dropped
	assert.Equal(t, int64(1), anomalies.ZeroVolume)
	assert.Equal(t, int64(1), anomalies.NegativeVolume)
	assert.Equal(t, 0, picks[1].PickVolume)
	assert.Equal(t, -3, picks[2].PickVolume)
}

func TestReadProducts_DecodesLatin1(t *testing.T) {
	dataDir := t.TempDir()
	// 0xE4 is "ä" in ISO-8859-1: Sägeblatt / Werkzeug
	writeSource(t, dataDir, csvsource.ProductDetailsFile, []byte(
		"P100,S\xe4geblatt 250mm,Werkzeug\nP101,D\xfcbel 8mm,Befestigung\n",
	))

	src := csvsource.New(dataDir)
	products, err := src.ReadProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Sägeblatt 250mm", products[0].Description)
	assert.Equal(t, "Dübel 8mm", products[1].Description)
	assert.Equal(t, "Werkzeug", products[0].Group)
}

func TestReadWarehouseSections(t *testing.T) {
	dataDir := t.TempDir()
	writeSource(t, dataDir, csvsource.WarehouseSectionsFile, []byte(
		"HRL,Hochregallager,Lager,H1\nKOM,Kommissionierung,Lager,K1\n",
	))

	src := csvsource.New(dataDir)
	sections, err := src.ReadWarehouseSections(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, "HRL", sections[0].Abbreviation)
	assert.Equal(t, "K1", sections[1].PickReference)
}

func TestReadPicks_MalformedRowFailsWithRowNumber(t *testing.T) {
	dataDir := t.TempDir()
	writeSource(t, dataDir, csvsource.PickDataFile, []byte(
		"P100,HRL,46,1001,1,12,ST,2018-03-26 08:58:05.000\n"+
			"P101,KOM,48,1002,1,notanumber,ST,2018-03-26 09:15:41.000\n",
	))

	src := csvsource.New(dataDir)
	_, _, err := src.ReadPicks(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "pick_volume")
}

func TestReadPicks_WrongColumnCountFails(t *testing.T) {
	dataDir := t.TempDir()
	writeSource(t, dataDir, csvsource.PickDataFile, []byte(
		"P100,HRL,46,1001,1,12,ST\n", // 7 columns instead of 8
	))

	src := csvsource.New(dataDir)
	_, _, err := src.ReadPicks(context.Background())
	assert.Error(t, err)
}

func TestRead_MissingSourceDir(t *testing.T) {
	src := csvsource.New(filepath.Join(t.TempDir(), "nope"))

	_, _, err := src.ReadPicks(context.Background())
	assert.True(t, errors.Is(err, domain.ErrSourceMissing))

	_, err = src.ReadProducts(context.Background())
	assert.True(t, errors.Is(err, domain.ErrSourceMissing))
}

func TestFiles_ListsExpectedPaths(t *testing.T) {
	src := csvsource.New("/data")
	files := src.Files()
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join("/data", "source", "pick_data.csv"), files[0])
}
