// Package csvsource reads the three raw warehouse datasets from the source
// directory. The files are headerless CSV, ISO-8859-1 encoded (German umlauts
// in descriptions); everything leaving this package is UTF-8.
package csvsource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/Appy-Anand/obeta-project/internal/domain"
	"github.com/Appy-Anand/obeta-project/internal/domain/entity"
)

// Expected file names under <data_dir>/source.
const (
	PickDataFile          = "pick_data.csv"
	ProductDetailsFile    = "product_details.csv"
	WarehouseSectionsFile = "warehouse_sections.csv"
)

// pickTimestampLayout matches the source export, e.g. "2018-03-26 08:58:05.000".
const pickTimestampLayout = "2006-01-02 15:04:05.000"

// Anomalies counts well-formed but suspicious pick rows. They are staged
// anyway; classification into error/return facts happens during curation.
type Anomalies = entity.StagingAnomalies

// Source reads raw CSVs from <data_dir>/source.
type Source struct {
	dir string
}

// New builds a Source rooted at dataDir.
func New(dataDir string) *Source {
	return &Source{dir: filepath.Join(dataDir, "source")}
}

// Dir returns the source directory path.
func (s *Source) Dir() string { return s.dir }

// Files returns the absolute paths of the three expected source files.
func (s *Source) Files() []string {
	return []string{
		filepath.Join(s.dir, PickDataFile),
		filepath.Join(s.dir, ProductDetailsFile),
		filepath.Join(s.dir, WarehouseSectionsFile),
	}
}

// ReadPicks parses pick_data.csv. Malformed rows (wrong column count,
// unparseable origin/volume/timestamp) fail the read with the row number;
// zero and negative volumes are only counted.
func (s *Source) ReadPicks(ctx context.Context) ([]entity.Pick, Anomalies, error) {
	var anomalies Anomalies

	rows, err := s.readAll(ctx, PickDataFile, 8)
	if err != nil {
		return nil, anomalies, err
	}

	picks := make([]entity.Pick, 0, len(rows))
	for i, rec := range rows {
		origin, err := strconv.ParseInt(rec[2], 10, 16)
		if err != nil {
			return nil, anomalies, rowErr(PickDataFile, i, "origin", err)
		}
		volume, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, anomalies, rowErr(PickDataFile, i, "pick_volume", err)
		}
		ts, err := time.Parse(pickTimestampLayout, rec[7])
		if err != nil {
			return nil, anomalies, rowErr(PickDataFile, i, "date", err)
		}

		switch {
		case volume == 0:
			anomalies.ZeroVolume++
		case volume < 0:
			anomalies.NegativeVolume++
		}

		picks = append(picks, entity.Pick{
			ProductID:        rec[0],
			WarehouseSection: rec[1],
			Origin:           int16(origin),
			OrderNumber:      rec[3],
			PositionInOrder:  rec[4],
			PickVolume:       volume,
			QuantityUnit:     rec[6],
			PickTimestamp:    ts,
			PickDate:         ts.Truncate(24 * time.Hour),
		})
	}
	return picks, anomalies, nil
}

// ReadProducts parses product_details.csv.
func (s *Source) ReadProducts(ctx context.Context) ([]entity.Product, error) {
	rows, err := s.readAll(ctx, ProductDetailsFile, 3)
	if err != nil {
		return nil, err
	}
	products := make([]entity.Product, 0, len(rows))
	for _, rec := range rows {
		products = append(products, entity.Product{
			ID:          rec[0],
			Description: rec[1],
			Group:       rec[2],
		})
	}
	return products, nil
}

// ReadWarehouseSections parses warehouse_sections.csv.
func (s *Source) ReadWarehouseSections(ctx context.Context) ([]entity.WarehouseSection, error) {
	rows, err := s.readAll(ctx, WarehouseSectionsFile, 4)
	if err != nil {
		return nil, err
	}
	sections := make([]entity.WarehouseSection, 0, len(rows))
	for _, rec := range rows {
		sections = append(sections, entity.WarehouseSection{
			Abbreviation:  rec[0],
			Description:   rec[1],
			Group:         rec[2],
			PickReference: rec[3],
		})
	}
	return sections, nil
}

// readAll opens one source file, decodes ISO-8859-1 and enforces the column
// count on every record.
func (s *Source) readAll(ctx context.Context, name string, columns int) ([][]string, error) {
	if _, err := os.Stat(s.dir); err != nil {
		return nil, fmt.Errorf("%w: expected source csv data at %s", domain.ErrSourceMissing, s.dir)
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	r := csv.NewReader(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	r.FieldsPerRecord = columns

	var rows [][]string
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func rowErr(file string, idx int, column string, err error) error {
	// idx is 0-based; report the 1-based row number of the file
	return fmt.Errorf("%s: row %d: parse %s: %w", file, idx+1, column, err)
}
