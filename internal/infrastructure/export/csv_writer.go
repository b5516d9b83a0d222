// Package export materializes mart artifacts as CSV files under
// <data_dir>/marts/<mart>/. Files are written atomically so a consumer never
// reads a half-written artifact.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/Appy-Anand/obeta-project/internal/application/pipeline"
)

var _ pipeline.MartExporter = (*Writer)(nil)

// Writer writes mart CSVs under <data_dir>/marts.
type Writer struct {
	dir string
}

// NewWriter builds a Writer rooted at dataDir.
func NewWriter(dataDir string) *Writer {
	return &Writer{dir: filepath.Join(dataDir, "marts")}
}

// Dir returns the marts directory path.
func (w *Writer) Dir() string { return w.dir }

// WriteMart writes one artifact to <marts>/<mart>/<file> via a temp file and
// rename, replacing any previous artifact.
func (w *Writer) WriteMart(mart, file string, header []string, records [][]string) error {
	dir := filepath.Join(w.dir, mart)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("export %s: %w", mart, err)
	}

	pf, err := renameio.NewPendingFile(filepath.Join(dir, file))
	if err != nil {
		return fmt.Errorf("export %s: %w", file, err)
	}
	defer pf.Cleanup()

	cw := csv.NewWriter(pf)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("export %s: header: %w", file, err)
	}
	for _, rec := range records {
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export %s: %w", file, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export %s: %w", file, err)
	}

	if err := pf.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("export %s: replace: %w", file, err)
	}
	return nil
}
