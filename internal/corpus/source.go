package corpus

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/arfaouiahmed1/stage/internal/domain"
)

// ErrSourceAbsent signals that a table does not exist. The loader skips it.
var ErrSourceAbsent = errors.New("source absent")

// Row maps column names to cell values.
type Row map[string]string

// Get returns the trimmed value of a column, "" when missing.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

// Table is the parsed content of one source.
type Table struct {
	Rows []Row
	// Malformed counts rows that were skipped because they could not be mapped to the header.
	Malformed int
}

// TableSource provides access to named tabular sources.
type TableSource interface {
	LoadTable(ctx context.Context, name string) (Table, error)
}

// DirSource reads <dir>/<name>.csv files. The first record is the header.
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// LoadTable implements TableSource.
func (s *DirSource) LoadTable(ctx context.Context, name string) (Table, error) {
	path := filepath.Join(s.dir, name+".csv")
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return Table{}, ErrSourceAbsent
	}
	if err != nil {
		return Table{}, domain.NewLoadError(name, err)
	}
	defer func() { _ = f.Close() }()

	t, err := readCSV(ctx, f)
	if err != nil {
		return Table{}, domain.NewLoadError(name, err)
	}
	return t, nil
}

func readCSV(ctx context.Context, r io.Reader) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	var t Table
	for {
		if err := ctx.Err(); err != nil {
			return Table{}, err
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			t.Malformed++
			continue
		}
		if err != nil {
			return Table{}, fmt.Errorf("read record: %w", err)
		}
		if len(rec) != len(header) {
			t.Malformed++
			continue
		}
		row := make(Row, len(header))
		for i, col := range header {
			row[col] = rec[i]
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// MemorySource serves tables held in memory. Missing names are absent.
type MemorySource map[string][]Row

// LoadTable implements TableSource.
func (m MemorySource) LoadTable(_ context.Context, name string) (Table, error) {
	rows, ok := m[name]
	if !ok {
		return Table{}, ErrSourceAbsent
	}
	return Table{Rows: rows}, nil
}
