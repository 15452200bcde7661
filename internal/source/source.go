// Package source reads the ordered list of scrape targets from a CSV file.
package source

import (
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/company-scraper/internal/types"
)

const (
	// DefaultNameColumn is the header of the organization name column.
	DefaultNameColumn = "Company Name"
	// DefaultURLColumn is the header of the profile URL column.
	DefaultURLColumn = "YC URL"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\ufeff"

// Columns names the CSV headers holding the target fields.
type Columns struct {
	Name string
	URL  string
}

// DefaultColumns returns the conventional column headers.
func DefaultColumns() Columns {
	return Columns{Name: DefaultNameColumn, URL: DefaultURLColumn}
}

// Reader yields the ordered target list.
type Reader interface {
	ReadTargets() ([]types.Target, error)
}

// CSVFile reads targets from a CSV file on disk.
type CSVFile struct {
	Path    string
	Columns Columns
}

// NewCSVFile creates a CSVFile reader using the default columns.
func NewCSVFile(path string) *CSVFile {
	return &CSVFile{Path: path, Columns: DefaultColumns()}
}

// ReadTargets implements Reader.
func (f *CSVFile) ReadTargets() ([]types.Target, error) {
	path, err := filepath.Abs(f.Path)
	if err != nil {
		return nil, &ReadError{Path: f.Path, Message: "failed to resolve path", Cause: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, &ReadError{Path: path, Message: "failed to open file", Cause: err}
	}
	defer func() { _ = file.Close() }()

	targets, err := ParseTargets(file, f.Columns)
	if err != nil {
		var readErr *ReadError
		if errors.As(err, &readErr) {
			readErr.Path = path
			return nil, readErr
		}
		return nil, &ReadError{Path: path, Message: "failed to parse CSV", Cause: err}
	}
	return targets, nil
}

// ReadTargets reads targets from the CSV file at path with the default columns.
func ReadTargets(path string) ([]types.Target, error) {
	return NewCSVFile(path).ReadTargets()
}

// ParseTargets parses CSV content into targets, one per data row, in file order.
// Only the presence of the two columns is checked; cell values are not validated.
func ParseTargets(r io.Reader, cols Columns) ([]types.Target, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ReadError{Message: "missing header row"}
	}
	if err != nil {
		return nil, &ReadError{Message: "failed to read header row", Cause: err}
	}

	nameIdx, urlIdx := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, utf8BOM))
		switch h {
		case cols.Name:
			nameIdx = i
		case cols.URL:
			urlIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, &ReadError{Message: "missing column " + quote(cols.Name)}
	}
	if urlIdx < 0 {
		return nil, &ReadError{Message: "missing column " + quote(cols.URL)}
	}

	var targets []types.Target
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ReadError{Message: "malformed CSV row", Cause: err}
		}
		targets = append(targets, types.Target{
			Name: cell(row, nameIdx),
			URL:  cell(row, urlIdx),
		})
	}

	return targets, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func quote(s string) string {
	return `"` + s + `"`
}
