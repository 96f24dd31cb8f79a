// Package csvio reads and writes whole CSV files.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultEncoding is used when no input encoding is configured.
const DefaultEncoding = "utf-8"

// LookupEncoding resolves an encoding label such as "utf-8", "windows-1252"
// or "latin1". UTF-8 input has a leading byte order mark removed.
func LookupEncoding(label string) (encoding.Encoding, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "utf-8", "utf8":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// Read loads every record of the CSV file at path, decoding it from the
// named encoding. Records may have differing numbers of fields.
func Read(path, enc string) ([][]string, error) {
	e, err := LookupEncoding(enc)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadFrom(transform.NewReader(f, e.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadFrom loads every record from r, which must already be UTF-8.
// A blank line yields an empty record, so the position of each record in
// the result is its line position in the input; quoted fields spanning
// several lines still count as one record.
func ReadFrom(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	consumed := 0 // lines fully read so far
	for {
		offset := cr.InputOffset()
		record, err := cr.Read()
		if err == io.EOF {
			// Whatever follows the last record is blank lines only.
			for i, n := 0, bytes.Count(data[offset:], []byte{'\n'}); i < n; i++ {
				rows = append(rows, []string{})
			}
			return rows, nil
		}
		if err != nil {
			return nil, err
		}

		line, _ := cr.FieldPos(0)
		for i, n := 0, line-1-consumed; i < n; i++ {
			rows = append(rows, []string{})
		}
		rows = append(rows, record)
		consumed += bytes.Count(data[offset:cr.InputOffset()], []byte{'\n'})
	}
}

// Write creates or truncates the file at path and writes rows to it.
// The parent directory is created if missing.
func Write(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := WriteTo(f, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteTo writes rows to w as CSV and flushes.
func WriteTo(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
