// Package output serializes flat license records as delimited tables or JSON.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/StinkyLord/sbom-license-exporter/internal/model"
)

// Format is an output table format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
)

// ParseFormat parses an output format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatTSV:
		return FormatTSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (supported: csv, tsv, json)", s)
	}
}

// Options controls how tables are written.
type Options struct {
	Format Format

	// Delimiter overrides the field separator for FormatCSV. Zero means ','.
	// FormatTSV always uses a tab.
	Delimiter rune
}

func (o Options) delimiter() rune {
	switch {
	case o.Format == FormatTSV:
		return '\t'
	case o.Delimiter != 0:
		return o.Delimiter
	default:
		return ','
	}
}

func (o Options) validate() error {
	switch o.Format {
	case FormatCSV, FormatTSV, FormatJSON, "":
	default:
		return fmt.Errorf("unsupported output format %q", o.Format)
	}
	d := o.delimiter()
	if d == '"' || d == '\r' || d == '\n' || d == utf8.RuneError {
		return fmt.Errorf("invalid delimiter %q", d)
	}
	return nil
}

// table is a header plus rows of equal width.
type table interface {
	header() []string
	rows() [][]string
	jsonValue() any
}

type recordTable []model.Record

func (t recordTable) header() []string { return model.RecordColumns }

func (t recordTable) rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, r.Values())
	}
	return rows
}

func (t recordTable) jsonValue() any {
	if t == nil {
		return []model.Record{}
	}
	return []model.Record(t)
}

type licenseRefTable []model.LicenseRef

func (t licenseRefTable) header() []string { return model.LicenseRefColumns }

func (t licenseRefTable) rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, r.Values())
	}
	return rows
}

func (t licenseRefTable) jsonValue() any {
	if t == nil {
		return []model.LicenseRef{}
	}
	return []model.LicenseRef(t)
}

// WriteRecords writes records to outputPath. If outputPath is "-", it writes
// to stdout. A file is only replaced once the whole table has been written.
func WriteRecords(records []model.Record, outputPath string, opts Options) error {
	return writeTable(recordTable(records), outputPath, opts)
}

// WriteLicenseRefs writes the extracted-license reference table to outputPath.
func WriteLicenseRefs(refs []model.LicenseRef, outputPath string, opts Options) error {
	return writeTable(licenseRefTable(refs), outputPath, opts)
}

func writeTable(t table, outputPath string, opts Options) error {
	if err := opts.validate(); err != nil {
		return err
	}
	return writeFile(outputPath, func(w io.Writer) error {
		return encodeTable(w, t, opts)
	})
}

// encodeTable renders t to w. The header is always written, so an empty
// table is a header-only file rather than an empty one.
func encodeTable(w io.Writer, t table, opts Options) error {
	if opts.Format == FormatJSON {
		data, err := json.MarshalIndent(t.jsonValue(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}

	cw := csv.NewWriter(w)
	cw.Comma = opts.delimiter()

	if err := cw.Write(t.header()); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows()); err != nil {
		return err
	}
	return cw.Error()
}
