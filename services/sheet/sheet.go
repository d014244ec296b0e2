// Package sheet decodes uploaded spreadsheets into importer rows.
package sheet

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/importer"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

var errUnsupportedFormat = errors.New("unsupported file format")

// FormatFromFilename picks the decoder from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", core.NewDecodeError("", errors.Wrapf(errUnsupportedFormat, "%q", filepath.Base(name)))
}

// Decode reads the first sheet of `r`. The first non-blank row holds the headers.
// Blank cells are left out of their row and blank rows are dropped.
func Decode(r io.Reader, format Format) ([]importer.RawRow, error) {
	var records [][]string
	var err error
	switch format {
	case FormatXLSX:
		records, err = readXLSX(r)
	case FormatCSV:
		records, err = readCSV(r)
	default:
		return nil, core.NewDecodeError(string(format), errUnsupportedFormat)
	}
	if err != nil {
		return nil, core.NewDecodeError(string(format), err)
	}
	return buildRows(records), nil
}

// DecodeFile is a shortcut for FormatFromFilename + Decode.
func DecodeFile(name string, r io.Reader) ([]importer.RawRow, error) {
	format, err := FormatFromFilename(name)
	if err != nil {
		return nil, err
	}
	return Decode(r, format)
}

func buildRows(records [][]string) []importer.RawRow {
	start := -1
	for i, rec := range records {
		if !isBlank(rec) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	headers := make([]string, len(records[start]))
	for i, h := range records[start] {
		headers[i] = strings.TrimSpace(h)
	}

	rows := make([]importer.RawRow, 0, len(records)-start-1)
	for _, rec := range records[start+1:] {
		row := make(importer.RawRow, 0, len(headers))
		for j, cell := range rec {
			if j >= len(headers) || headers[j] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell == "" {
				continue
			}
			row = append(row, importer.Column{Header: headers[j], Value: importer.StringCell(cell)})
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
