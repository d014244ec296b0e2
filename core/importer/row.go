package importer

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

type Column struct {
	Header string
	Value  Cell
}

// RawRow is one decoded spreadsheet row. Columns keep the header-declaration order.
type RawRow []Column

// NewRow builds a RawRow from alternating header/value pairs; a trailing header without value is ignored.
func NewRow(pairs ...string) RawRow {
	row := make(RawRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		row = append(row, Column{Header: pairs[i], Value: StringCell(pairs[i+1])})
	}
	return row
}

func (row RawRow) Headers() []string {
	headers := make([]string, 0, len(row))
	for _, col := range row {
		headers = append(headers, col.Header)
	}
	return headers
}

// Get returns the value of the first column named `header`.
func (row RawRow) Get(header string) (Cell, bool) {
	for _, col := range row {
		if col.Header == header {
			return col.Value, true
		}
	}
	return Cell{}, false
}

func (row RawRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range row {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col.Header)
		if err != nil {
			return nil, err
		}
		val, err := col.Value.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (row *RawRow) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decoding row")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("a row must be a JSON object")
	}

	cols := make(RawRow, 0)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.Wrap(err, "decoding row header")
		}
		header, ok := tok.(string)
		if !ok {
			return errors.Errorf("unexpected row header %v", tok)
		}
		var raw json.RawMessage
		if err = dec.Decode(&raw); err != nil {
			return errors.Wrapf(err, "decoding value of %q", header)
		}
		var cell Cell
		if err = cell.UnmarshalJSON(raw); err != nil {
			return errors.Wrapf(err, "decoding value of %q", header)
		}
		cols = append(cols, Column{Header: header, Value: cell})
	}
	if _, err = dec.Token(); err != nil {
		return errors.Wrap(err, "decoding row")
	}
	*row = cols
	return nil
}
