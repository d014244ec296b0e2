package importer

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type cellKind uint8

const (
	absentCell cellKind = iota
	stringCell
	numberCell
)

// Cell is a decoded spreadsheet value: absent, a string or a number.
// The zero Cell is absent.
type Cell struct {
	kind cellKind
	str  string
	num  float64
	lit  string // JSON number literal, when decoded
}

func StringCell(s string) Cell  { return Cell{kind: stringCell, str: s} }
func NumberCell(n float64) Cell { return Cell{kind: numberCell, num: n} }

func (c Cell) IsAbsent() bool { return c.kind == absentCell }
func (c Cell) IsNumber() bool { return c.kind == numberCell }

// IsEmpty reports whether the cell is absent or holds a blank string.
// Numbers are never empty.
func (c Cell) IsEmpty() bool {
	switch c.kind {
	case stringCell:
		return strings.TrimSpace(c.str) == ""
	case numberCell:
		return false
	}
	return true
}

// isBlankID reports whether the cell cannot identify a student: empty, or the number zero.
func (c Cell) isBlankID() bool {
	return c.IsEmpty() || (c.kind == numberCell && c.num == 0)
}

// String renders the cell value. Integer literals keep every digit,
// other numbers use their shortest representation.
func (c Cell) String() string {
	switch c.kind {
	case stringCell:
		return c.str
	case numberCell:
		if isIntegerLiteral(c.lit) {
			return c.lit
		}
		return strconv.FormatFloat(c.num, 'f', -1, 64)
	}
	return ""
}

func isIntegerLiteral(lit string) bool {
	digits := strings.TrimPrefix(lit, "-")
	if digits == "" {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c Cell) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case stringCell:
		return json.Marshal(c.str)
	case numberCell:
		if c.lit != "" {
			return []byte(c.lit), nil
		}
		return json.Marshal(c.num)
	}
	return []byte("null"), nil
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*c = Cell{}
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(err, "decoding string cell")
		}
		*c = StringCell(s)
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*c = StringCell(string(data))
	case len(data) > 0 && (data[0] == '[' || data[0] == '{'):
		// nested values are kept as their JSON text
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return errors.Wrap(err, "decoding cell")
		}
		*c = StringCell(buf.String())
	default:
		var lit json.Number
		if err := json.Unmarshal(data, &lit); err != nil {
			return errors.Errorf("unsupported cell value %s", data)
		}
		n, err := strconv.ParseFloat(lit.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return errors.Errorf("unsupported cell value %s", data)
		}
		*c = Cell{kind: numberCell, num: n, lit: lit.String()}
	}
	return nil
}
