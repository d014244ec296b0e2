package importer

import (
	"fmt"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/edutrack/edutrack/core"
)

// Result is the outcome of one import.
type Result struct {
	Records []ImportedRecord `json:"records"`
	Skipped int              `json:"skipped"`
}

// Preview returns the first admitted record, used to pre-fill the single-record form.
func (res Result) Preview() (ImportedRecord, bool) {
	if len(res.Records) == 0 {
		return ImportedRecord{}, false
	}
	return res.Records[0], true
}

// Empty reports the "nothing to import" outcome.
func (res Result) Empty() bool { return len(res.Records) == 0 }

// Mapper guesses which column of a row holds each FieldPurpose.
// It holds no mutable state and is safe for concurrent use.
type Mapper struct {
	rules  Rules
	logger core.Logger // optional
}

func NewMapper(rules Rules, logger core.Logger) *Mapper {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Mapper{rules: rules, logger: logger}
}

var defaultMapper = NewMapper(DefaultRules(), nil)

// ImportRows maps `rows` with the default rules.
func ImportRows(rows []RawRow) Result {
	return defaultMapper.ImportRows(rows)
}

func (m *Mapper) Rules() Rules { return m.rules }

// MatchesHeader reports whether `header` contains, case-insensitively, any of the rule's keywords.
func MatchesHeader(header string, rule MappingRule) bool {
	h := strings.ToLower(header)
	for _, kw := range rule {
		if strings.Contains(h, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// ResolveField returns the value of the first column, in row order, whose header matches `rule`.
// First match wins: neither header order nor keyword order is weighed against the other.
func ResolveField(row RawRow, rule MappingRule) (Column, bool) {
	for _, col := range row {
		if MatchesHeader(col.Header, rule) {
			return col, true
		}
	}
	return Column{}, false
}

func (m *Mapper) resolve(row RawRow, p FieldPurpose) (Column, bool) {
	col, ok := ResolveField(row, m.rules[p])
	if !ok {
		return Column{}, false
	}
	m.debug(fmt.Sprintf("mapped %q to %s", col.Header, p))
	if col.Value.IsEmpty() {
		return Column{}, false
	}
	return col, true
}

func (m *Mapper) resolveString(row RawRow, p FieldPurpose) null.String {
	if col, ok := m.resolve(row, p); ok {
		return null.StringFrom(col.Value.String())
	}
	return null.String{}
}

// ImportRow maps a single row; ok is false when no identifier could be found.
func (m *Mapper) ImportRow(row RawRow) (rec ImportedRecord, ok bool) {
	if len(row) == 0 {
		return ImportedRecord{}, false
	}

	var sid string
	if col, found := m.resolve(row, StudentIdentifier); found && !col.Value.isBlankID() {
		sid = col.Value.String()
	} else {
		// no identifier value: fall back to the first column
		m.debug(fmt.Sprintf("no %s value found, falling back to first column %q", StudentIdentifier, row[0].Header))
		if !row[0].Value.isBlankID() {
			sid = row[0].Value.String()
		}
	}
	sid = core.CleanString(sid)
	if sid == "" {
		return ImportedRecord{}, false
	}

	return ImportedRecord{
		StudentID: sid,
		Subject:   m.resolveString(row, Subject),
		ExamType:  m.resolveString(row, ExamType),
		Score:     m.resolveString(row, Score),
		Status:    StatusPending,
	}, true
}

// ImportRows maps every row, keeping input order. Rows without an identifier are skipped.
func (m *Mapper) ImportRows(rows []RawRow) Result {
	res := Result{Records: make([]ImportedRecord, 0, len(rows))}
	for _, row := range rows {
		rec, ok := m.ImportRow(row)
		if !ok {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func (m *Mapper) debug(msg string) {
	if m.logger != nil {
		m.logger.Debug(msg)
	}
}
