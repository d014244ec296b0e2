package importer

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
)

func TestMatchesHeader(t *testing.T) {
	rules := DefaultRules()
	tests := []struct {
		name    string
		header  string
		purpose FieldPurpose
		want    bool
	}{
		{name: "exact", header: "id", purpose: StudentIdentifier, want: true},
		{name: "case insensitive", header: "Roll No", purpose: StudentIdentifier, want: true},
		{name: "substring", header: "Registration Number", purpose: StudentIdentifier, want: true},
		{name: "no match", header: "Name", purpose: StudentIdentifier},
		{name: "score", header: "Score (out of 100)", purpose: Score, want: true},
		{name: "marks", header: "MARKS OBTAINED", purpose: Score, want: true},
		{name: "subject", header: "Subject", purpose: Subject, want: true},
		{name: "exam", header: "Exam Name", purpose: ExamType, want: true},
		{name: "empty header", header: "", purpose: Subject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesHeader(tt.header, rules[tt.purpose]))
		})
	}
}

func TestResolveField(t *testing.T) {
	rule := DefaultRules()[StudentIdentifier]

	t.Run("header order wins", func(t *testing.T) {
		col, ok := ResolveField(NewRow("roll", "1", "id", "2"), rule)
		require.True(t, ok)
		assert.Equal(t, "roll", col.Header)
		assert.Equal(t, "1", col.Value.String())
	})
	t.Run("keyword order does not beat header order", func(t *testing.T) {
		// "id" is the first keyword but "Student" comes first in the row
		col, ok := ResolveField(NewRow("Student", "S1", "uid", "U1"), rule)
		require.True(t, ok)
		assert.Equal(t, "S1", col.Value.String())
	})
	t.Run("absent", func(t *testing.T) {
		_, ok := ResolveField(NewRow("Name", "X"), rule)
		assert.False(t, ok)
	})
	t.Run("empty row", func(t *testing.T) {
		_, ok := ResolveField(RawRow{}, rule)
		assert.False(t, ok)
	})
}

func TestMapper_ImportRow(t *testing.T) {
	tests := []struct {
		name   string
		row    RawRow
		want   ImportedRecord
		wantOk bool
	}{
		{
			name: "roll & score",
			row:  NewRow("Name", "X", "Roll No", "9", "Score (out of 100)", "88"),
			want: ImportedRecord{
				StudentID: "9",
				Score:     null.StringFrom("88"),
				Status:    StatusPending,
			},
			wantOk: true,
		},
		{
			name:   "first column fallback",
			row:    NewRow("Col1", "7", "Col2", "Physics"),
			want:   ImportedRecord{StudentID: "7", Status: StatusPending},
			wantOk: true,
		},
		{
			name: "all fields",
			row:  NewRow("Student ID", "S-01", "Subject", "Maths", "Exam Name", "Midterm", "Marks Obtained", "72"),
			want: ImportedRecord{
				StudentID: "S-01",
				Subject:   null.StringFrom("Maths"),
				ExamType:  null.StringFrom("Midterm"),
				Score:     null.StringFrom("72"),
				Status:    StatusPending,
			},
			wantOk: true,
		},
		{
			name: "one header feeds two purposes",
			// "Test Score" matches both ExamType ("test") and Score ("score")
			row: NewRow("Reg", "R1", "Test Score", "55"),
			want: ImportedRecord{
				StudentID: "R1",
				ExamType:  null.StringFrom("55"),
				Score:     null.StringFrom("55"),
				Status:    StatusPending,
			},
			wantOk: true,
		},
		{
			name:   "empty identifier falls back to first column",
			row:    NewRow("Name", "Ada", "ID", " "),
			want:   ImportedRecord{StudentID: "Ada", Status: StatusPending},
			wantOk: true,
		},
		{
			name: "numeric cells",
			row: RawRow{
				{Header: "Roll", Value: NumberCell(12)},
				{Header: "Total", Value: NumberCell(88.5)},
			},
			want:   ImportedRecord{StudentID: "12", Score: null.StringFrom("88.5"), Status: StatusPending},
			wantOk: true,
		},
		{
			name: "zero identifier falls back to first column",
			row: RawRow{
				{Header: "Name", Value: StringCell("Ada")},
				{Header: "Roll", Value: NumberCell(0)},
			},
			want:   ImportedRecord{StudentID: "Ada", Status: StatusPending},
			wantOk: true,
		},
		{
			name: "zero score is kept",
			row: RawRow{
				{Header: "Roll", Value: NumberCell(4)},
				{Header: "Total", Value: NumberCell(0)},
			},
			want:   ImportedRecord{StudentID: "4", Score: null.StringFrom("0"), Status: StatusPending},
			wantOk: true,
		},
		{name: "zero fallback value", row: RawRow{{Header: "Col1", Value: NumberCell(0)}, {Header: "Col2", Value: StringCell("Physics")}}},
		{name: "no columns", row: RawRow{}},
		{name: "empty fallback value", row: NewRow("Col1", "", "Col2", "Physics")},
		{name: "absent fallback value", row: RawRow{{Header: "Col1"}}},
	}
	m := NewMapper(nil, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.ImportRow(tt.row)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestImportRows(t *testing.T) {
	rows := []RawRow{
		{},
		NewRow("Roll", "1", "Subject", "Physics"),
		NewRow("Col1", ""),
		NewRow("Roll", "2", "Subject", "Chemistry"),
	}

	res := ImportRows(rows)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, "1", res.Records[0].StudentID)
	assert.Equal(t, "2", res.Records[1].StudentID)
	assert.False(t, res.Empty())

	preview, ok := res.Preview()
	require.True(t, ok)
	assert.Equal(t, res.Records[0], preview)

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, res, ImportRows(rows))
	})
	t.Run("nothing to import", func(t *testing.T) {
		empty := ImportRows([]RawRow{{}, NewRow("Col1", "")})
		assert.True(t, empty.Empty())
		_, ok := empty.Preview()
		assert.False(t, ok)
	})
	t.Run("no rows", func(t *testing.T) {
		empty := ImportRows(nil)
		assert.True(t, empty.Empty())
		assert.Zero(t, empty.Skipped)
	})
}

func TestRules_WithOverrides(t *testing.T) {
	rules, err := DefaultRules().WithOverrides(map[string][]string{"student_id": {" Adm No ", ""}})
	require.NoError(t, err)
	assert.Equal(t, MappingRule{"adm no"}, rules[StudentIdentifier])
	assert.Equal(t, DefaultRules()[Score], rules[Score])

	m := NewMapper(rules, nil)
	rec, ok := m.ImportRow(NewRow("Roll", "1", "ADM NO", "A-9"))
	require.True(t, ok)
	assert.Equal(t, "A-9", rec.StudentID)

	_, err = DefaultRules().WithOverrides(map[string][]string{"grade": {"g"}})
	assert.EqualError(t, err, `unknown field purpose "grade"`)

	_, err = DefaultRules().WithOverrides(map[string][]string{"score": {" "}})
	assert.EqualError(t, err, "no keywords given for score")
}

func TestRawRow_JSON(t *testing.T) {
	var rows []RawRow
	err := json.Unmarshal([]byte(`[{"Score": 88, "Roll No": "9", "Remark": null, "Passed": true}, {}]`), &rows)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{"Score", "Roll No", "Remark", "Passed"}, rows[0].Headers())
	score, _ := rows[0].Get("Score")
	assert.True(t, score.IsNumber())
	remark, _ := rows[0].Get("Remark")
	assert.True(t, remark.IsAbsent())
	passed, _ := rows[0].Get("Passed")
	assert.Equal(t, "true", passed.String())
	assert.Empty(t, rows[1])

	data, err := json.Marshal(rows[0])
	require.NoError(t, err)
	assert.Equal(t, `{"Score":88,"Roll No":"9","Remark":null,"Passed":"true"}`, string(data))

	err = json.Unmarshal([]byte(`["a"]`), &rows)
	assert.Error(t, err)
}

func TestCell_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		isNumber bool
		want     string
		wantJSON string
	}{
		{name: "long integer keeps every digit", data: `20210012345678901`, isNumber: true, want: "20210012345678901", wantJSON: `20210012345678901`},
		{name: "negative integer", data: `-42`, isNumber: true, want: "-42", wantJSON: `-42`},
		{name: "decimal", data: `88.50`, isNumber: true, want: "88.5", wantJSON: `88.50`},
		{name: "exponent", data: `1e3`, isNumber: true, want: "1000", wantJSON: `1e3`},
		{name: "array", data: `[1, "a"]`, want: `[1,"a"]`, wantJSON: `"[1,\"a\"]"`},
		{name: "object", data: `{"x": {"y": 2}}`, want: `{"x":{"y":2}}`, wantJSON: `"{\"x\":{\"y\":2}}"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cell
			require.NoError(t, json.Unmarshal([]byte(tt.data), &c))
			assert.Equal(t, tt.isNumber, c.IsNumber())
			assert.Equal(t, tt.want, c.String())

			data, err := json.Marshal(c)
			require.NoError(t, err)
			assert.Equal(t, tt.wantJSON, string(data))
		})
	}

	var c Cell
	assert.Error(t, json.Unmarshal([]byte(`12abc`), &c))
}

func TestImportRows_nestedAndLongValues(t *testing.T) {
	var rows []RawRow
	err := json.Unmarshal([]byte(`[{"Reg No": 20210012345678901, "Subject": ["Maths", "Physics"], "Score": {"theory": 60}}]`), &rows)
	require.NoError(t, err)

	res := ImportRows(rows)
	require.Len(t, res.Records, 1)
	assert.Equal(t, ImportedRecord{
		StudentID: "20210012345678901",
		Subject:   null.StringFrom(`["Maths","Physics"]`),
		Score:     null.StringFrom(`{"theory":60}`),
		Status:    StatusPending,
	}, res.Records[0])
}

func TestDispatchStatus_CanAdvanceTo(t *testing.T) {
	assert.True(t, StatusPending.CanAdvanceTo(StatusSending))
	assert.True(t, StatusSending.CanAdvanceTo(StatusSent))
	assert.True(t, StatusSending.CanAdvanceTo(StatusFailed))
	assert.False(t, StatusPending.CanAdvanceTo(StatusSent))
	assert.False(t, StatusSent.CanAdvanceTo(StatusPending))
	assert.False(t, StatusFailed.CanAdvanceTo(StatusSending))
	assert.False(t, DispatchStatus("lol").CanAdvanceTo(StatusSending))
}
