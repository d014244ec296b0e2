package sheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/importer"
)

func newWorkbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	// a second sheet must be ignored
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Other", "A1", "Ignored"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func TestDecode_XLSX(t *testing.T) {
	buf := newWorkbook(t,
		[]interface{}{},
		[]interface{}{" Roll No ", "Name", "", "Score"},
		[]interface{}{"9", "X", "dropped", 88},
		[]interface{}{},
		[]interface{}{"10", "", "", "71"},
	)

	rows, err := Decode(buf, FormatXLSX)
	require.NoError(t, err)
	want := []importer.RawRow{
		importer.NewRow("Roll No", "9", "Name", "X", "Score", "88"),
		importer.NewRow("Roll No", "10", "Score", "71"),
	}
	assert.Equal(t, want, rows)

	res := importer.ImportRows(rows)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "9", res.Records[0].StudentID)
	assert.Equal(t, "88", res.Records[0].Score.String)
}

func TestDecode_CSV(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []importer.RawRow
		wantErr bool
	}{
		{
			name: "simple",
			data: "Student ID,Subject,Marks\nS1,Maths,70\nS2,,65\n",
			want: []importer.RawRow{
				importer.NewRow("Student ID", "S1", "Subject", "Maths", "Marks", "70"),
				importer.NewRow("Student ID", "S2", "Marks", "65"),
			},
		},
		{
			name: "bom & ragged rows",
			data: "\xEF\xBB\xBFReg,Exam\nR1,Final,extra\nR2\n",
			want: []importer.RawRow{
				importer.NewRow("Reg", "R1", "Exam", "Final"),
				importer.NewRow("Reg", "R2"),
			},
		},
		{name: "header only", data: "Reg,Exam\n", want: []importer.RawRow{}},
		{name: "empty file", data: ""},
		{name: "bad quotes", data: "Reg,Exam\n\"R1,Final\n", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Decode(strings.NewReader(tt.data), FormatCSV)
			if tt.wantErr {
				assert.True(t, core.IsDecodeError(err), "want DecodeError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	_, err := Decode(strings.NewReader("not a zip"), FormatXLSX)
	assert.True(t, core.IsDecodeError(err))

	_, err = Decode(strings.NewReader("a,b"), Format("ods"))
	assert.True(t, core.IsDecodeError(err))

	_, err = DecodeFile("marks.pdf", strings.NewReader(""))
	assert.True(t, core.IsDecodeError(err))
	assert.EqualError(t, err, `could not read spreadsheet: "marks.pdf": unsupported file format`)
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("/tmp/Marks.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromFilename("marks.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
}
