package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/edutrack/edutrack/apps/api/echo"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
	"github.com/edutrack/edutrack/services/notifier"
	"github.com/edutrack/edutrack/tests"
)

var importRowsBody = []byte(`{"rows": [
	{"Student ID": "S1", "Subject": "Maths", "Exam": "Midterm", "Marks": 80},
	{"Notes": "x"},
	{"Roll No": "S404", "Course": "Physics", "Score": "65"}
]}`)

func Test_importApi_create(t *testing.T) {
	app, _ := setup(t)

	t.Run("json rows", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/imports", importRowsBody)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view BatchView
		decodeBody(t, rec, &view)
		require.Len(t, view.Records, 3)

		assert.Equal(t, "S1", view.Records[0].StudentID)
		assert.Equal(t, "Maths", view.Records[0].Subject.String)
		assert.Equal(t, "Midterm", view.Records[0].ExamType.String)
		assert.Equal(t, "80", view.Records[0].Score.String)

		// no identifier header: first column
		assert.Equal(t, "x", view.Records[1].StudentID)
		assert.False(t, view.Records[1].Subject.Valid)

		assert.Equal(t, "S404", view.Records[2].StudentID)
		assert.Equal(t, "Physics", view.Records[2].Subject.String)
		assert.False(t, view.Records[2].ExamType.Valid)

		require.NotNil(t, view.Preview)
		assert.Equal(t, view.Records[0], *view.Preview)
		assert.Equal(t, batch.Summary{Total: 3, Pending: 3}, view.Summary)
	})

	t.Run("no rows", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/imports", []byte(`{"rows": []}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, NothingToImportResponse{Message: "nothing to import"}),
		}, rec)

		// previous batch kept
		req, rec = newRequest(http.MethodGet, "/v1/imports/current")
		app.ServeHTTP(rec, req)
		var view BatchView
		decodeBody(t, rec, &view)
		assert.Len(t, view.Records, 3)
	})

	t.Run("rows without identifiers", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/imports", []byte(`{"rows": [{"Student ID": "  ", "Subject": "Maths"}]}`))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, NothingToImportResponse{Message: "nothing to import", Skipped: 1}),
		}, rec)

		// the empty import replaced the previous batch
		req, rec = newRequest(http.MethodGet, "/v1/imports/current")
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var view BatchView
		decodeBody(t, rec, &view)
		assert.Empty(t, view.Records)
		assert.Nil(t, view.Preview)
		assert.Equal(t, batch.Summary{Skipped: 1}, view.Summary)
	})
}

func Test_importApi_upload(t *testing.T) {
	app, _ := setup(t)

	t.Run("csv", func(t *testing.T) {
		csv := []byte("Student ID,Subject,Exam Type,Score\nS1,Maths,Final,90\n,,,\nS2,Physics,,70\n")
		req, rec := newUploadRequest(t, "/v1/imports", "", "marks.csv", csv)
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var view BatchView
		decodeBody(t, rec, &view)
		assert.Equal(t, "marks.csv", view.Filename)
		require.Len(t, view.Records, 2)
		assert.Equal(t, "S2", view.Records[1].StudentID)
		assert.False(t, view.Records[1].ExamType.Valid)
		assert.Equal(t, "70", view.Records[1].Score.String)
	})

	t.Run("unsupported format", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports", "", "marks.pdf", []byte("%PDF"))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var herr httpErr
		decodeBody(t, rec, &herr)
		assert.Contains(t, herr.Error, "unsupported file format")
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports", "", "marks.xlsx", []byte("not a zip"))
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var herr httpErr
		decodeBody(t, rec, &herr)
		assert.Contains(t, herr.Error, "could not read spreadsheet (xlsx)")
	})

	t.Run("missing file", func(t *testing.T) {
		req, rec := newUploadRequest(t, "/v1/imports", "", "marks.csv", nil)
		req.Header.Set("Content-Type", "multipart/form-data; boundary=nothing")
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_importApi_sessions(t *testing.T) {
	app, _ := setup(t)

	req, rec := newSessionRequest(http.MethodPost, "/v1/imports", "teacher-a", importRowsBody)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	tests := []httpTest{
		{
			name:     "other session has no batch",
			method:   http.MethodGet,
			session:  "teacher-b",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: batch.ErrNotFound.Error()}),
		},
		{
			name:     "default session has no batch",
			method:   http.MethodGet,
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: batch.ErrNotFound.Error()}),
		},
		{
			name:     "discard",
			method:   http.MethodDelete,
			session:  "teacher-a",
			wantCode: http.StatusNoContent,
		},
		{
			name:     "discarded",
			method:   http.MethodGet,
			session:  "teacher-a",
			wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: batch.ErrNotFound.Error()}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newSessionRequest(tt.method, "/v1/imports/current", tt.session)
			app.ServeHTTP(rec, req)
			if tt.wantData == nil {
				assert.Equal(t, tt.wantCode, rec.Code)
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_importApi_dispatch(t *testing.T) {
	app, svcs := setup(t)
	testutil.CreateStudent(t, svcs.Student, "S1", "Alice", "Mr. A", "+243810000001", "")

	req, rec := newRequest(http.MethodPost, "/v1/imports/current/dispatch")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req, rec = newRequest(http.MethodPost, "/v1/imports", importRowsBody)
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	req, rec = newRequest(http.MethodPost, "/v1/imports/current/dispatch")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view BatchView
	decodeBody(t, rec, &view)
	require.Len(t, view.Records, 3)
	assert.Equal(t, importer.StatusSent, view.Records[0].Status)
	assert.Equal(t, importer.StatusFailed, view.Records[1].Status) // no student "x"
	assert.Equal(t, importer.StatusFailed, view.Records[2].Status)
	assert.Equal(t, batch.Summary{Total: 3, Sent: 1, Failed: 2}, view.Summary)

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Dear Parent Mr. A, your child Alice has scored 80 in Maths - Midterm.", sent[0].Body)

	// a second dispatch has nothing left to send
	req, rec = newRequest(http.MethodPost, "/v1/imports/current/dispatch")
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, notifier.Sent(), 1)
}
