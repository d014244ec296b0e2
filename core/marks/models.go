package marks

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack/core"
)

type Mark struct {
	StudentID string    `json:"student_id"`
	Subject   string    `json:"subject"`
	Exam      string    `json:"exam"`
	Marks     string    `json:"marks"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// NewMark contains information needed to record a student's marks.
type NewMark struct {
	StudentID string `json:"student_id" validate:"required"`
	Subject   string `json:"subject" validate:"required"`
	Exam      string `json:"exam" validate:"required"`
	Marks     string `json:"marks" validate:"required"`
}

func (nm *NewMark) Validate(validate *validator.Validate) error {
	nm.StudentID = core.CleanString(nm.StudentID)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Exam = core.CleanString(nm.Exam)
	nm.Marks = core.CleanString(nm.Marks)
	return validate.Struct(nm)
}
