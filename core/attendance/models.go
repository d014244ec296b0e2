package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack/core"
)

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"

	// StatusPending is reported for students not marked yet today.
	StatusPending = "Pending"

	DateLayout = "2006-01-02"
)

var (
	statusTag  = "attendance_status"
	statusText = "status must be one of Present, Absent"
)

// InitValidators registers the attendance validation tags.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(statusTag, func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == StatusPresent || s == StatusAbsent
	})
	core.RegisterCustomTranslation(validate, translator, statusTag, statusText)
}

type Record struct {
	Date      string `json:"date"`
	StudentID string `json:"student_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// TodayEntry is a directory student with today's attendance status.
type TodayEntry struct {
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// NewRecord contains information needed to mark a student's attendance.
type NewRecord struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
	Reason    string `json:"reason"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.Reason = core.CleanString(nr.Reason)
	// accept "present", "ABSENT"...
	switch core.CleanString(nr.Status, true /* lower */) {
	case "present":
		nr.Status = StatusPresent
	case "absent":
		nr.Status = StatusAbsent
	}
	return validate.Struct(nr)
}
