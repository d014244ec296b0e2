package student

import (
	"github.com/go-playground/validator/v10"

	"github.com/edutrack/edutrack/core"
)

type Student struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	ParentName  string `json:"parent_name"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email"`
}

// Parent returns the notification recipient of the student.
func (s Student) Parent() core.Recipient {
	return core.Recipient{Name: s.ParentName, Phone: s.ParentPhone, Email: s.ParentEmail}
}

// NewStudent contains information needed to create or update a Student.
type NewStudent struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Department  string `json:"department"`
	ParentName  string `json:"parent_name" validate:"required"`
	ParentPhone string `json:"parent_phone" validate:"required,phone"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.ID = core.CleanString(ns.ID)
	ns.Name = core.CleanString(ns.Name)
	ns.Department = core.CleanString(ns.Department)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
	return validate.Struct(ns)
}
