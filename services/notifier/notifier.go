// Package notifier delivers parent notifications.
package notifier

import (
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
)

var (
	ErrNoRecipient = errors.New("parent has no phone number or email address")
	ErrNoEmail     = errors.New("parent has no email address")
	ErrNoPhone     = errors.New("parent has no phone number")
	ErrEmptyBody   = errors.New("notification has no content")
)

func validate(n core.Notification) error {
	if core.SanitizePhone(n.To.Phone) == "" && n.To.Email == "" {
		return ErrNoRecipient
	}
	if core.CleanString(n.Body) == "" {
		return ErrEmptyBody
	}
	return nil
}
