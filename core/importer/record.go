package importer

import (
	"github.com/volatiletech/null/v8"
)

// DispatchStatus tracks the notification of an ImportedRecord.
type DispatchStatus string

const (
	StatusPending DispatchStatus = "pending"
	StatusSending DispatchStatus = "sending"
	StatusSent    DispatchStatus = "sent"
	StatusFailed  DispatchStatus = "failed"
)

var statusRanks = map[DispatchStatus]int{
	StatusPending: 0,
	StatusSending: 1,
	StatusSent:    2,
	StatusFailed:  2,
}

// CanAdvanceTo reports whether a record may move from `s` to `next`.
// Statuses only move forward: pending -> sending -> sent | failed.
func (s DispatchStatus) CanAdvanceTo(next DispatchStatus) bool {
	from, ok := statusRanks[s]
	if !ok {
		return false
	}
	to, ok := statusRanks[next]
	if !ok {
		return false
	}
	return to == from+1
}

func (s DispatchStatus) IsFinal() bool {
	return s == StatusSent || s == StatusFailed
}

// ImportedRecord is a normalized student-record update candidate.
type ImportedRecord struct {
	StudentID string         `json:"student_id"`
	Subject   null.String    `json:"subject"`
	ExamType  null.String    `json:"exam_type"`
	Score     null.String    `json:"score"`
	Status    DispatchStatus `json:"status"`
}
