// Package dashboard aggregates the figures shown on the home page.
package dashboard

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core/attendance"
	"github.com/edutrack/edutrack/core/marks"
	"github.com/edutrack/edutrack/core/student"
)

type Stats struct {
	TotalStudents int    `json:"total_students"`
	PresentToday  int    `json:"present_today"`
	AbsentToday   int    `json:"absent_today"`
	AvgMarks      string `json:"avg_marks"`
}

type Service struct {
	students   student.Service
	attendance attendance.Service
	marks      marks.Service
}

func NewService(students student.Service, att attendance.Service, mks marks.Service) *Service {
	return &Service{students: students, attendance: att, marks: mks}
}

func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	total, err := svc.students.Count(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting students")
	}
	present, absent, err := svc.attendance.TodayCounts(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "counting attendance")
	}
	avg, err := svc.marks.Average(ctx)
	if err != nil {
		return Stats{}, errors.Wrap(err, "averaging marks")
	}

	stats := Stats{
		TotalStudents: total,
		PresentToday:  present,
		AbsentToday:   absent,
		AvgMarks:      "0%",
	}
	if avg != 0 {
		stats.AvgMarks = fmt.Sprintf("%.1f%%", avg)
	}
	return stats, nil
}
