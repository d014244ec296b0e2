package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/student"
)

var (
	NowFunc = time.Now // mockable

	ErrAlreadyMarked = errors.New("attendance already marked for this student today")
)

type (
	Repository interface {
		// AddDailyRecord fails with ErrAlreadyMarked when the student already has a record for that date.
		AddDailyRecord(ctx context.Context, rec Record) error
		QueryDailyRecords(ctx context.Context, date string) ([]Record, error)
		QueryHistory(ctx context.Context) ([]Record, error)
		// ArchiveDailyRecords moves every daily record into the history.
		ArchiveDailyRecords(ctx context.Context) (int, error)
	}

	Service interface {
		Mark(ctx context.Context, nr NewRecord) (Record, error)
		Today(ctx context.Context) ([]TodayEntry, error)
		TodayCounts(ctx context.Context) (present, absent int, err error)
		History(ctx context.Context) ([]Record, error)
		Archive(ctx context.Context) (int, error)
	}

	service struct {
		repo     Repository
		students student.Service
		notifier core.Notifier
		logger   core.Logger
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, students student.Service, notifier core.Notifier, logger core.Logger) Service {
	return &service{
		repo:     repo,
		students: students,
		notifier: notifier,
		logger:   logger,
	}
}

func today() string { return NowFunc().Format(DateLayout) }

func (svc *service) Mark(ctx context.Context, nr NewRecord) (Record, error) {
	rec := Record{
		Date:      today(),
		StudentID: nr.StudentID,
		Status:    nr.Status,
	}
	if rec.Status == StatusAbsent {
		rec.Reason = nr.Reason
	}

	if err := svc.repo.AddDailyRecord(ctx, rec); err != nil {
		if errors.Cause(err) == ErrAlreadyMarked {
			return Record{}, core.NewValidationError(err)
		}
		return Record{}, errors.Wrap(err, "adding daily record")
	}

	if rec.Status == StatusAbsent {
		svc.notifyAbsence(ctx, rec)
	}
	return rec, nil
}

// notifyAbsence tells the parent; failures are logged, the attendance is kept.
func (svc *service) notifyAbsence(ctx context.Context, rec Record) {
	s, err := svc.students.Get(ctx, rec.StudentID)
	if err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			svc.logger.Error(fmt.Sprintf("getting student %s: %v", rec.StudentID, err), err)
		}
		return
	}

	n, err := core.NewAbsenceNotification(s.Parent(), core.AbsenceData{
		ParentName:  s.ParentName,
		StudentName: s.Name,
		Date:        rec.Date,
		Reason:      rec.Reason,
	})
	if err != nil {
		svc.logger.Error(err.Error(), err)
		return
	}
	if err = svc.notifier.Notify(ctx, n); err != nil {
		svc.logger.Error(fmt.Sprintf("sending absence notification for %s: %v", s.ID, err), err)
	}
}

func (svc *service) Today(ctx context.Context) ([]TodayEntry, error) {
	students, err := svc.students.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying students")
	}
	daily, err := svc.repo.QueryDailyRecords(ctx, today())
	if err != nil {
		return nil, errors.Wrap(err, "querying daily records")
	}

	statuses := make(map[string]string, len(daily))
	for _, rec := range daily {
		statuses[rec.StudentID] = rec.Status
	}
	entries := make([]TodayEntry, 0, len(students))
	for _, s := range students {
		status, ok := statuses[s.ID]
		if !ok {
			status = StatusPending
		}
		entries = append(entries, TodayEntry{StudentID: s.ID, Name: s.Name, Status: status})
	}
	return entries, nil
}

func (svc *service) TodayCounts(ctx context.Context) (present, absent int, err error) {
	daily, err := svc.repo.QueryDailyRecords(ctx, today())
	if err != nil {
		return 0, 0, errors.Wrap(err, "querying daily records")
	}
	for _, rec := range daily {
		switch rec.Status {
		case StatusPresent:
			present++
		case StatusAbsent:
			absent++
		}
	}
	return present, absent, nil
}

func (svc *service) History(ctx context.Context) ([]Record, error) {
	return svc.repo.QueryHistory(ctx)
}

func (svc *service) Archive(ctx context.Context) (int, error) {
	n, err := svc.repo.ArchiveDailyRecords(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "archiving daily records")
	}
	svc.logger.Info(fmt.Sprintf("archived %d attendance records", n))
	return n, nil
}
