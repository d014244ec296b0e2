package marks

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/student"
)

var NowFunc = time.Now // mockable

type (
	Repository interface {
		AddMark(ctx context.Context, m Mark) error
		QueryMarks(ctx context.Context) ([]Mark, error)
	}

	Service interface {
		Add(ctx context.Context, nm NewMark) (Mark, error)
		QueryAll(ctx context.Context) ([]Mark, error)
		// Average is the mean of every numeric mark, 0 when there is none.
		Average(ctx context.Context) (float64, error)
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

func (svc *service) Add(ctx context.Context, nm NewMark) (Mark, error) {
	m := Mark{
		StudentID: nm.StudentID,
		Subject:   nm.Subject,
		Exam:      nm.Exam,
		Marks:     nm.Marks,
		CreatedAt: NowFunc().UTC(),
	}
	if err := svc.repo.AddMark(ctx, m); err != nil {
		return Mark{}, errors.Wrap(err, "adding mark")
	}
	svc.notify(ctx, m)
	return m, nil
}

// notify tells the parent; failures are logged, the mark is kept.
func (svc *service) notify(ctx context.Context, m Mark) {
	s, err := svc.students.Get(ctx, m.StudentID)
	if err != nil {
		if errors.Cause(err) != student.ErrNotFound {
			svc.logger.Error(fmt.Sprintf("getting student %s: %v", m.StudentID, err), err)
		}
		return
	}
	n, err := core.NewMarksNotification(s.Parent(), core.MarksData{
		ParentName:  s.ParentName,
		StudentName: s.Name,
		Subject:     m.Subject,
		Exam:        m.Exam,
		Marks:       m.Marks,
	})
	if err != nil {
		svc.logger.Error(err.Error(), err)
		return
	}
	if err = svc.notifier.Notify(ctx, n); err != nil {
		svc.logger.Error(fmt.Sprintf("sending marks notification for %s: %v", s.ID, err), err)
	}
}

func (svc *service) QueryAll(ctx context.Context) ([]Mark, error) {
	return svc.repo.QueryMarks(ctx)
}

func (svc *service) Average(ctx context.Context) (float64, error) {
	all, err := svc.repo.QueryMarks(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying marks")
	}
	values := make(stats.Float64Data, 0, len(all))
	for _, m := range all {
		if v, ok := ParseMarks(m.Marks); ok {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 0, nil
	}
	mean, err := values.Mean()
	if err != nil {
		return 0, errors.Wrap(err, "computing mean")
	}
	return mean, nil
}

// ParseMarks reads a numeric mark such as "72", "72.5" or "72%".
func ParseMarks(s string) (float64, bool) {
	s = strings.TrimSuffix(core.CleanString(s), "%")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
