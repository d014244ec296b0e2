package batch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/importer"
	"github.com/edutrack/edutrack/core/student"
)

var NowFunc = time.Now // mockable

type (
	// DecodeFunc turns an uploaded file into rows, eg. sheet.DecodeFile.
	DecodeFunc func(filename string, r io.Reader) ([]importer.RawRow, error)

	// StudentFinder looks up the parent of an imported record.
	StudentFinder interface {
		Get(ctx context.Context, id string) (student.Student, error)
	}

	DispatchOptions struct {
		Concurrency int
		Delay       time.Duration // between two sends
	}

	Service interface {
		Import(ctx context.Context, session core.Session, filename string, rows []importer.RawRow) (Batch, error)
		ImportFile(ctx context.Context, session core.Session, filename string, r io.Reader) (Batch, error)
		Current(ctx context.Context, session core.Session) (Batch, error)
		Discard(ctx context.Context, session core.Session) error
		Dispatch(ctx context.Context, session core.Session) (Batch, error)
		Rules() importer.Rules
	}

	service struct {
		repo     Repository
		mapper   *importer.Mapper
		decode   DecodeFunc
		students StudentFinder
		notifier core.Notifier
		logger   core.Logger
		opts     DispatchOptions
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	mapper *importer.Mapper,
	decode DecodeFunc,
	students StudentFinder,
	notifier core.Notifier,
	logger core.Logger,
	opts DispatchOptions,
) Service {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &service{
		repo:     repo,
		mapper:   mapper,
		decode:   decode,
		students: students,
		notifier: notifier,
		logger:   logger,
		opts:     opts,
	}
}

func (svc *service) Rules() importer.Rules { return svc.mapper.Rules() }

func (svc *service) Import(ctx context.Context, session core.Session, filename string, rows []importer.RawRow) (Batch, error) {
	if len(rows) == 0 {
		// keep the previous batch
		return Batch{}, ErrNothingToImport
	}

	res := svc.mapper.ImportRows(rows)
	b := Batch{
		ID:        uuid.New(),
		Session:   session,
		Filename:  filename,
		CreatedAt: NowFunc().UTC(),
		Records:   res.Records,
		Skipped:   res.Skipped,
	}
	if err := svc.repo.ReplaceBatch(ctx, b); err != nil {
		return Batch{}, errors.Wrap(err, "replacing batch")
	}
	svc.logger.Info(
		fmt.Sprintf("imported %d records from %q (%d rows skipped)", len(b.Records), filename, b.Skipped),
		session,
	)
	if b.Empty() {
		// the empty batch still replaces the previous one
		return b, errors.Wrapf(ErrNothingToImport, "%d rows skipped", b.Skipped)
	}
	return b, nil
}

func (svc *service) ImportFile(ctx context.Context, session core.Session, filename string, r io.Reader) (Batch, error) {
	rows, err := svc.decode(filename, r)
	if err != nil {
		return Batch{}, errors.Wrap(err, "decoding "+filename)
	}
	return svc.Import(ctx, session, filename, rows)
}

func (svc *service) Current(ctx context.Context, session core.Session) (Batch, error) {
	return svc.repo.CurrentBatch(ctx, session)
}

func (svc *service) Discard(ctx context.Context, session core.Session) error {
	return svc.repo.DeleteBatch(ctx, session)
}

// Dispatch notifies the parent of every pending record of the session's batch.
// Cancelling `ctx` stops scheduling new records; records already sending are completed.
func (svc *service) Dispatch(ctx context.Context, session core.Session) (Batch, error) {
	b, err := svc.repo.CurrentBatch(ctx, session)
	if err != nil {
		return Batch{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(svc.opts.Concurrency)

	scheduled := 0
	for idx, rec := range b.Records {
		if rec.Status != importer.StatusPending {
			continue
		}
		if gctx.Err() != nil {
			break
		}
		if scheduled > 0 && svc.opts.Delay > 0 {
			select {
			case <-time.After(svc.opts.Delay):
			case <-gctx.Done():
			}
			if gctx.Err() != nil {
				break
			}
		}

		idx, rec := idx, rec
		g.Go(func() error {
			if gctx.Err() != nil { // cancelled while waiting for a slot
				return nil
			}
			return svc.dispatchRecord(context.WithoutCancel(gctx), b, idx, rec)
		})
		scheduled++
	}
	if err = g.Wait(); err != nil {
		return Batch{}, err
	}

	if b, err = svc.repo.CurrentBatch(ctx, session); err != nil {
		return Batch{}, err
	}
	sum := b.Summary()
	svc.logger.Info(fmt.Sprintf("dispatched batch %s: %d sent, %d failed", b.ID, sum.Sent, sum.Failed), session)
	if ctx.Err() != nil {
		return b, errors.Wrap(ctx.Err(), "dispatch interrupted")
	}
	return b, nil
}

func (svc *service) dispatchRecord(ctx context.Context, b Batch, idx int, rec importer.ImportedRecord) error {
	if err := svc.repo.SetRecordStatus(ctx, b.Session, b.ID, idx, importer.StatusSending); err != nil {
		return errors.Wrapf(err, "record %d", idx)
	}

	status := importer.StatusSent
	if err := svc.send(ctx, rec); err != nil {
		status = importer.StatusFailed
		svc.logger.Warn(fmt.Sprintf("dispatching record %d (%s): %v", idx, rec.StudentID, err), err, b.Session)
	}

	if err := svc.repo.SetRecordStatus(ctx, b.Session, b.ID, idx, status); err != nil {
		return errors.Wrapf(err, "record %d", idx)
	}
	return nil
}

func (svc *service) send(ctx context.Context, rec importer.ImportedRecord) error {
	s, err := svc.students.Get(ctx, rec.StudentID)
	if err != nil {
		return errors.Wrap(err, "getting student")
	}
	n, err := core.NewMarksNotification(s.Parent(), core.MarksData{
		ParentName:  s.ParentName,
		StudentName: s.Name,
		Subject:     orDash(rec.Subject.String, rec.Subject.Valid),
		Exam:        orDash(rec.ExamType.String, rec.ExamType.Valid),
		Marks:       orDash(rec.Score.String, rec.Score.Valid),
	})
	if err != nil {
		return err
	}
	return svc.notifier.Notify(ctx, n)
}

func orDash(s string, valid bool) string {
	if !valid {
		return "-"
	}
	return s
}
