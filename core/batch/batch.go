package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/importer"
)

var (
	ErrNotFound          = errors.New("no import batch for this session")
	ErrNothingToImport   = errors.New("nothing to import")
	ErrInvalidTransition = errors.New("invalid dispatch status transition")
)

// Batch is the most recent import of a session. A new import replaces it.
type Batch struct {
	ID        uuid.UUID                 `json:"id"`
	Session   core.Session              `json:"session"`
	Filename  string                    `json:"filename"`
	CreatedAt time.Time                 `json:"created_at"` // UTC
	Records   []importer.ImportedRecord `json:"records"`
	Skipped   int                       `json:"skipped"`
}

func (b Batch) Preview() (importer.ImportedRecord, bool) {
	return b.result().Preview()
}

func (b Batch) Empty() bool { return b.result().Empty() }

func (b Batch) result() importer.Result {
	return importer.Result{Records: b.Records, Skipped: b.Skipped}
}

type Summary struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Sending int `json:"sending"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func (b Batch) Summary() Summary {
	sum := Summary{Total: len(b.Records), Skipped: b.Skipped}
	for _, rec := range b.Records {
		switch rec.Status {
		case importer.StatusPending:
			sum.Pending++
		case importer.StatusSending:
			sum.Sending++
		case importer.StatusSent:
			sum.Sent++
		case importer.StatusFailed:
			sum.Failed++
		}
	}
	return sum
}

type Repository interface {
	// ReplaceBatch stores `b` as the current batch of its session, dropping the previous one.
	ReplaceBatch(ctx context.Context, b Batch) error
	CurrentBatch(ctx context.Context, session core.Session) (Batch, error)
	// SetRecordStatus fails with ErrNotFound when `batchID` is no longer the session's current batch,
	// and with ErrInvalidTransition when the record cannot move to `status`.
	SetRecordStatus(ctx context.Context, session core.Session, batchID uuid.UUID, idx int, status importer.DispatchStatus) error
	DeleteBatch(ctx context.Context, session core.Session) error
}
