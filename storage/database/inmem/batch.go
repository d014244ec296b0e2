package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
)

type batchRepository struct {
	db *batchTable
}

var _ batch.Repository = (*batchRepository)(nil)

func NewBatchRepository(db *DB) batch.Repository {
	return &batchRepository{db: db.batch}
}

func copyBatch(b batch.Batch) batch.Batch {
	b.Records = append([]importer.ImportedRecord{}, b.Records...)
	return b
}

func (repo *batchRepository) ReplaceBatch(_ context.Context, b batch.Batch) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b = copyBatch(b)
	repo.db.table[b.Session] = &b
	return nil
}

func (repo *batchRepository) CurrentBatch(_ context.Context, session core.Session) (batch.Batch, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if b, ok := repo.db.table[session]; ok {
		return copyBatch(*b), nil
	}
	return batch.Batch{}, batch.ErrNotFound
}

func (repo *batchRepository) SetRecordStatus(
	_ context.Context,
	session core.Session,
	batchID uuid.UUID,
	idx int,
	status importer.DispatchStatus,
) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	b, ok := repo.db.table[session]
	if !ok || b.ID != batchID || idx < 0 || idx >= len(b.Records) {
		return batch.ErrNotFound
	}
	if !b.Records[idx].Status.CanAdvanceTo(status) {
		return batch.ErrInvalidTransition
	}
	b.Records[idx].Status = status
	return nil
}

func (repo *batchRepository) DeleteBatch(_ context.Context, session core.Session) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[session]; !ok {
		return batch.ErrNotFound
	}
	delete(repo.db.table, session)
	return nil
}
