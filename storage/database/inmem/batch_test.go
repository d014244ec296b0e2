package inmemdb

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/importer"
)

func TestBatchRepository(t *testing.T) {
	repo := NewBatchRepository(Open())
	ctx := context.Background()

	b := batch.Batch{
		ID:      uuid.New(),
		Session: "s",
		Records: []importer.ImportedRecord{
			{StudentID: "S1", Status: importer.StatusPending},
			{StudentID: "S2", Status: importer.StatusPending},
		},
	}
	require.NoError(t, repo.ReplaceBatch(ctx, b))

	t.Run("reads are copies", func(t *testing.T) {
		b.Records[0].StudentID = "changed"
		cur, err := repo.CurrentBatch(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, "S1", cur.Records[0].StudentID)

		cur.Records[1].Status = importer.StatusSent
		cur, err = repo.CurrentBatch(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, importer.StatusPending, cur.Records[1].Status)
	})

	t.Run("transitions", func(t *testing.T) {
		tests := []struct {
			name    string
			batchID uuid.UUID
			idx     int
			status  importer.DispatchStatus
			wantErr error
		}{
			{name: "pending -> sent", batchID: b.ID, idx: 0, status: importer.StatusSent, wantErr: batch.ErrInvalidTransition},
			{name: "pending -> sending", batchID: b.ID, idx: 0, status: importer.StatusSending},
			{name: "sending -> pending", batchID: b.ID, idx: 0, status: importer.StatusPending, wantErr: batch.ErrInvalidTransition},
			{name: "sending -> failed", batchID: b.ID, idx: 0, status: importer.StatusFailed},
			{name: "failed -> sending", batchID: b.ID, idx: 0, status: importer.StatusSending, wantErr: batch.ErrInvalidTransition},
			{name: "out of range", batchID: b.ID, idx: 2, status: importer.StatusSending, wantErr: batch.ErrNotFound},
			{name: "other batch", batchID: uuid.New(), idx: 1, status: importer.StatusSending, wantErr: batch.ErrNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := repo.SetRecordStatus(ctx, "s", tt.batchID, tt.idx, tt.status)
				assert.Equal(t, tt.wantErr, err)
			})
		}

		cur, err := repo.CurrentBatch(ctx, "s")
		require.NoError(t, err)
		assert.Equal(t, importer.StatusFailed, cur.Records[0].Status)
		assert.Equal(t, importer.StatusPending, cur.Records[1].Status)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteBatch(ctx, "s"))
		_, err := repo.CurrentBatch(ctx, "s")
		assert.Equal(t, batch.ErrNotFound, err)
	})
}
