package event

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/erp/cashledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryDeadLetters is a map-backed DeadLetterRepository
type memoryDeadLetters struct {
	entries   map[uuid.UUID]*shared.OutboxEntry
	updateErr error
}

func newMemoryDeadLetters() *memoryDeadLetters {
	return &memoryDeadLetters{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *memoryDeadLetters) add(branchID uuid.UUID, status shared.OutboxStatus) *shared.OutboxEntry {
	now := time.Now()
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		BranchID:      branchID,
		EventID:       uuid.New(),
		EventType:     "MovementRecorded",
		AggregateID:   uuid.New(),
		AggregateType: "CashRegisterShift",
		Status:        status,
		MaxRetries:    shared.DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if status == shared.OutboxStatusDead {
		entry.RetryCount = entry.MaxRetries
		entry.LastError = "redis unavailable"
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *memoryDeadLetters) FindDead(_ context.Context, branchID uuid.UUID, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.BranchID == branchID && e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	sort.Slice(dead, func(i, j int) bool { return dead[i].ID.String() < dead[j].ID.String() })

	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, int64(len(dead)), nil
	}
	end := min(start+pageSize, len(dead))
	return dead[start:end], int64(len(dead)), nil
}

func (r *memoryDeadLetters) FindByID(_ context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	if e, ok := r.entries[id]; ok {
		return e, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memoryDeadLetters) Update(_ context.Context, entry *shared.OutboxEntry) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.entries[entry.ID] = entry
	return nil
}

func (r *memoryDeadLetters) CountByStatus(_ context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

func TestOutboxService_GetDeadLetterEntries(t *testing.T) {
	repo := newMemoryDeadLetters()
	service := NewOutboxService(repo, zap.NewNop())
	branchID := uuid.New()

	for i := 0; i < 5; i++ {
		repo.add(branchID, shared.OutboxStatusDead)
	}
	repo.add(branchID, shared.OutboxStatusPending)
	repo.add(uuid.New(), shared.OutboxStatusDead)

	result, err := service.GetDeadLetterEntries(context.Background(), branchID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 3, result.TotalPages)
	assert.Len(t, result.Items, 2)
	for _, entry := range result.Items {
		assert.Equal(t, "DEAD", entry.Status)
		assert.Equal(t, branchID, entry.BranchID)
	}

	t.Run("page size falls back to the default", func(t *testing.T) {
		result, err := service.GetDeadLetterEntries(context.Background(), branchID, 0, 500)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Page)
		assert.Equal(t, 20, result.PageSize)
		assert.Len(t, result.Items, 5)
	})
}

func TestOutboxService_RetryDeadEntry(t *testing.T) {
	ctx := context.Background()
	branchID := uuid.New()

	t.Run("requeues a dead entry", func(t *testing.T) {
		repo := newMemoryDeadLetters()
		dead := repo.add(branchID, shared.OutboxStatusDead)

		result, err := NewOutboxService(repo, zap.NewNop()).RetryDeadEntry(ctx, branchID, dead.ID)
		require.NoError(t, err)
		assert.Equal(t, "PENDING", result.Status)
		assert.Zero(t, result.RetryCount)
		assert.Empty(t, result.LastError)
		assert.Equal(t, shared.OutboxStatusPending, repo.entries[dead.ID].Status)
	})

	t.Run("unknown entry", func(t *testing.T) {
		_, err := NewOutboxService(newMemoryDeadLetters(), zap.NewNop()).RetryDeadEntry(ctx, branchID, uuid.New())
		assert.ErrorIs(t, err, ErrEntryNotFound)
	})

	t.Run("entry of another branch", func(t *testing.T) {
		repo := newMemoryDeadLetters()
		dead := repo.add(uuid.New(), shared.OutboxStatusDead)

		_, err := NewOutboxService(repo, zap.NewNop()).RetryDeadEntry(ctx, branchID, dead.ID)
		assert.ErrorIs(t, err, ErrEntryNotFound)
		assert.Equal(t, shared.OutboxStatusDead, dead.Status)
	})

	t.Run("entry that is not dead", func(t *testing.T) {
		repo := newMemoryDeadLetters()
		pending := repo.add(branchID, shared.OutboxStatusPending)

		_, err := NewOutboxService(repo, zap.NewNop()).RetryDeadEntry(ctx, branchID, pending.ID)
		assert.Equal(t, "INVALID_STATE", shared.CodeOf(err))
	})

	t.Run("store failure", func(t *testing.T) {
		repo := newMemoryDeadLetters()
		repo.updateErr = errors.New("connection reset")
		dead := repo.add(branchID, shared.OutboxStatusDead)

		_, err := NewOutboxService(repo, zap.NewNop()).RetryDeadEntry(ctx, branchID, dead.ID)
		assert.EqualError(t, err, "connection reset")
	})
}

func TestOutboxService_RetryAllDeadEntries(t *testing.T) {
	repo := newMemoryDeadLetters()
	service := NewOutboxService(repo, zap.NewNop())
	branchID := uuid.New()

	for i := 0; i < 250; i++ {
		repo.add(branchID, shared.OutboxStatusDead)
	}
	other := repo.add(uuid.New(), shared.OutboxStatusDead)
	pending := repo.add(branchID, shared.OutboxStatusPending)

	count, err := service.RetryAllDeadEntries(context.Background(), branchID)
	require.NoError(t, err)
	assert.Equal(t, int64(250), count)

	for id, entry := range repo.entries {
		if id == other.ID {
			assert.Equal(t, shared.OutboxStatusDead, entry.Status)
			continue
		}
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
	}
	assert.Zero(t, pending.RetryCount)

	t.Run("stops when nothing can be reset", func(t *testing.T) {
		repo := newMemoryDeadLetters()
		repo.updateErr = errors.New("read only")
		for i := 0; i < 150; i++ {
			repo.add(branchID, shared.OutboxStatusDead)
		}

		count, err := NewOutboxService(repo, zap.NewNop()).RetryAllDeadEntries(context.Background(), branchID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestOutboxService_GetStats(t *testing.T) {
	repo := newMemoryDeadLetters()
	service := NewOutboxService(repo, zap.NewNop())

	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		repo.add(uuid.New(), status)
	}

	stats, err := service.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(3), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(8), stats.Total)
}
