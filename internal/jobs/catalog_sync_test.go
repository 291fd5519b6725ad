package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogSyncer struct {
	mock.Mock
}

func (m *MockCatalogSyncer) SyncCatalog(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// blockingSyncer holds every sync open until release is closed.
type blockingSyncer struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (b *blockingSyncer) SyncCatalog(ctx context.Context) (int, error) {
	b.calls.Add(1)
	close(b.started)
	<-b.release
	return 1, nil
}

func TestNewCatalogSyncRejectsBadSchedule(t *testing.T) {
	_, err := NewCatalogSync(new(MockCatalogSyncer), "every tuesday")
	assert.Error(t, err)
}

func TestNewCatalogSyncDefaultSchedule(t *testing.T) {
	job, err := NewCatalogSync(new(MockCatalogSyncer), "")
	require.NoError(t, err)
	assert.Len(t, job.cron.Entries(), 1)
}

func TestCatalogSyncRunOnce(t *testing.T) {
	syncer := new(MockCatalogSyncer)
	syncer.On("SyncCatalog", mock.Anything).Return(1300, nil).Once()
	syncer.On("SyncCatalog", mock.Anything).Return(0, errors.New("catalog down")).Once()

	job, err := NewCatalogSync(syncer, "@every 1h")
	require.NoError(t, err)

	n, err := job.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1300, n)

	_, err = job.RunOnce(context.Background())
	assert.ErrorContains(t, err, "catalog down")
	syncer.AssertExpectations(t)
}

func TestCatalogSyncDoesNotOverlap(t *testing.T) {
	syncer := &blockingSyncer{started: make(chan struct{}), release: make(chan struct{})}
	job, err := NewCatalogSync(syncer, "@every 1h")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := job.RunOnce(context.Background())
		done <- err
	}()
	<-syncer.started

	_, err = job.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(syncer.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), syncer.calls.Load())
}

func TestCatalogSyncSchedule(t *testing.T) {
	syncer := new(MockCatalogSyncer)
	ran := make(chan struct{}, 1)
	syncer.On("SyncCatalog", mock.Anything).Return(5, nil).Run(func(mock.Arguments) {
		select {
		case ran <- struct{}{}:
		default:
		}
	})

	job, err := NewCatalogSync(syncer, "@every 1s")
	require.NoError(t, err)
	job.Start()
	defer job.Stop()

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduled sync did not run")
	}
}
