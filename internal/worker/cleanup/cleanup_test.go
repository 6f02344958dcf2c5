package cleanup

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

// mockSessionDeleter はSessionDeleterのモック実装。
type mockSessionDeleter struct {
	deleteExpiredFn func(ctx context.Context) (int64, error)

	calls int
}

func (m *mockSessionDeleter) DeleteExpired(ctx context.Context) (int64, error) {
	m.calls++
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

func TestCleanupJob_Run_DeletesExpiredSessions(t *testing.T) {
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 42, nil
		},
	}
	job := NewCleanupJob(deleter, slog.Default())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if deleter.calls != 1 {
		t.Errorf("DeleteExpired calls = %d, want 1", deleter.calls)
	}
}

func TestCleanupJob_Run_NothingToDeleteIsNotAnError(t *testing.T) {
	deleter := &mockSessionDeleter{}
	job := NewCleanupJob(deleter, slog.Default())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run should be idempotent with zero deletions, got: %v", err)
	}
}

func TestCleanupJob_Run_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	deleter := &mockSessionDeleter{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, storeErr
		},
	}
	job := NewCleanupJob(deleter, slog.Default())

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from store failure")
	}
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got: %v", err)
	}
}
