package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMutate_RollbackOnCommitFailure: оптимистичное значение v1 при
// упавшем коммите полностью откатывается к v0, IsValidating не залипает
func TestMutate_RollbackOnCommitFailure(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Write("k", func(any) any { return "v0" })

	commitErr := errors.New("boom")
	_, err := s.Mutate(ctx, Mutation{
		Key:             "k",
		RollbackOnError: true,
		Optimistic:      func(any) any { return "v1" },
		Commit: func(ctx context.Context) (any, error) {
			// Оптимистичное значение уже видно на момент коммита
			assert.Equal(t, "v1", s.Read("k").Value)
			return nil, commitErr
		},
	})

	require.ErrorIs(t, err, commitErr)
	entry := s.Read("k")
	assert.Equal(t, "v0", entry.Value)
	assert.False(t, entry.IsValidating)
}

// TestMutate_ServerValueWins: при успешном коммите запись равна
// серверному значению v2, а не локальному прогнозу v1
func TestMutate_ServerValueWins(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Write("k", func(any) any { return "v0" })

	got, err := s.Mutate(ctx, Mutation{
		Key:        "k",
		Optimistic: func(any) any { return "v1" },
		Commit: func(ctx context.Context) (any, error) {
			return "v2", nil
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, "v2", s.Read("k").Value)
}

func TestMutate_ReconcileMergesServerValue(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	s.Write("k", func(any) any { return []string{"a", "b"} })

	_, err := s.Mutate(ctx, Mutation{
		Key:        "k",
		Optimistic: func(prev any) any { return prev },
		Commit: func(ctx context.Context) (any, error) {
			return "c", nil
		},
		Reconcile: func(prev, server any) any {
			return append(prev.([]string), server.(string))
		},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, s.Read("k").Value)
}

// TestMutate_ConcurrentSameKeyRejected: вторая мутация ключа до
// завершения первой получает ErrMutationInFlight, записи не
// перемешиваются
func TestMutate_ConcurrentSameKeyRejected(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	inCommit := make(chan struct{})
	release := make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := s.Mutate(ctx, Mutation{
			Key:        "k",
			Optimistic: func(any) any { return "first" },
			Commit: func(ctx context.Context) (any, error) {
				close(inCommit)
				<-release
				return "first-confirmed", nil
			},
		})
		done <- err
	}()

	<-inCommit
	_, err := s.Mutate(ctx, Mutation{
		Key:        "k",
		Optimistic: func(any) any { return "second" },
		Commit: func(ctx context.Context) (any, error) {
			return "second-confirmed", nil
		},
	})
	assert.ErrorIs(t, err, ErrMutationInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "first-confirmed", s.Read("k").Value)
}

// TestMutate_SuppressesRevalidation: пока мутация в полете, Fetch по
// ключу не ходит в сеть и возвращает оптимистичное значение
func TestMutate_SuppressesRevalidation(t *testing.T) {
	s := NewStore(WithDedupeWindow(0))
	ctx := context.Background()

	inCommit := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_, _ = s.Mutate(ctx, Mutation{
			Key:        "k",
			Optimistic: func(any) any { return "optimistic" },
			Commit: func(ctx context.Context) (any, error) {
				close(inCommit)
				<-release
				return "confirmed", nil
			},
		})
	}()

	<-inCommit

	var networkCalls atomic.Int64
	entry, err := s.Fetch(ctx, "k", func(ctx context.Context) (any, error) {
		networkCalls.Add(1)
		return "from-network", nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), networkCalls.Load())
	assert.Equal(t, "optimistic", entry.Value)

	close(release)
	assert.Eventually(t, func() bool {
		return s.Read("k").Value == "confirmed"
	}, time.Second, 10*time.Millisecond)
}
