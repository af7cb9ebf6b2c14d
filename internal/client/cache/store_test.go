package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Read_CreatesLoadingEntry(t *testing.T) {
	s := NewStore()

	entry := s.Read("communities")

	assert.Equal(t, "communities", entry.Key)
	assert.Nil(t, entry.Value)
	assert.NoError(t, entry.Err)
	assert.False(t, entry.IsValidating)
	assert.False(t, entry.HasValue())
}

func TestStore_Write_NotifiesAllSubscribers(t *testing.T) {
	s := NewStore()

	// Два наблюдателя одного ключа должны видеть идентичное состояние
	var got1, got2 []Entry
	cancel1 := s.Subscribe("k", func(e Entry) { got1 = append(got1, e) })
	defer cancel1()
	cancel2 := s.Subscribe("k", func(e Entry) { got2 = append(got2, e) })
	defer cancel2()

	s.Write("k", func(prev any) any { return "v1" })

	require.Len(t, got1, 1)
	require.Len(t, got2, 1)
	assert.Equal(t, got1[0].Value, got2[0].Value)
	assert.Equal(t, got1[0].Version, got2[0].Version)
	assert.Equal(t, "v1", got1[0].Value)
}

func TestStore_Subscribe_CancelStopsDelivery(t *testing.T) {
	s := NewStore()

	var calls int
	cancel := s.Subscribe("k", func(Entry) { calls++ })

	s.Write("k", func(any) any { return 1 })
	cancel()
	s.Write("k", func(any) any { return 2 })

	assert.Equal(t, 1, calls)
}

// TestStore_Fetch_DedupesConcurrentRequests проверяет когерентность кэша:
// два конкурентных запроса одного ключа дают ровно один сетевой вызов,
// и оба вызывающих видят одно и то же значение
func TestStore_Fetch_DedupesConcurrentRequests(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var networkCalls atomic.Int64
	started := make(chan struct{})
	release := make(chan struct{})

	fetch := func(ctx context.Context) (any, error) {
		networkCalls.Add(1)
		close(started)
		<-release
		return "value", nil
	}

	var wg sync.WaitGroup
	results := make([]Entry, 2)
	for i := range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry, err := s.Fetch(ctx, "k", fetch)
			require.NoError(t, err)
			results[i] = entry
		}()
	}

	<-started
	// Даем второму вызову дойти до singleflight
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int64(1), networkCalls.Load())
	assert.Equal(t, results[0].Value, results[1].Value)
	assert.Equal(t, "value", results[0].Value)
}

func TestStore_Fetch_DedupeWindowSkipsNetwork(t *testing.T) {
	s := NewStore(WithDedupeWindow(time.Minute))
	ctx := context.Background()

	var networkCalls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		networkCalls.Add(1)
		return "value", nil
	}

	_, err := s.Fetch(ctx, "k", fetch)
	require.NoError(t, err)

	// Повторный запрос в пределах окна обслуживается из кэша
	entry, err := s.Fetch(ctx, "k", fetch)
	require.NoError(t, err)

	assert.Equal(t, int64(1), networkCalls.Load())
	assert.Equal(t, "value", entry.Value)
}

func TestStore_Fetch_ErrorPreservesPreviousValue(t *testing.T) {
	s := NewStore(WithDedupeWindow(0))
	ctx := context.Background()

	_, err := s.Fetch(ctx, "k", func(ctx context.Context) (any, error) {
		return "good", nil
	})
	require.NoError(t, err)

	fetchErr := errors.New("connection refused")
	entry, err := s.Fetch(ctx, "k", func(ctx context.Context) (any, error) {
		return nil, fetchErr
	})

	// Ошибка видна, но прежнее хорошее значение не потеряно
	require.Error(t, err)
	assert.Equal(t, "good", entry.Value)
	assert.ErrorIs(t, entry.Err, fetchErr)
	assert.False(t, entry.IsValidating)
}

// TestStore_Fetch_StaleResultDiscarded проверяет версионирование записей:
// медленная ревалидация, завершившаяся после записи по ключу, не может
// затереть более новое значение
func TestStore_Fetch_StaleResultDiscarded(t *testing.T) {
	s := NewStore(WithDedupeWindow(0))
	ctx := context.Background()

	inFlight := make(chan struct{})
	release := make(chan struct{})

	done := make(chan Entry, 1)
	go func() {
		entry, _ := s.Fetch(ctx, "k", func(ctx context.Context) (any, error) {
			close(inFlight)
			<-release
			return "stale", nil
		})
		done <- entry
	}()

	<-inFlight
	// Пока загрузка висит, по ключу проходит запись
	s.Write("k", func(any) any { return "newer" })
	close(release)
	<-done

	assert.Equal(t, "newer", s.Read("k").Value)
}

func TestStore_Invalidate_ForcesNetwork(t *testing.T) {
	s := NewStore(WithDedupeWindow(time.Minute))
	ctx := context.Background()

	var networkCalls atomic.Int64
	fetch := func(ctx context.Context) (any, error) {
		networkCalls.Add(1)
		return "value", nil
	}

	_, err := s.Fetch(ctx, "k", fetch)
	require.NoError(t, err)

	s.Invalidate("k")

	_, err = s.Fetch(ctx, "k", fetch)
	require.NoError(t, err)
	assert.Equal(t, int64(2), networkCalls.Load())
}
