package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	clientapi "github.com/iudanet/communitas/internal/client/api"
)

// Параметры политики ревалидации по умолчанию
const (
	DefaultRetryCount    = 3
	DefaultRetryInterval = 5 * time.Second
)

// Options настраивает политику ревалидации ресурса
type Options struct {
	// Triggers — внешние сигналы ревалидации (фокус, восстановление сети)
	Triggers []*Signal

	// RefreshInterval — период фонового автообновления, 0 отключает
	RefreshInterval time.Duration

	// RetryInterval — фиксированная пауза между повторами неудачной загрузки
	RetryInterval time.Duration

	// RetryCount — максимум повторов после первой неудачной попытки
	RetryCount uint64
}

// Resource связывает ключ кэша с функцией загрузки и политикой
// ревалидации: загрузка при первом обращении, фоновые обновления по
// сигналам и таймеру, ограниченные повторы с фиксированным бэкоффом.
// HTTP 404 не ретраится никогда: ошибка сразу отдается наблюдателям.
type Resource struct {
	store  *Store
	logger *slog.Logger
	fetch  func(ctx context.Context) (any, error)
	key    string
	opts   Options
}

// NewResource создает ресурс поверх Store
func NewResource(store *Store, logger *slog.Logger, key string, fetch func(ctx context.Context) (any, error), opts Options) *Resource {
	if opts.RetryCount == 0 {
		opts.RetryCount = DefaultRetryCount
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = DefaultRetryInterval
	}
	return &Resource{
		store:  store,
		logger: logger,
		key:    key,
		fetch:  fetch,
		opts:   opts,
	}
}

// Key возвращает ключ записи кэша ресурса
func (r *Resource) Key() string { return r.key }

// Get возвращает состояние ресурса. Первое обращение блокируется до
// результата загрузки; дальше работает stale-while-revalidate: значение
// отдается немедленно, обновление уходит в фон и наблюдатели видят
// только переключение IsValidating, но никогда пустой экран.
func (r *Resource) Get(ctx context.Context) (Entry, error) {
	cur := r.store.Read(r.key)
	if !cur.HasValue() && cur.Err == nil {
		return r.Revalidate(ctx)
	}

	go func() {
		// Фоновая ревалидация переживает отмену вызывающего контекста:
		// результат все равно пишется в общий кэш
		if _, err := r.Revalidate(context.WithoutCancel(ctx)); err != nil {
			r.logger.Debug("background revalidation failed", "key", r.key, "error", err)
		}
	}()
	return cur, cur.Err
}

// Revalidate загружает ресурс с ограниченными повторами.
// Ошибка каждой попытки сохраняется в записи (прежнее значение не
// теряется); not-found завершает цикл немедленно.
func (r *Resource) Revalidate(ctx context.Context) (Entry, error) {
	backoff := retry.WithMaxRetries(r.opts.RetryCount, retry.NewConstant(r.opts.RetryInterval))

	var snap Entry
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var ferr error
		snap, ferr = r.store.Fetch(ctx, r.key, r.fetch)
		if ferr == nil {
			return nil
		}
		if clientapi.IsNotFound(ferr) {
			// 404 не ретраим: fail fast, ошибка сразу у наблюдателей
			return ferr
		}
		return retry.RetryableError(ferr)
	})
	if err != nil {
		return snap, err
	}
	return snap, nil
}

// Run крутит фоновые триггеры ревалидации до отмены контекста:
// периодический таймер и внешние сигналы (фокус, восстановление сети)
func (r *Resource) Run(ctx context.Context) {
	var tick <-chan time.Time
	if r.opts.RefreshInterval > 0 {
		ticker := time.NewTicker(r.opts.RefreshInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	trigger := make(chan struct{}, 1)
	for _, sig := range r.opts.Triggers {
		ch, cancel := sig.Subscribe()
		defer cancel()
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-ch:
					select {
					case trigger <- struct{}{}:
					default:
					}
				}
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick:
		case <-trigger:
		}

		if _, err := r.Revalidate(ctx); err != nil {
			r.logger.Warn("revalidation failed", "key", r.key, "error", err)
		}
	}
}
