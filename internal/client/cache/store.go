// Package cache реализует клиентский кэш ресурсов в духе stale-while-revalidate:
// последний известный ответ отдается немедленно, обновление идет в фоне.
// Store создается конструктором и передается явно (DI), никаких package-level
// синглтонов — тесты поднимают изолированный Store на каждый кейс.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultDedupeWindow окно, в котором повторные запросы одного ключа
// не ходят в сеть, а получают закэшированное значение
const DefaultDedupeWindow = 2 * time.Second

// Entry представляет снимок записи кэша, отдаваемый наблюдателям.
// Err никогда не затирает Value: при неудачной ревалидации предыдущее
// хорошее значение остается видимым вместе с ошибкой.
type Entry struct {
	LastFetchedAt time.Time
	Value         any
	Err           error
	Key           string
	Version       uint64
	IsValidating  bool
}

// HasValue сообщает, было ли значение хоть раз загружено
func (e Entry) HasValue() bool { return e.Value != nil }

// entry — внутреннее состояние одного ключа. Доступ только под Store.mu.
type entry struct {
	lastFetchedAt time.Time
	value         any
	err           error
	subscribers   map[int]func(Entry)
	nextSubID     int
	version       uint64
	isValidating  bool
	mutating      bool
}

// Store — общий для процесса кэш ресурсов, ключ → запись.
// Записи живут до конца процесса: политика вытеснения сознательно
// отсутствует, количество различных ключей ограничено числом ресурсов.
type Store struct {
	entries      map[string]*entry
	group        singleflight.Group
	dedupeWindow time.Duration
	mu           sync.Mutex
}

// StoreOption настраивает Store
type StoreOption func(*Store)

// WithDedupeWindow задает окно дедупликации запросов
func WithDedupeWindow(d time.Duration) StoreOption {
	return func(s *Store) { s.dedupeWindow = d }
}

// NewStore создает новый изолированный Store
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		entries:      make(map[string]*entry),
		dedupeWindow: DefaultDedupeWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ensure возвращает запись ключа, создавая пустую "loading" запись.
// Вызывается под mu.
func (s *Store) ensure(key string) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{subscribers: make(map[int]func(Entry))}
		s.entries[key] = e
	}
	return e
}

// snapshotLocked собирает снимок записи. Вызывается под mu.
func (s *Store) snapshotLocked(key string, e *entry) Entry {
	return Entry{
		Key:           key,
		Value:         e.value,
		Err:           e.err,
		Version:       e.version,
		IsValidating:  e.isValidating,
		LastFetchedAt: e.lastFetchedAt,
	}
}

// Read возвращает текущее состояние ключа, создавая пустую запись при отсутствии
func (s *Store) Read(key string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(key)
	return s.snapshotLocked(key, e)
}

// Write синхронно применяет updater к значению ключа и уведомляет
// всех подписчиков. Каждая запись увеличивает версию: фоновая
// ревалидация, стартовавшая до записи, не сможет ее затереть.
func (s *Store) Write(key string, updater func(prev any) any) {
	s.mu.Lock()
	e := s.ensure(key)
	e.value = updater(e.value)
	e.err = nil
	e.version++
	snap := s.snapshotLocked(key, e)
	subs := subscribersLocked(e)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// Subscribe регистрирует наблюдателя ключа. Каждая запись по ключу
// доставляется всем активным наблюдателям; cancel снимает подписку.
// Несколько потребителей одного ключа видят идентичное состояние.
func (s *Store) Subscribe(key string, fn func(Entry)) (cancel func()) {
	s.mu.Lock()
	e := s.ensure(key)
	id := e.nextSubID
	e.nextSubID++
	e.subscribers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(e.subscribers, id)
		s.mu.Unlock()
	}
}

// subscribersLocked копирует список подписчиков для вызова вне mu
func subscribersLocked(e *entry) []func(Entry) {
	subs := make([]func(Entry), 0, len(e.subscribers))
	for _, fn := range e.subscribers {
		subs = append(subs, fn)
	}
	return subs
}

// Fetch загружает значение ключа с дедупликацией: конкурентные вызовы
// одного ключа коалесцируются через singleflight, повторные вызовы в
// пределах dedupeWindow обслуживаются из кэша без сети.
// Во время мутации ключа (см. Mutate) загрузка подавляется и Fetch
// возвращает текущее оптимистичное значение.
func (s *Store) Fetch(ctx context.Context, key string, fetch func(ctx context.Context) (any, error)) (Entry, error) {
	s.mu.Lock()
	e := s.ensure(key)

	// Мутация в полете: ревалидация подавлена, отдаем текущее значение
	if e.mutating {
		snap := s.snapshotLocked(key, e)
		s.mu.Unlock()
		return snap, snap.Err
	}

	// Свежая запись в окне дедупликации: сеть не нужна
	if e.err == nil && !e.lastFetchedAt.IsZero() && time.Since(e.lastFetchedAt) < s.dedupeWindow {
		snap := s.snapshotLocked(key, e)
		s.mu.Unlock()
		return snap, nil
	}

	since := e.version
	e.isValidating = true
	snap := s.snapshotLocked(key, e)
	subs := subscribersLocked(e)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})

	s.mu.Lock()
	e.isValidating = false
	switch {
	case err != nil:
		// Ошибка сохраняется в записи, прежнее значение не трогаем
		e.err = err
	case e.version == since:
		e.value = v
		e.err = nil
		e.version++
		e.lastFetchedAt = time.Now()
	default:
		// Версия ушла вперед (например, оптимистичная мутация):
		// результат устаревшей загрузки отбрасывается
	}
	snap = s.snapshotLocked(key, e)
	subs = subscribersLocked(e)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return snap, err
}

// Invalidate сбрасывает отметку свежести ключа: следующий Fetch
// пойдет в сеть независимо от окна дедупликации
func (s *Store) Invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.ensure(key)
	e.lastFetchedAt = time.Time{}
}
