package cache

import (
	"context"
	"errors"
	"fmt"
)

// ErrMutationInFlight возвращается при попытке начать вторую мутацию
// ключа до завершения первой. Мутации одного ключа сериализуются на
// уровне кэша, а не только UI-флагом.
var ErrMutationInFlight = errors.New("mutation already in flight for key")

// Mutation описывает одну оптимистичную мутацию записи кэша.
// Дескриптор живет один вызов Mutate и после завершения не переиспользуется.
type Mutation struct {
	// Optimistic вычисляет локально предсказанное значение из текущего
	Optimistic func(prev any) any

	// Commit выполняет настоящую сетевую мутацию и возвращает
	// подтвержденное сервером значение
	Commit func(ctx context.Context) (any, error)

	// Reconcile встраивает серверное значение в текущее значение записи
	// после успешного Commit. nil означает полную замену записи серверным
	// значением. Серверное значение всегда побеждает локальный прогноз.
	Reconcile func(prev, server any) any

	// Key — ключ записи кэша
	Key string

	// RollbackOnError включает полный откат к значению до мутации
	RollbackOnError bool
}

// beginMutation помечает ключ как мутируемый, подавляя ревалидацию.
// Вторая конкурентная мутация того же ключа получает ErrMutationInFlight.
func (s *Store) beginMutation(key string) (release func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	if e.mutating {
		return nil, fmt.Errorf("%w: %s", ErrMutationInFlight, key)
	}
	e.mutating = true

	return func() {
		s.mu.Lock()
		e.mutating = false
		s.mu.Unlock()
	}, nil
}

// Mutate выполняет протокол оптимистичной мутации:
//  1. запоминает текущее значение для отката;
//  2. синхронно записывает оптимистичное значение — наблюдатели видят
//     предсказанное состояние без задержки;
//  3. подавляет ревалидацию ключа до завершения мутации, чтобы фоновое
//     обновление не затерло оптимистичное значение;
//  4. выполняет Commit;
//  5. при успехе записывает серверное значение (авторитативная сверка);
//  6. при ошибке откатывает запись к значению до мутации и возвращает
//     ошибку вызывающему — молча она не глотается.
func (s *Store) Mutate(ctx context.Context, m Mutation) (any, error) {
	release, err := s.beginMutation(m.Key)
	if err != nil {
		return nil, err
	}
	defer release()

	previous := s.Read(m.Key).Value

	s.Write(m.Key, func(prev any) any {
		return m.Optimistic(prev)
	})

	server, err := m.Commit(ctx)
	if err != nil {
		if m.RollbackOnError {
			s.Write(m.Key, func(any) any { return previous })
		}
		return nil, fmt.Errorf("mutation commit failed: %w", err)
	}

	s.Write(m.Key, func(prev any) any {
		if m.Reconcile != nil {
			return m.Reconcile(prev, server)
		}
		return server
	})

	return server, nil
}
