package cache

import "sync"

// Signal — простой широковещательный триггер ревалидации, никак не
// привязанный к UI-фреймворку. Клиент создает сигналы "фокус" и
// "восстановление сети" и дергает Notify из соответствующих источников
// (SIGCONT, health-probe и т.п.).
type Signal struct {
	subs map[int]chan struct{}
	mu   sync.Mutex
	next int
}

// NewSignal создает новый сигнал
func NewSignal() *Signal {
	return &Signal{subs: make(map[int]chan struct{})}
}

// Notify уведомляет всех подписчиков, не блокируясь: если подписчик
// еще не обработал предыдущее уведомление, новое схлопывается с ним
func (s *Signal) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Subscribe возвращает канал уведомлений и функцию отписки
func (s *Signal) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	ch := make(chan struct{}, 1)
	s.subs[id] = ch

	return ch, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
