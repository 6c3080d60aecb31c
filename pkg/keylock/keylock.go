// Package keylock сериализует критические секции по строковому ключу
// (например, "provider:42"), локально или через Redis.
package keylock

import (
	"context"
	"errors"
	"sync"
)

// ErrLockTimeout возвращается, когда блокировку не удалось взять до отмены контекста
var ErrLockTimeout = errors.New("keylock: lock not acquired")

// Locker берет эксклюзивную блокировку по ключу
// unlock безопасно вызывать один раз; повторный вызов ничего не делает
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// Local блокировки в пределах одного процесса
// Для каждого ключа держится канал-семафор, записи удаляются, когда ожидающих не осталось
type Local struct {
	mu    sync.Mutex
	locks map[string]*localEntry
}

type localEntry struct {
	sem     chan struct{}
	waiters int
}

// NewLocal создает локальный Locker
func NewLocal() *Local {
	return &Local{locks: make(map[string]*localEntry)}
}

// Lock блокирует ключ или возвращает ErrLockTimeout при отмене контекста
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	entry, ok := l.locks[key]
	if !ok {
		entry = &localEntry{sem: make(chan struct{}, 1)}
		l.locks[key] = entry
	}
	entry.waiters++
	l.mu.Unlock()

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(key, entry, false)
		return nil, errors.Join(ErrLockTimeout, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(key, entry, true) })
	}, nil
}

func (l *Local) release(key string, entry *localEntry, held bool) {
	if held {
		<-entry.sem
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	entry.waiters--
	if entry.waiters == 0 {
		delete(l.locks, key)
	}
}

// size количество ключей в таблице (для тестов)
func (l *Local) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
