package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Hari1275/sdp-sub003/internal/domain/repository"
)

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// memoryCache - in-memory реализация CacheRepository с TTL и LRU-вытеснением.
// Используется в тестах и в деплоях без Redis.
type memoryCache struct {
	mu       sync.Mutex
	entries  map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
}

// NewMemoryCache создает in-memory кеш с ограничением ёмкости.
// capacity <= 0 снимает ограничение.
func NewMemoryCache(capacity int) repository.CacheRepository {
	return &memoryCache{
		entries:  make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
	}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.entries[key]
	if !ok {
		return nil, nil // Cache miss
	}

	entry := el.Value.(*memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.removeLocked(el)
		return nil, nil
	}

	m.order.MoveToFront(el)
	return entry.value, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		entry := el.Value.(*memoryEntry)
		entry.value = value
		entry.expiresAt = time.Now().Add(ttl)
		m.order.MoveToFront(el)
		return nil
	}

	el := m.order.PushFront(&memoryEntry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(ttl),
	})
	m.entries[key] = el

	// LRU-вытеснение при превышении ёмкости
	if m.capacity > 0 && m.order.Len() > m.capacity {
		if oldest := m.order.Back(); oldest != nil {
			m.removeLocked(oldest)
		}
	}
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if el, ok := m.entries[key]; ok {
		m.removeLocked(el)
	}
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	val, err := m.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

func (m *memoryCache) removeLocked(el *list.Element) {
	entry := el.Value.(*memoryEntry)
	delete(m.entries, entry.key)
	m.order.Remove(el)
}
