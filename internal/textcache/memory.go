package textcache

import (
	"context"
	"sync"
)

// DefaultCapacity is used when NewMemory is given a non-positive size
const DefaultCapacity = 1024

// Memory is a thread-safe least recently used page cache
type Memory struct {
	mutex    sync.Mutex
	capacity int
	items    map[Key]*node
	head     *node // most recently used
	tail     *node // least recently used
	hits     int64
	misses   int64
}

type node struct {
	key   Key
	entry Entry
	prev  *node
	next  *node
}

// Stats reports cache effectiveness
type Stats struct {
	Hits     int64   `json:"hits"`
	Misses   int64   `json:"misses"`
	HitRate  float64 `json:"hit_rate_percent"`
	Size     int     `json:"current_size"`
	Capacity int     `json:"max_capacity"`
}

// NewMemory creates a cache holding at most capacity pages
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	m := &Memory{
		capacity: capacity,
		items:    make(map[Key]*node),
		head:     &node{},
		tail:     &node{},
	}
	m.head.next = m.tail
	m.tail.prev = m.head
	return m
}

// Get returns the entry for key and marks it recently used
func (m *Memory) Get(_ context.Context, key Key) (Entry, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	n, ok := m.items[key]
	if !ok {
		m.misses++
		return Entry{}, false, nil
	}
	m.unlink(n)
	m.pushFront(n)
	m.hits++
	return n.entry, true, nil
}

// Put stores entry under key, evicting the least recently used page when full
func (m *Memory) Put(_ context.Context, key Key, entry Entry) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if n, ok := m.items[key]; ok {
		n.entry = entry
		m.unlink(n)
		m.pushFront(n)
		return nil
	}

	n := &node{key: key, entry: entry}
	m.pushFront(n)
	m.items[key] = n

	if len(m.items) > m.capacity {
		lru := m.tail.prev
		m.unlink(lru)
		delete(m.items, lru.key)
	}
	return nil
}

// Close is a no-op
func (m *Memory) Close() error {
	return nil
}

// keys returns the cached keys from most to least recently used
func (m *Memory) keys() []Key {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	keys := make([]Key, 0, len(m.items))
	for n := m.head.next; n != m.tail; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Stats returns hit and miss counters
func (m *Memory) Stats() Stats {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	total := m.hits + m.misses
	rate := float64(0)
	if total > 0 {
		rate = float64(m.hits) / float64(total) * 100
	}
	return Stats{
		Hits:     m.hits,
		Misses:   m.misses,
		HitRate:  rate,
		Size:     len(m.items),
		Capacity: m.capacity,
	}
}

func (m *Memory) pushFront(n *node) {
	n.prev = m.head
	n.next = m.head.next
	m.head.next.prev = n
	m.head.next = n
}

func (m *Memory) unlink(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
}
