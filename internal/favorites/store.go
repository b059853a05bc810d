package favorites

import (
	"errors"
	"sync"
)

// DefaultMaxListeners 单个 Store 允许的监听者上限
const DefaultMaxListeners = 16

// ErrTooManyListeners 监听者数量已达上限
var ErrTooManyListeners = errors.New("favorites: too many listeners")

// Listener 收到变更后的完整收藏列表（副本）
type Listener func(slugs []string)

// Store 收藏的手机 slug 集合，保持加入顺序；只有集合真正变化时才通知监听者
type Store struct {
	mu           sync.Mutex
	slugs        []string
	index        map[string]struct{}
	listeners    map[uint64]Listener
	nextID       uint64
	maxListeners int
	maxItems     int
}

// NewStore initial 中的重复项与空串会被忽略
func NewStore(initial []string) *Store {
	s := &Store{
		index:        make(map[string]struct{}),
		listeners:    make(map[uint64]Listener),
		maxListeners: DefaultMaxListeners,
		maxItems:     MaxItems,
	}
	for _, slug := range initial {
		s.add(slug)
	}
	return s
}

// SetMaxListeners n<=0 时不修改
func (s *Store) SetMaxListeners(n int) {
	if n <= 0 {
		return
	}
	s.mu.Lock()
	s.maxListeners = n
	s.mu.Unlock()
}

// Subscribe 注册监听者，返回取消函数（可重复调用）
func (s *Store) Subscribe(l Listener) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listeners) >= s.maxListeners {
		return nil, ErrTooManyListeners
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}, nil
}

// Add 返回是否新增；超过上限或已存在时不变
func (s *Store) Add(slug string) bool {
	s.mu.Lock()
	changed := s.add(slug)
	snapshot, listeners := s.snapshotLocked(changed)
	s.mu.Unlock()
	notify(listeners, snapshot)
	return changed
}

// Remove 返回是否删除
func (s *Store) Remove(slug string) bool {
	s.mu.Lock()
	changed := s.remove(slug)
	snapshot, listeners := s.snapshotLocked(changed)
	s.mu.Unlock()
	notify(listeners, snapshot)
	return changed
}

// Toggle 切换收藏状态，返回切换后是否处于收藏中
func (s *Store) Toggle(slug string) bool {
	s.mu.Lock()
	var changed, has bool
	if _, ok := s.index[slug]; ok {
		changed = s.remove(slug)
		has = false
	} else {
		changed = s.add(slug)
		has = changed
	}
	snapshot, listeners := s.snapshotLocked(changed)
	s.mu.Unlock()
	notify(listeners, snapshot)
	return has
}

func (s *Store) Has(slug string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[slug]
	return ok
}

// List 当前收藏列表副本
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.slugs))
	copy(out, s.slugs)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slugs)
}

func (s *Store) add(slug string) bool {
	if slug == "" || len(s.slugs) >= s.maxItems {
		return false
	}
	if _, ok := s.index[slug]; ok {
		return false
	}
	s.index[slug] = struct{}{}
	s.slugs = append(s.slugs, slug)
	return true
}

func (s *Store) remove(slug string) bool {
	if _, ok := s.index[slug]; !ok {
		return false
	}
	delete(s.index, slug)
	for i, v := range s.slugs {
		if v == slug {
			s.slugs = append(s.slugs[:i], s.slugs[i+1:]...)
			break
		}
	}
	return true
}

// snapshotLocked 调用方持有锁；监听者在锁外执行，允许其回调 Store
func (s *Store) snapshotLocked(changed bool) ([]string, []Listener) {
	if !changed || len(s.listeners) == 0 {
		return nil, nil
	}
	snapshot := make([]string, len(s.slugs))
	copy(snapshot, s.slugs)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	return snapshot, listeners
}

func notify(listeners []Listener, snapshot []string) {
	for _, l := range listeners {
		l(snapshot)
	}
}
