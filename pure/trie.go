package pure

import (
	"sync"
	"sync/atomic"
)

// Trie is a bounded memo table keyed by argument paths.
// It keeps two generations; when the head fills up the older one is
// dropped and the roles swap.
type Trie[O any] struct {
	memos   [2]atomic.Pointer[sync.Map]
	headIdx atomic.Uint32
	size    atomic.Uint32
	maxSize uint32
	rotate  sync.Mutex
}

func (t *Trie[O]) Load(keys []ComparableOrString) (O, bool) {
	headIdx := t.headIdx.Load()
	for _, idx := range [2]uint32{headIdx, 1 - headIdx} {
		m, k := t.traverse(t.memos[idx].Load(), keys)
		if v, ok := m.Load(k); ok {
			return v.(O), true
		}
	}
	var zero O
	return zero, false
}

func (t *Trie[O]) traverse(targetMap *sync.Map, keys []ComparableOrString) (*sync.Map, any) {
	length := len(keys)
	if length == 0 {
		panic("traverse: empty keys")
	}

	for _, k := range keys[:length-1] {
		v, _ := targetMap.LoadOrStore(k, &sync.Map{})
		targetMap = v.(*sync.Map)
	}
	return targetMap, keys[length-1]
}

func (t *Trie[O]) Store(keys []ComparableOrString, value O) {
	if t.size.Load() >= t.maxSize {
		t.rotate.Lock()
		if t.size.Load() >= t.maxSize {
			next := 1 - t.headIdx.Load()
			t.memos[next].Store(&sync.Map{})
			t.headIdx.Store(next)
			t.size.Store(0)
		}
		t.rotate.Unlock()
	}
	m, k := t.traverse(t.memos[t.headIdx.Load()].Load(), keys)
	m.Store(k, value)
	t.size.Add(1)
}

func NewTrie[O any](maxSize uint32) *Trie[O] {
	if maxSize == 0 {
		panic("maxSize should be greater than 0")
	}
	t := &Trie[O]{maxSize: maxSize}
	t.memos[0].Store(&sync.Map{})
	t.memos[1].Store(&sync.Map{})
	return t
}
