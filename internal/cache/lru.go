package cache

// lruNode is an entry in the recency list. Head is the most recently used.
type lruNode[K comparable, V any] struct {
	key   K
	value V
	cost  int64
	prev  *lruNode[K, V]
	next  *lruNode[K, V]
}

// lruList is a doubly-linked recency list. Callers handle synchronization.
type lruList[K comparable, V any] struct {
	head *lruNode[K, V]
	tail *lruNode[K, V]
	len  int
}

// pushFront inserts node as the most recently used entry.
func (l *lruList[K, V]) pushFront(node *lruNode[K, V]) {
	node.prev = nil
	node.next = l.head
	if l.head != nil {
		l.head.prev = node
	}
	l.head = node
	if l.tail == nil {
		l.tail = node
	}
	l.len++
}

func (l *lruList[K, V]) moveToFront(node *lruNode[K, V]) {
	if node == l.head {
		return
	}
	l.unlink(node)
	l.pushFront(node)
}

// oldest returns the least recently used node, or nil.
func (l *lruList[K, V]) oldest() *lruNode[K, V] {
	return l.tail
}

func (l *lruList[K, V]) unlink(node *lruNode[K, V]) {
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	l.len--
}

func (l *lruList[K, V]) clear() {
	l.head = nil
	l.tail = nil
	l.len = 0
}
