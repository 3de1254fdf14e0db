package main

import (
	"errors"
	"sync"
)

// scanQueue is the fixed-capacity FIFO between the polling unit
// (producer) and the delivery unit (consumer). All operations are
// non-blocking; a single mutex guards the contents, which is enough
// since every operation mutates. Eviction policy is the caller's
// business: TryEnqueue just reports full.
type scanQueue struct {
	mu       sync.Mutex
	items    []scanRecord
	capacity int
}

// newScanQueue fails on a non-positive capacity. The caller is expected
// to treat that as fatal; the loss guarantees depend on the queue
// existing.
func newScanQueue(capacity int) (*scanQueue, error) {
	if capacity <= 0 {
		return nil, errors.New("queue: capacity must be positive")
	}
	return &scanQueue{
		items:    make([]scanRecord, 0, capacity),
		capacity: capacity,
	}, nil
}

// TryEnqueue appends at the back. Returns false immediately when full.
func (q *scanQueue) TryEnqueue(r scanRecord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		return false
	}
	q.items = append(q.items, r)
	return true
}

// TryDequeue removes and returns the oldest record.
func (q *scanQueue) TryDequeue() (scanRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return scanRecord{}, false
	}
	r := q.items[0]
	copy(q.items, q.items[1:])
	q.items = q.items[:len(q.items)-1]
	return r, true
}

// PushFront reinserts a record at the head, used by the delivery loop
// to return a record whose send failed so it is retried first. Returns
// false when full; that cannot happen in the dequeue-then-pushFront
// window since the delivery loop is the only consumer.
func (q *scanQueue) PushFront(r scanRecord) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.capacity {
		return false
	}
	q.items = append(q.items, scanRecord{})
	copy(q.items[1:], q.items)
	q.items[0] = r
	return true
}

func (q *scanQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *scanQueue) Cap() int {
	return q.capacity
}
