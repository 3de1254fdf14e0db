package main

import (
	"sync"
	"testing"

	"github.com/knakk/specs"
)

func rec(id string) scanRecord {
	return scanRecord{ScanID: id}
}

func TestQueueCreation(t *testing.T) {
	s := specs.New(t)

	if _, err := newScanQueue(0); err == nil {
		t.Error("newScanQueue(0) => no error; want one")
	}
	if _, err := newScanQueue(-1); err == nil {
		t.Error("newScanQueue(-1) => no error; want one")
	}

	q, err := newScanQueue(50)
	s.ExpectNil(err)
	s.Expect(0, q.Len())
	s.Expect(50, q.Cap())
}

func TestQueueFIFO(t *testing.T) {
	s := specs.New(t)
	q, _ := newScanQueue(3)

	s.Expect(true, q.TryEnqueue(rec("A")))
	s.Expect(true, q.TryEnqueue(rec("B")))
	s.Expect(true, q.TryEnqueue(rec("C")))
	s.Expect(3, q.Len())
	s.Expect(false, q.TryEnqueue(rec("D")))
	s.Expect(3, q.Len())

	r, ok := q.TryDequeue()
	s.Expect(true, ok)
	s.Expect("A", r.ScanID)
	r, _ = q.TryDequeue()
	s.Expect("B", r.ScanID)
	r, _ = q.TryDequeue()
	s.Expect("C", r.ScanID)

	_, ok = q.TryDequeue()
	s.Expect(false, ok)
	s.Expect(0, q.Len())
}

func TestQueuePushFront(t *testing.T) {
	s := specs.New(t)
	q, _ := newScanQueue(3)

	q.TryEnqueue(rec("A"))
	q.TryEnqueue(rec("B"))

	r, _ := q.TryDequeue()
	s.Expect("A", r.ScanID)

	// A failed send puts the record back at the head.
	s.Expect(true, q.PushFront(r))

	r, _ = q.TryDequeue()
	s.Expect("A", r.ScanID)
	r, _ = q.TryDequeue()
	s.Expect("B", r.ScanID)
}

func TestQueuePushFrontFull(t *testing.T) {
	s := specs.New(t)
	q, _ := newScanQueue(2)

	q.TryEnqueue(rec("A"))
	q.TryEnqueue(rec("B"))
	s.Expect(false, q.PushFront(rec("C")))
	s.Expect(2, q.Len())

	r, _ := q.TryDequeue()
	s.Expect("A", r.ScanID)
}

// One producer and one consumer hammering the queue concurrently: the
// size must stay within bounds and every dequeued record must have been
// enqueued exactly once.
func TestQueueConcurrentAccess(t *testing.T) {
	const n = 10000
	q, _ := newScanQueue(64)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !q.TryEnqueue(scanRecord{Timestamp: int64(i)}) {
			}
		}
	}()

	seen := make([]bool, n)
	go func() {
		defer wg.Done()
		got := 0
		for got < n {
			if l := q.Len(); l < 0 || l > q.Cap() {
				t.Errorf("queue size %d out of bounds [0,%d]", l, q.Cap())
				return
			}
			r, ok := q.TryDequeue()
			if !ok {
				continue
			}
			if seen[r.Timestamp] {
				t.Errorf("record %d dequeued twice", r.Timestamp)
				return
			}
			seen[r.Timestamp] = true
			got++
		}
	}()

	wg.Wait()
	for i, ok := range seen {
		if !ok {
			t.Fatalf("record %d lost", i)
		}
	}
}
