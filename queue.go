package main

import (
	"sync"

	"k8s.io/klog"
)

// uniqueChan is a queue that holds each key at most once until it is dequeued.
type uniqueChan[K comparable] struct {
	C   chan K
	mu  sync.Mutex
	ids map[K]struct{}
}

func newUniqueChan[K comparable](size int) *uniqueChan[K] {
	return &uniqueChan[K]{
		C:   make(chan K, size),
		ids: make(map[K]struct{})}
}

// enqueue reports whether id was added. It is not when it is already waiting
// or when the queue is full; enqueue never blocks.
func (u *uniqueChan[K]) enqueue(id K) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.ids[id]; ok {
		klog.Infof("Update for %v is already scheduled.\n", id)
		return false
	}
	select {
	case u.C <- id:
		u.ids[id] = struct{}{}
		return true
	default:
		klog.Warningf("Render queue is full, dropping update for %v", id)
		return false
	}
}

func (u *uniqueChan[K]) dequeue() K {
	id := <-u.C
	u.mu.Lock()
	delete(u.ids, id)
	u.mu.Unlock()
	return id
}

func (u *uniqueChan[K]) pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.ids)
}
