package model

import (
	"strings"
	"sync"
)

// LineRing keeps the most recent lines of a text log.
type LineRing struct {
	mu      sync.RWMutex
	buf     []string
	cap     int
	start   int
	size    int
	total   uint64 // total appended
	dropped uint64
}

func NewLineRing(capacity int) *LineRing {
	if capacity < 1 {
		capacity = 1
	}
	return &LineRing{cap: capacity, buf: make([]string, capacity)}
}

func (r *LineRing) Push(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.push(line)
}

func (r *LineRing) push(line string) {
	if r.size < r.cap {
		r.buf[(r.start+r.size)%r.cap] = line
		r.size++
	} else {
		// overwrite oldest
		r.buf[r.start] = line
		r.start = (r.start + 1) % r.cap
		r.dropped++
	}
	r.total++
}

// Replace discards the current content and loads text split into lines.
func (r *LineRing) Replace(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.size = 0
	r.start = 0
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return
	}
	for _, l := range strings.Split(text, "\n") {
		r.push(l)
	}
}

func (r *LineRing) Snapshot() ([]string, uint64, uint64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, r.size)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.start+i)%r.cap]
	}
	return out, r.total, r.dropped
}

func (r *LineRing) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

func (r *LineRing) String() string {
	lines, _, _ := r.Snapshot()
	return strings.Join(lines, "\n")
}
