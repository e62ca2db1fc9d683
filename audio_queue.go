// audio_queue.go - bounded SPSC sample queue between System.Clock and the host audio callback

// License: GPLv3 or later

package main

import "sync"

// audioQueueCapacity bounds the producer/consumer gap; the host audio
// backend is expected to drain it well within this many samples of the
// producer filling it (roughly 1/10s at 44.1kHz).
const audioQueueCapacity = 4096

// audioQueue is a mutex-guarded ring buffer of mixed float32 samples.
// original_source uses crossbeam::queue::SegQueue, a lock-free MPMC queue;
// nothing in the retrieved pack provides an equivalent lock-free structure; a
// small mutex-guarded ring serves the single-producer/single-consumer case
// spec.md §5 actually requires (see DESIGN.md).
type audioQueue struct {
	mu   sync.Mutex
	buf  []float32
	r, w int
	len  int
}

func newAudioQueue() *audioQueue {
	return &audioQueue{buf: make([]float32, audioQueueCapacity)}
}

// push appends a sample, dropping the oldest one if the queue is full (the
// host audio device falling behind should not stall the CPU thread).
func (q *audioQueue) push(s float32) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.len == len(q.buf) {
		q.r = (q.r + 1) % len(q.buf)
		q.len--
	}
	q.buf[q.w] = s
	q.w = (q.w + 1) % len(q.buf)
	q.len++
}

// pop removes and returns the oldest sample, if any.
func (q *audioQueue) pop() (float32, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.len == 0 {
		return 0, false
	}
	s := q.buf[q.r]
	q.r = (q.r + 1) % len(q.buf)
	q.len--
	return s, true
}

// drain pops up to len(out) samples into out, returning the count written.
func (q *audioQueue) drain(out []float32) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for n < len(out) && q.len > 0 {
		out[n] = q.buf[q.r]
		q.r = (q.r + 1) % len(q.buf)
		q.len--
		n++
	}
	return n
}
