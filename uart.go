// uart.go - two depth-8 FIFOs with a combined status byte

// License: GPLv3 or later

package main

// fifo8 is a bounded ring buffer of depth 8, grounded on
// original_source/src/device.rs's generic Queue<T,N>: enqueue/dequeue with
// an explicit overflow assertion rather than silent drop, since overflow is
// documented (spec.md §4.3) as a program bug.
type fifo8 struct {
	buf        [8]byte
	start, len int
}

func (q *fifo8) enqueue(b byte) {
	if q.len == len(q.buf) {
		panic("uart: fifo overflow")
	}
	q.buf[(q.start+q.len)%len(q.buf)] = b
	q.len++
}

func (q *fifo8) dequeue() (byte, bool) {
	if q.len == 0 {
		return 0, false
	}
	b := q.buf[q.start]
	q.start = (q.start + 1) % len(q.buf)
	q.len--
	return b, true
}

// UART is the machine's serial port: CPU-visible receive/transmit FIFOs,
// plus the host-visible opposite ends of the same two queues.
type UART struct {
	receive  fifo8 // host -> CPU
	transmit fifo8 // CPU -> host
}

// NewUART returns an empty UART.
func NewUART() *UART { return &UART{} }

// ReadCtrl packs (rx_len)|(tx_len<<4) into the CPU-visible control byte.
func (u *UART) ReadCtrl() byte {
	return byte(u.receive.len) | byte(u.transmit.len)<<4
}

// ReadData dequeues one byte from the receive FIFO for the CPU; returns 0
// if empty (not an error: an empty read is a normal poll).
func (u *UART) ReadData() byte {
	b, _ := u.receive.dequeue()
	return b
}

// WriteData enqueues one byte onto the transmit FIFO from the CPU.
func (u *UART) WriteData(b byte) { u.transmit.enqueue(b) }

// HostRead dequeues one byte the CPU transmitted, for the host to consume.
func (u *UART) HostRead() (byte, bool) { return u.transmit.dequeue() }

// HostWrite enqueues one byte from the host into the CPU's receive FIFO.
func (u *UART) HostWrite(b byte) { u.receive.enqueue(b) }

// HostCanWrite reports whether HostWrite would not overflow.
func (u *UART) HostCanWrite() bool { return u.receive.len < len(u.receive.buf) }
