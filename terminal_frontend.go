// terminal_frontend.go - raw-mode stdin/stdout terminal frontend

/*
terminal_frontend.go is the headless-host counterpart to the Ebiten
frontend: it puts the controlling terminal into raw mode, forwards each
stdin byte into a System's UART receive FIFO, and prints UART transmit
bytes straight to stdout. Grounded on the teacher's terminal_host.go
non-blocking-read/goroutine shape, generalized from its TerminalMMIO target
to System.WriteChar, with Ctrl+V intercepted for a clipboard-paste shortcut
the teacher's stdin-only host has no equivalent of.
*/

// License: GPLv3 or later

package main

import (
	"os"
	"sync"
	"syscall"
	"time"

	"golang.design/x/clipboard"
	"golang.org/x/term"
)

// StdoutTerminal writes UART transmit bytes straight to the process's
// standard output, implementing the System.Terminal interface.
type StdoutTerminal struct{}

func (StdoutTerminal) Write(b byte) { os.Stdout.Write([]byte{b}) }

// TerminalHost reads raw stdin and feeds bytes into a System's UART.
type TerminalHost struct {
	sys *System

	fd           int
	nonblockSet  bool
	oldTermState *term.State

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	clipboardOnce sync.Once
	clipboardOK   bool
}

// NewTerminalHost returns a host adapter that will drive sys from stdin.
func NewTerminalHost(sys *System) *TerminalHost {
	return &TerminalHost{
		sys:    sys,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins forwarding bytes
// in a background goroutine. Call Stop to restore the terminal.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return err
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return err
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *TerminalHost) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			switch b {
			case 0x7F: // DEL -> BS, modern terminals send DEL for Backspace
				b = 0x08
			case 0x16: // Ctrl-V: clipboard paste instead of a literal SYN byte
				h.pasteClipboard()
				continue
			}
			h.sys.WriteChar(b)
		}
		switch err {
		case syscall.EAGAIN, syscall.EWOULDBLOCK:
			time.Sleep(5 * time.Millisecond)
		case nil:
			if n == 0 {
				time.Sleep(5 * time.Millisecond)
			}
		default:
			return
		}
	}
}

func (h *TerminalHost) pasteClipboard() {
	h.clipboardOnce.Do(func() {
		h.clipboardOK = clipboard.Init() == nil
	})
	if !h.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	h.sys.WriteBytes(data)
}

// Stop terminates the reader goroutine and restores the terminal to its
// original mode.
func (h *TerminalHost) Stop() {
	h.stopped.Do(func() { close(h.stopCh) })
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
