// system.go - the CPU-cycle driven scheduler tying CPU, Memory, and peripherals together

/*
system.go implements the System scheduler: it owns the CPU, Memory, and every
peripheral, advances them tick-by-tick, and derives UART baud, audio sample,
and VGA pixel-clock activity from fractional cycle accumulators proportional
to a configurable CPU clock rate, per spec.md §4.7. Grounded on the teacher's
main.go run-loop structure, generalized from a fixed video-chip driver to
this machine's full peripheral set.

Thread safety: Clock/ClockFrame are called from a single host driver thread,
per spec.md §5's single-threaded-cooperative model; the only cross-goroutine
boundary is the audio sample queue, drained by a separate host audio
callback.
*/

// License: GPLv3 or later

package main

import (
	"errors"
	"log"
)

// errProgramOverlapsMonitor is returned by LoadProgram when the requested
// range would clobber the monitor ROM mapped at resetVector.
var errProgramOverlapsMonitor = errors.New("system: program overlaps monitor ROM region")

const (
	frameHz               = 59.94047619047765
	uartBaudRate          = 115200.0
	audioCyclesPerSecond  = 230400.0
	audioSampleRate       = 44100.0
	audioCyclesPerSample  = audioCyclesPerSecond / audioSampleRate
	vgaPixelClockHz       = 25175000.0
)

// Terminal is the host-facing sink for bytes the machine writes to its UART
// transmit FIFO (e.g. the monitor's prompt and echoed keystrokes).
type Terminal interface {
	Write(b byte)
}

// nullTerminal discards everything; used when no host terminal is attached
// (headless runs, tests).
type nullTerminal struct{}

func (nullTerminal) Write(byte) {}

// System is the machine's top-level scheduler.
type System struct {
	CPU        *CPU
	Memory     *Memory
	UART       *UART
	Audio      *AudioChip
	VGA        *VGA
	Controller *Controller
	LCD        *LCD

	term      Terminal
	clockRate float64
	audio     *audioQueue

	fractionalCycles    float64
	wholeCyclesPerFrame float64
	fractCyclesPerFrame float64

	baudCycles     float64
	cyclesPerBaud  float64

	fractionalAudioCycles float64
	audioCycles           float64
	audioCyclesPerCPU     float64
	audioSamplesSinceLast float64

	vgaCycles           float64
	vgaCyclesPerCPU     float64
}

// defaultClockRate is the machine's nominal CPU clock, chosen so
// cycles_per_baud and the video/audio ratios come out to the values
// spec.md §4.7 documents as typical; hosts may override via NewSystemAt.
const defaultClockRate = 4_000_000.0

// NewSystem returns a System at the default clock rate, writing UART
// transmit bytes to term (nullTerminal{} if term is nil).
func NewSystem(term Terminal) *System {
	return NewSystemAt(defaultClockRate, term)
}

// NewSystemAt returns a System clocked at the given CPU frequency in Hz.
func NewSystemAt(clockRate float64, term Terminal) *System {
	if term == nil {
		term = nullTerminal{}
	}
	s := &System{
		CPU:        NewCPU(),
		Memory:     NewMemory(),
		UART:       NewUART(),
		Audio:      NewAudioChip(),
		VGA:        NewVGA(),
		Controller: NewController(),
		LCD:        NewLCD(),
		term:       term,
		clockRate:  clockRate,
		audio:      newAudioQueue(),
	}
	s.Memory.LoadAt(resetVector, buildMonitorROM())
	s.recomputeRatios()
	s.Reset()
	return s
}

func (s *System) recomputeRatios() {
	cyclesPerFrame := s.clockRate / frameHz
	s.wholeCyclesPerFrame = float64(int(cyclesPerFrame))
	s.fractCyclesPerFrame = cyclesPerFrame - s.wholeCyclesPerFrame
	s.cyclesPerBaud = s.clockRate / uartBaudRate
	s.audioCyclesPerCPU = audioCyclesPerSecond / s.clockRate
	s.vgaCyclesPerCPU = vgaPixelClockHz / s.clockRate
}

// resetVector is where the monitor ROM is mapped; see monitor_source.go.
const resetVector = Word(0xE000)

// Reset reinitializes the CPU to the monitor's reset vector and clears all
// scheduling accumulators; Memory and peripheral contents are left as-is.
func (s *System) Reset() {
	s.CPU.Reset(resetVector)
	s.fractionalCycles = 0
	s.baudCycles = 0
	s.fractionalAudioCycles, s.audioCycles, s.audioSamplesSinceLast = 0, 0, 0
	s.vgaCycles = 0
}

// LoadProgram copies data into RAM at base; it refuses to overlap the
// monitor ROM region.
func (s *System) LoadProgram(base Word, data []byte) error {
	if uint32(base)+uint32(len(data)) > uint32(resetVector) {
		return errProgramOverlapsMonitor
	}
	s.Memory.LoadAt(base, data)
	return nil
}

// AudioQueue exposes the producer side's queue for a host audio backend to
// drain; see audio_queue.go.
func (s *System) AudioQueue() *audioQueue { return s.audio }

// Framebuffer returns a copy of the current VGA output buffer.
func (s *System) Framebuffer() []byte { return s.VGA.Framebuffer() }

// MemoryView returns a copy of the full 64 KiB address space, for debug HUDs
// and tests.
func (s *System) MemoryView() [65536]byte { return s.Memory.Snapshot() }

// WriteChar pushes one byte into the UART receive FIFO (host keystroke ->
// CPU), silently dropping it if the FIFO has no room (spec.md's host
// contract treats a full RX FIFO as backpressure, not an error).
func (s *System) WriteChar(b byte) {
	if s.UART.HostCanWrite() {
		s.UART.HostWrite(b)
	}
}

// WriteBytes is WriteChar over a byte slice, e.g. for feeding a full line.
func (s *System) WriteBytes(data []byte) {
	for _, b := range data {
		s.WriteChar(b)
	}
}

// Clock advances the System by n CPU ticks, returning true if a BREAK
// instruction retired (the caller decides whether to resume).
func (s *System) Clock(n int) bool {
	for i := 0; i < n; i++ {
		brk, err := s.CPU.Clock(s.Memory, s.LCD, s.UART, s.Audio, s.VGA, s.Controller)
		if err != nil {
			log.Printf("system: cpu clock error: %v", err)
			return true
		}

		s.stepBaud()
		s.stepAudio()
		s.stepVGA()
		s.Memory.ResetVGAConflict()

		if brk {
			log.Printf("system: BREAK at PC=0x%04X", s.CPU.PC)
			return true
		}
	}
	return false
}

func (s *System) stepBaud() {
	s.baudCycles++
	for s.baudCycles >= s.cyclesPerBaud {
		s.baudCycles -= s.cyclesPerBaud
		if b, ok := s.UART.HostRead(); ok {
			s.term.Write(b)
		}
	}
}

func (s *System) stepAudio() {
	s.fractionalAudioCycles += s.audioCyclesPerCPU
	whole := int(s.fractionalAudioCycles)
	s.fractionalAudioCycles -= float64(whole)
	for i := 0; i < whole; i++ {
		sample := s.Audio.Tick()
		s.audioSamplesSinceLast++
		if s.audioSamplesSinceLast >= audioCyclesPerSample {
			s.audioSamplesSinceLast -= audioCyclesPerSample
			s.audio.push(sample)
		}
	}
}

func (s *System) stepVGA() {
	s.vgaCycles += s.vgaCyclesPerCPU
	whole := int(s.vgaCycles)
	s.vgaCycles -= float64(whole)
	if whole > 0 {
		s.VGA.Clock(s.Memory, whole)
	}
}

// ClockFrame advances the System by one frame's worth of CPU ticks, pacing
// off the running fractional-frame accumulator, and returns true on BREAK.
func (s *System) ClockFrame() bool {
	s.fractionalCycles += s.fractCyclesPerFrame
	n := int(s.wholeCyclesPerFrame)
	if s.fractionalCycles >= 1.0 {
		s.fractionalCycles -= 1.0
		n++
	}
	return s.Clock(n)
}

// ExecuteProgram runs the CPU until the on-board monitor prints its '>'
// prompt, then feeds "jmp 0\r" into the UART receive FIFO so the monitor
// transfers control to whatever program LoadProgram placed at address 0.
func (s *System) ExecuteProgram() {
	seenPrompt := false
	origTerm := s.term
	s.term = termFunc(func(b byte) {
		if b == '>' {
			seenPrompt = true
		}
		origTerm.Write(b)
	})
	defer func() { s.term = origTerm }()

	const maxBootstrapTicks = 10_000_000
	for i := 0; i < maxBootstrapTicks && !seenPrompt; i++ {
		if s.Clock(1) {
			log.Printf("system: BREAK during monitor bootstrap")
			return
		}
	}
	if !seenPrompt {
		log.Printf("system: monitor prompt not observed within bootstrap budget")
		return
	}
	s.WriteBytes([]byte("jmp 0\r"))
}

// termFunc adapts a plain func(byte) to the Terminal interface.
type termFunc func(byte)

func (f termFunc) Write(b byte) { f(b) }
