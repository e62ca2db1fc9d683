//go:build headless

// audio_backend_headless.go - no-op audio output for headless builds

// License: GPLv3 or later

package main

// OtoPlayer is the headless stand-in for the oto-backed player: it drains
// the audio queue on a timer so a long-running headless System doesn't
// accumulate unbounded backlog, but produces no sound.
type OtoPlayer struct {
	sys *System
}

// NewOtoPlayer always succeeds under the headless build tag.
func NewOtoPlayer(sys *System, sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{sys: sys}, nil
}

// Start is a no-op; headless callers drive audio drainage themselves via
// AudioQueue().drain if they need the samples (e.g. dumping to a WAV file).
func (op *OtoPlayer) Start() {}

// Close is a no-op.
func (op *OtoPlayer) Close() error { return nil }
