//go:build !headless

// audio_backend_oto.go - oto v3 audio output implementation

/*
audio_backend_oto.go drains System.AudioQueue() into an oto.Player via the
io.Reader contract oto expects, the same Read-from-the-ring-buffer shape the
teacher's OtoPlayer uses for SoundChip.ReadSampleFromRing.
*/

// License: GPLv3 or later

package main

import (
	"math"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer streams audioSampleRate float32 mono samples from a System's
// audio queue to the host's default output device.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player
	sys    *System
}

// NewOtoPlayer opens the host's default audio device at sampleRate.
func NewOtoPlayer(sys *System, sampleRate int) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4096,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	op := &OtoPlayer{ctx: ctx, sys: sys}
	op.player = ctx.NewPlayer(op)
	return op, nil
}

// Read implements io.Reader, filling p with drained audio samples; silence
// is substituted once the queue runs dry rather than blocking oto's mixer.
func (op *OtoPlayer) Read(p []byte) (int, error) {
	n := len(p) / 4
	samples := make([]float32, n)
	got := op.sys.AudioQueue().drain(samples)
	for i := got; i < n; i++ {
		samples[i] = 0
	}
	for i, s := range samples {
		bits := math.Float32bits(s)
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return len(p), nil
}

// Start begins playback.
func (op *OtoPlayer) Start() { op.player.Play() }

// Close stops playback and releases the player.
func (op *OtoPlayer) Close() error { return op.player.Close() }
