//go:build !headless

// video_backend_ebiten.go - windowed framebuffer + debug HUD via Ebiten

/*
video_backend_ebiten.go wraps a System in an ebiten.Game: Update steps one
paced frame via System.ClockFrame, Draw blits System.Framebuffer() and an
optional register HUD rendered with basicfont. Keyboard input and clipboard
paste are forwarded into the UART receive FIFO via System.WriteChar/
WriteBytes, the same emitByte/handleClipboardPaste shape the teacher's
video_backend_ebiten.go uses for its terminal-emulation frontend.
*/

// License: GPLv3 or later

package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

const (
	windowWidth  = 640
	windowHeight = 480
)

// EbitenFrontend drives a System inside an Ebiten window.
type EbitenFrontend struct {
	sys   *System
	image *ebiten.Image

	showHUD bool
	hudFace text.Face

	clipboardOnce sync.Once
	clipboardOK   bool
}

// NewEbitenFrontend returns a frontend ready to Run against sys.
func NewEbitenFrontend(sys *System) *EbitenFrontend {
	return &EbitenFrontend{
		sys:     sys,
		image:   ebiten.NewImage(windowWidth, windowHeight),
		hudFace: text.NewGoXFace(basicfont.Face7x13),
	}
}

// Run opens the window and blocks until it is closed.
func (f *EbitenFrontend) Run(title string) error {
	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizable(true)
	ebiten.SetVsyncEnabled(true)
	return ebiten.RunGame(f)
}

func (f *EbitenFrontend) Update() error {
	if ebiten.IsWindowBeingClosed() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		f.showHUD = !f.showHUD
	}
	f.handleKeyboardInput()
	f.sys.ClockFrame()
	return nil
}

func (f *EbitenFrontend) Draw(screen *ebiten.Image) {
	f.image.WritePixels(f.sys.Framebuffer())
	screen.DrawImage(f.image, nil)
	if f.showHUD {
		f.drawHUD(screen)
	}
}

func (f *EbitenFrontend) drawHUD(screen *ebiten.Image) {
	c := f.sys.CPU
	line := fmt.Sprintf("PC=%04X RA=%04X SP=%04X  A=%02X B=%02X C=%02X D=%02X  Z=%v C=%v S=%v O=%v",
		c.pc(), c.ra(), c.SP, c.A, c.B, c.C, c.D,
		c.Flags.Zero, c.Flags.Carry, c.Flags.Sign, c.Flags.Overflow)
	opts := &text.DrawOptions{}
	opts.GeoM.Translate(8, 8)
	text.Draw(screen, line, f.hudFace, opts)
}

func (f *EbitenFrontend) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (f *EbitenFrontend) handleKeyboardInput() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyV) {
		f.handleClipboardPaste()
	}

	for _, r := range ebiten.AppendInputChars(nil) {
		if r > 0 && r <= 0xFF {
			f.sys.WriteChar(byte(r))
		}
	}

	type seqKey struct {
		key ebiten.Key
		seq []byte
	}
	specials := []seqKey{
		{ebiten.KeyEnter, []byte{'\r'}},
		{ebiten.KeyNumpadEnter, []byte{'\r'}},
		{ebiten.KeyBackspace, []byte{'\b'}},
		{ebiten.KeyTab, []byte{'\t'}},
		{ebiten.KeyEscape, []byte{0x1B}},
		{ebiten.KeyArrowUp, []byte{0x1B, '[', 'A'}},
		{ebiten.KeyArrowDown, []byte{0x1B, '[', 'B'}},
		{ebiten.KeyArrowRight, []byte{0x1B, '[', 'C'}},
		{ebiten.KeyArrowLeft, []byte{0x1B, '[', 'D'}},
	}
	for _, sk := range specials {
		if inpututil.IsKeyJustPressed(sk.key) {
			f.sys.WriteBytes(sk.seq)
		}
	}
}

// runWindowed opens the Ebiten window and blocks until it is closed.
func runWindowed(sys *System, sampleRate int) {
	player, err := NewOtoPlayer(sys, sampleRate)
	if err != nil {
		fmt.Printf("failed to initialize audio: %v\n", err)
	} else {
		player.Start()
		defer player.Close()
	}

	front := NewEbitenFrontend(sys)
	if err := front.Run("machine"); err != nil {
		fmt.Printf("display error: %v\n", err)
		os.Exit(1)
	}
}

func (f *EbitenFrontend) handleClipboardPaste() {
	f.clipboardOnce.Do(func() {
		f.clipboardOK = clipboard.Init() == nil
	})
	if !f.clipboardOK {
		return
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 {
		return
	}
	if len(data) > 4096 {
		data = data[:4096]
	}
	f.sys.WriteBytes(data)
}
