// vga.go - pixel-clock state machine, tile+palette scanout, scroll registers

/*
vga.go emulates the machine's VGA chip against standard 640x480@60Hz CRT
timing (800x525 total pixels, 25.175MHz pixel clock): horizontal/vertical
counters walk the full raster including blanking, while a second pair of
"pixel" counters (h_pixel/v_pixel) track scrolled scanout position and reload
from the scroll registers at line/frame boundaries.

Thread safety: the framebuffer and counter state are guarded by a mutex,
since the video backend reads Framebuffer() from the host's render goroutine
while the System's tick thread calls Clock concurrently. Mirrors the
teacher's video_vga.go, which guards its VRAM/palette state with
sync.RWMutex.
*/

// License: GPLv3 or later

package main

import "sync"

const (
	vgaScreenWidth  = 640
	vgaScreenHeight = 480
	vgaHTotal       = 800
	vgaVTotal       = 525
	vgaHFrontPorch  = 16
	vgaHSyncWidth   = 96
	vgaVFrontPorch  = 10
	vgaVSyncWidth   = 2
)

// VGA is the machine's video chip.
type VGA struct {
	mu sync.RWMutex

	hCounter, vCounter uint16
	hPixel, vPixel     uint16

	hOffset, vOffset uint16
	updateVScroll    bool

	framebuffer [vgaScreenWidth * vgaScreenHeight * 4]byte // RGBA8
}

// NewVGA returns a VGA reset to its power-on raster position.
func NewVGA() *VGA {
	v := &VGA{}
	v.Reset()
	return v
}

// Reset returns the VGA to the start of the raster with scroll registers
// cleared.
func (v *VGA) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.hCounter, v.vCounter = 0, 0
	v.hPixel, v.vPixel = 0, 0
	v.hOffset, v.vOffset = 0, 0
	v.updateVScroll = false
}

// ReadMappedIO services CPU reads within the MMIO window; only the scroll
// registers are readable (write-mostly hardware), read-back simply returns
// the last-written value.
func (v *VGA) ReadMappedIO(mem *Memory, addr uint16) byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	switch addr {
	case vgaScrollBase:
		return byte(v.hOffset)
	case vgaScrollBase + 1:
		return byte(v.hOffset >> 8)
	case vgaScrollBase + 2:
		return byte(v.vOffset)
	case vgaScrollBase + 3:
		return byte(v.vOffset >> 8)
	default:
		return 0
	}
}

// WriteMappedIO services CPU writes into the MMIO window. Writing the last
// byte of v_offset latches update_vscroll, consumed at the next line
// boundary per spec.md §4.4.
func (v *VGA) WriteMappedIO(mem *Memory, addr uint16, b byte) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch addr {
	case vgaScrollBase:
		v.hOffset = v.hOffset&0xFF00 | uint16(b)
	case vgaScrollBase + 1:
		v.hOffset = v.hOffset&0x00FF | uint16(b)<<8
	case vgaScrollBase + 2:
		v.vOffset = v.vOffset&0xFF00 | uint16(b)
	case vgaScrollBase + 3:
		v.vOffset = v.vOffset&0x00FF | uint16(b)<<8
		v.updateVScroll = true
	}
}

// ReadData synthesizes the CPU-visible status byte: H_SYNC/V_SYNC are
// active-low (1 = outside the pulse), the blanking/reset/line-clock bits
// are active-high.
func (v *VGA) ReadData() byte {
	v.mu.RLock()
	defer v.mu.RUnlock()

	hSyncStart := vgaScreenWidth + vgaHFrontPorch
	hSyncEnd := hSyncStart + vgaHSyncWidth
	vSyncStart := vgaScreenHeight + vgaVFrontPorch
	vSyncEnd := vSyncStart + vgaVSyncWidth

	inHSync := v.hCounter >= uint16(hSyncStart) && v.hCounter < uint16(hSyncEnd)
	inVSync := v.vCounter >= uint16(vSyncStart) && v.vCounter < uint16(vSyncEnd)
	hBlank := v.hCounter >= vgaScreenWidth
	vBlank := v.vCounter >= vgaScreenHeight

	var status byte
	if !inHSync {
		status |= 1 << 0
	}
	if !inVSync {
		status |= 1 << 1
	}
	if hBlank {
		status |= 1 << 2
	}
	if vBlank {
		status |= 1 << 3
	}
	if hBlank || vBlank {
		status |= 1 << 4
	}
	if v.hCounter == 0 && v.vCounter == 0 {
		status |= 1 << 5
	}
	if v.hCounter == 0 {
		status |= 1 << 6
	}
	return status
}

// Clock advances the raster by n pixel sub-ticks, rendering any visible
// pixels into the framebuffer as it goes.
func (v *VGA) Clock(mem *Memory, n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := 0; i < n; i++ {
		v.tick(mem)
	}
}

func (v *VGA) tick(mem *Memory) {
	if v.hCounter < vgaScreenWidth && v.vCounter < vgaScreenHeight {
		v.renderPixel(mem)
	}

	v.hCounter++
	if v.hCounter >= vgaHTotal {
		v.hCounter = 0
		v.hPixel = v.hOffset + 47
		if v.updateVScroll {
			v.vPixel = v.vOffset
			v.updateVScroll = false
		} else {
			v.vPixel++
		}

		v.vCounter++
		if v.vCounter >= vgaVTotal {
			v.vCounter = 0
			v.vPixel = v.vOffset + 33
			v.updateVScroll = false
		}
	} else if v.hCounter < vgaScreenWidth {
		v.hPixel++
	}
}

func (v *VGA) renderPixel(mem *Memory) {
	cellX := (v.hPixel >> 3) & 0x7F
	cellY := (v.vPixel >> 3) & 0x7F
	tileX := v.hPixel & 7
	tileY := v.vPixel & 7

	cellAddr := cellY*80 + cellX
	tileIndex := mem.FramebufferRead(cellAddr)

	tdAddr := uint16(tileIndex)<<5 | uint16(tileY)<<2 | uint16(tileX>>1)
	packed := mem.TileDataRead(tdAddr)

	var nibble byte
	if tileX&1 == 0 {
		nibble = packed & 0x0F
	} else {
		nibble = packed >> 4
	}

	c := mem.PaletteRead(nibble)

	pixelIdx := (int(v.vCounter)*vgaScreenWidth + int(v.hCounter)) * 4
	v.framebuffer[pixelIdx+0] = c.R
	v.framebuffer[pixelIdx+1] = c.G
	v.framebuffer[pixelIdx+2] = c.B
	v.framebuffer[pixelIdx+3] = 0xFF
}

// Framebuffer returns a copy of the current 640x480 RGBA8 output buffer.
func (v *VGA) Framebuffer() []byte {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]byte, len(v.framebuffer))
	copy(out, v.framebuffer[:])
	return out
}
