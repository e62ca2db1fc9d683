// memory.go - 64 KiB bus with memory-mapped VGA I/O and bus-contention caches

// License: GPLv3 or later

package main

import "sync"

const (
	mmioBase = 0x8B00
	mmioEnd  = 0x8C00

	vgaScrollBase = 0x8B80
	vgaScrollEnd  = 0x8B84

	framebufferBase = 0xC000
	framebufferEnd  = 0xE000
	framebufferMask = 0x1FFF

	paletteBase = 0x8C00
	paletteEnd  = 0x9000
	paletteBank = paletteBase + 3 // address-3 byte selects the active 32KiB bank

	paletteStoreSize = 32 * 1024 // 32 banks * 1KiB, spec.md's "32 KiB behind the bank"

	tileDataBase = 0xA000
	tileDataEnd  = 0xC000
	tileDataMask = 0x1FFF
)

// Memory is the machine's 64 KiB linear address space plus the
// bus-contention caches the VGA scanout reads through. The cache/conflict
// pairing follows original_source/src/device.rs's Memory struct, widened
// from its single vga_conflict_data cache to the three independent
// apertures spec.md §3/§4.2 requires (framebuffer, palette, tile data).
type Memory struct {
	mu sync.Mutex

	ram [65536]byte

	// palette is the 32 KiB store the CPU-visible 1KB window at paletteBase
	// banks into; it is not part of the linear ram array since a bank other
	// than 0 would otherwise alias framebuffer/tile-data or run off the bus.
	palette        [paletteStoreSize]byte
	paletteBankReg byte

	fbCache     byte
	fbConflict  bool
	palCache    Color
	palConflict bool
	tdCache     byte
	tdConflict  bool
}

// Color is an RGB triple as stored in palette RAM (no alpha; VGA output is
// expanded to RGBA8 only at the framebuffer-presentation boundary).
type Color struct{ R, G, B byte }

// NewMemory returns a zeroed 64 KiB bus.
func NewMemory() *Memory { return &Memory{} }

// Read dispatches to the VGA's memory-mapped I/O window when addr falls in
// it, otherwise returns the raw RAM cell.
func (m *Memory) Read(vga *VGA, addr Word) byte {
	a := uint16(addr)
	if a >= mmioBase && a < mmioEnd {
		return vga.ReadMappedIO(m, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ram[a]
}

// Write dispatches MMIO writes to the VGA, otherwise updates RAM and marks
// the relevant bus-contention conflict flag for this cycle.
func (m *Memory) Write(vga *VGA, addr Word, b byte) {
	a := uint16(addr)
	if a >= mmioBase && a < mmioEnd {
		vga.WriteMappedIO(m, a, b)
		return
	}
	m.mu.Lock()
	switch {
	case a >= paletteBase && a < paletteEnd:
		// The CPU-visible 1KB window is banked into the dedicated 32KiB
		// palette store, except the address-3 selector byte itself, which
		// always lands at its literal ram address so every bank shares one
		// selector.
		m.palConflict = true
		m.ram[a] = b
		if a == paletteBank {
			m.paletteBankReg = b & 0x1F
		} else {
			m.palette[uint16(m.paletteBankReg)*1024+(a-paletteBase)] = b
		}
	case a >= framebufferBase && a < framebufferEnd:
		m.ram[a] = b
		m.fbConflict = true
	case a >= tileDataBase && a < tileDataEnd:
		m.ram[a] = b
		m.tdConflict = true
	default:
		m.ram[a] = b
	}
	m.mu.Unlock()
}

// FramebufferRead is the VGA-side accessor for tile-index cells; it honors
// the bus-contention cache when the CPU wrote this cycle.
func (m *Memory) FramebufferRead(addr uint16) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fbConflict {
		return m.fbCache
	}
	v := m.ram[framebufferBase+(addr&framebufferMask)]
	m.fbCache = v
	return v
}

// PaletteRead is the VGA-side accessor for a 4-bit palette index, banked by
// the low 5 bits of the most recently written address-3 byte.
func (m *Memory) PaletteRead(index byte) Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.palConflict {
		return m.palCache
	}
	offset := uint16(m.paletteBankReg)*1024 + uint16(index)*3
	c := Color{}
	if int(offset)+2 < len(m.palette) {
		c = Color{R: m.palette[offset], G: m.palette[offset+1], B: m.palette[offset+2]}
	}
	m.palCache = c
	return c
}

// TileDataRead is the VGA-side accessor for packed 4-bit/pixel tile cells.
func (m *Memory) TileDataRead(addr uint16) byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tdConflict {
		return m.tdCache
	}
	v := m.ram[tileDataBase+(addr&tileDataMask)]
	m.tdCache = v
	return v
}

// ResetVGAConflict clears all three conflict flags. Called by the System
// scheduler exactly once per CPU tick, after stage-2 memory activity and
// after the VGA's sub-ticks for that tick have run.
func (m *Memory) ResetVGAConflict() {
	m.mu.Lock()
	m.fbConflict = false
	m.palConflict = false
	m.tdConflict = false
	m.mu.Unlock()
}

// LoadAt copies data into RAM starting at base, without bounds checking
// beyond the 64 KiB address space (callers enforce the ROM-area guard).
func (m *Memory) LoadAt(base Word, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range data {
		addr := int(base) + i
		if addr >= len(m.ram) {
			break
		}
		m.ram[addr] = b
	}
}

// Snapshot returns a copy of the full 64 KiB address space.
func (m *Memory) Snapshot() [65536]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ram
}
