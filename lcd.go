// lcd.go - command/data write stub with a command-register read

// License: GPLv3 or later

package main

// LCD is a minimal stand-in for the machine's LCD peripheral: the CPU can
// write a command byte and a data byte, and read back the last command.
// original_source/src/device.rs leaves this entirely todo!()-stubbed; this
// gives it the one behavior spec.md's component table actually names.
type LCD struct {
	cmd  byte
	data byte
}

// NewLCD returns an LCD with its command/data latches at zero.
func NewLCD() *LCD { return &LCD{} }

// WriteCmd latches a command byte (the `gpio` OUT port).
func (l *LCD) WriteCmd(b byte) { l.cmd = b }

// WriteData latches a data byte.
func (l *LCD) WriteData(b byte) { l.data = b }

// ReadCmd returns the last-written command byte (the `gpio` IN port).
func (l *LCD) ReadCmd() byte { return l.cmd }
