//go:build headless

// video_backend_headless_stub.go - runWindowed stand-in for headless builds

// License: GPLv3 or later

package main

import "fmt"

// runWindowed is unavailable in headless builds (no Ebiten/GPU dependency
// is compiled in); it falls back to the headless run loop instead.
func runWindowed(sys *System, sampleRate int) {
	fmt.Println("machine: built with the headless tag, no display backend available; running headless")
	runHeadless(sys, sampleRate)
}
