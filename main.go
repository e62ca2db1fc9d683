// main.go - machine: the emulator's command-line entry point

/*
main.go wires a System to either the windowed Ebiten+oto frontend or a
headless terminal frontend, loads a program if one is given, and runs the
monitor bootstrap before handing control to the host's main loop. Grounded
on the teacher's main.go peripheral-construction order (sound, then video,
then terminal, then CPU start), generalized from its fixed ie32/m68k CPU
selection to this machine's single engine plus a headless/windowed switch.
runWindowed itself lives in video_backend_ebiten.go / video_backend_headless_stub.go,
split by the `headless` build tag the same way the teacher splits
audio_backend_oto.go/audio_backend_headless.go.
*/

// License: GPLv3 or later

package main

import (
	"flag"
	"fmt"
	"os"
)

func boilerPlate() {
	fmt.Println("\nmachine - a cycle-accurate pipelined 8-bit emulator and assembler.")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	runPath := flag.String("run", "", "Assembled program binary to load at address 0x0000 and run")
	headless := flag.Bool("headless", false, "Run without opening a window (no video output)")
	clockRate := flag.Float64("clock-rate", defaultClockRate, "CPU clock rate in Hz")
	sampleRate := flag.Int("sample-rate", int(audioSampleRate), "Audio output sample rate in Hz")
	flag.Parse()

	boilerPlate()

	sys := NewSystemAt(*clockRate, StdoutTerminal{})

	if *runPath != "" {
		data, err := os.ReadFile(*runPath)
		if err != nil {
			fmt.Printf("error reading %s: %v\n", *runPath, err)
			os.Exit(1)
		}
		if err := sys.LoadProgram(0, data); err != nil {
			fmt.Printf("error loading program: %v\n", err)
			os.Exit(1)
		}
	}

	sys.ExecuteProgram()

	if *headless {
		runHeadless(sys, *sampleRate)
		return
	}
	runWindowed(sys, *sampleRate)
}

// runHeadless paces the System by wall-clock frame ticks with no video
// backend attached, printing UART output to stdout via StdoutTerminal until
// a BREAK instruction retires.
func runHeadless(sys *System, sampleRate int) {
	player, err := NewOtoPlayer(sys, sampleRate)
	if err == nil {
		player.Start()
		defer player.Close()
	}

	host := NewTerminalHost(sys)
	if err := host.Start(); err == nil {
		defer host.Stop()
	}

	for {
		if sys.ClockFrame() {
			return
		}
	}
}
