// Command sampler loads, inspects, renders and plays audio samples through
// the pitch-shifting wave reader.
//
// Usage:
//
//	sampler <command> [flags] [file ...]
//
// Commands:
//
//	info       print frames, channels, rate and peak level of each file
//	render     render a voice to a WAV file
//	play       play a voice on the default audio device
//	peak       print the dominant frequency of a file
//	qualities  list resampler quality levels
//
// Examples:
//
//	sampler info kick.wav snare.flac
//	sampler render -pitch 1.5 -loops 4 -o out.wav loop.wav
//	sampler play -transpose -5 -quality sinc-medium -loop pad.flac
//	sampler peak -size 16384 tone.wav
package main

import (
	"fmt"
	"log"
	"os"
)

type command struct {
	name    string
	summary string
	run     func(args []string) error
}

var commands = []command{
	{"info", "print frames, channels, rate and peak level of each file", runInfo},
	{"render", "render a voice to a WAV file", runRender},
	{"play", "play a voice on the default audio device", runPlay},
	{"peak", "print the dominant frequency of a file", runPeak},
	{"qualities", "list resampler quality levels", runQualities},
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("sampler: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	name := os.Args[1]
	if name == "-h" || name == "-help" || name == "help" {
		usage()
		return
	}

	for _, c := range commands {
		if c.name == name {
			if err := c.run(os.Args[2:]); err != nil {
				log.Fatal(err)
			}
			return
		}
	}

	fmt.Fprintf(os.Stderr, "unknown command %q\n\n", name)
	usage()
	os.Exit(2)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: sampler <command> [flags] [file ...]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, c := range commands {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", c.name, c.summary)
	}
	fmt.Fprintf(os.Stderr, "\nRun 'sampler <command> -h' for command flags.\n")
}
