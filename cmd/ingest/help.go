package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	flag "github.com/spf13/pflag"

	"github.com/lanikai/ingest/internal/packet"
)

var (
	flagInput         string
	flagOutput        string
	flagCount         int
	flagChunkSize     int
	flagReadSize      int
	flagHTTPStreaming bool
	flagTimeout       time.Duration
	flagLogLevel      string
	flagHelp          bool
	flagVersion       bool
)

func init() {
	flag.StringVarP(&flagInput, "input", "i", "", "Source URI")
	flag.StringVarP(&flagOutput, "output", "o", "-", "Output file")
	flag.IntVarP(&flagCount, "count", "c", 0, "Stop after this many chunks")
	flag.IntVarP(&flagChunkSize, "chunk-size", "s", packet.TSPacketSize, "Chunk size, in bytes")
	flag.IntVarP(&flagReadSize, "read-size", "", packet.MaxDatagramSize, "Source read size, in bytes")
	flag.BoolVarP(&flagHTTPStreaming, "http-streaming", "", false, "Relay HTTP bodies as they arrive")
	flag.DurationVarP(&flagTimeout, "timeout", "t", 0, "Timeout for opening the source")
	flag.StringVarP(&flagLogLevel, "log-level", "l", "", "Logging directives")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVarP(&flagVersion, "version", "v", false, "Print version information and exit")
}

const helpString = `Read a transport stream from any source

Usage: ingest [OPTION]... [URI]

Sources:
  (none), -              Standard input
  udp://@GROUP:PORT      Join multicast GROUP, listen on 0.0.0.0:PORT
  udp://HOST:PORT        Listen on HOST:PORT
  http://URL, https://   Fetch URL
  ws://URL, wss://URL    Receive WebSocket messages from URL
  PATH                   Local file

Input:
  -i, --input=URI        Source, if not given as an argument
  -t, --timeout=DURATION Give up opening the source after DURATION
      --http-streaming   Relay HTTP bodies as they arrive, instead of
                         fetching the whole body first
      --read-size=NUM    Source read size (default: 65535, one datagram)

Output:
  -o, --output=FILE      Write chunks to FILE (default: standard output)
  -s, --chunk-size=NUM   Chunk size, in bytes (default: 188)
  -c, --count=NUM        Stop after NUM chunks (default: unlimited)

Miscellaneous:
  -l, --log-level=DIRS   Logging directives, e.g. "debug" or "ingest=debug"
                         (also read from $LOGLEVEL)
  -h, --help             Prints this help message and exits
  -v, --version          Prints version information and exits

Please report bugs to: aloha@lanikailabs.com`

// Help information is printed and program exits
func help() {
	r := color.New(color.FgRed)
	y := color.New(color.FgYellow)
	b := color.New(color.FgCyan)

	//  _                       _
	// (_) _ __    __ _   ___  ___ | |_
	// | || '_ \  / _` | / _ \/ __|| __|
	// | || | | || (_| ||  __/\__ \| |_
	// |_||_| |_| \__, | \___||___/ \__|
	//            |___/

	r.Print(" _ ")
	y.Print("       ")
	b.Print("        ")
	r.Print("      ")
	y.Print("     ")
	b.Println(" _   ")

	r.Print("(_)")
	y.Print(" _ __  ")
	b.Print("  __ _  ")
	r.Print(" ___  ")
	y.Print("___ ")
	b.Println("| |_ ")

	r.Print("| |")
	y.Print("| '_ \\ ")
	b.Print(" / _` | ")
	r.Print("/ _ \\")
	y.Print("/ __|")
	b.Println("| __|")

	r.Print("| |")
	y.Print("| | | |")
	b.Print("| (_| | ")
	r.Print("|  __/")
	y.Print("\\__ \\")
	b.Println("| |_ ")

	r.Print("|_|")
	y.Print("|_| |_|")
	b.Print(" \\__, | ")
	r.Print("\\___|")
	y.Print("|___/")
	b.Println(" \\__|")

	r.Print("   ")
	y.Print("       ")
	b.Println(" |___/ ")

	fmt.Println(helpString)
}

// Populated via -ldflags="-X ...".
var GitRevisionId string

func version() {
	fmt.Println("ingest", GitRevisionId)
	fmt.Println("Copyright 2019 Lanikai Labs LLC. All rights reserved.")
}
