package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/lanikai/ingest"
	"github.com/lanikai/ingest/internal/logging"
)

func main() {
	// Parse command line arguments
	flag.Parse()

	// Check for help flag
	if flagHelp {
		help()
		os.Exit(0)
	}

	// Check for version flag
	if flagVersion {
		version()
		os.Exit(0)
	}

	// Configure logging before any tagged loggers are derived
	if err := logging.Configure(flagLogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	log := logging.DefaultLogger.WithTag("main")

	source := flagInput
	if flag.NArg() > 0 {
		source = flag.Arg(0)
	}

	out := os.Stdout
	if flagOutput != "-" {
		f, err := os.Create(flagOutput)
		if err != nil {
			log.Fatal("%v", err)
		}
		defer f.Close()
		out = f
	}

	mode := ingest.HTTPBuffered
	if flagHTTPStreaming {
		mode = ingest.HTTPStreaming
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &copier{
		opener: ingest.NewOpener(ingest.Config{
			HTTPMode: mode,
			Logger:   logging.DefaultLogger.WithTag("ingest"),
		}),
		chunkSize: flagChunkSize,
		readSize:  flagReadSize,
		count:     flagCount,
		timeout:   flagTimeout,
		log:       log,
	}

	stats, err := c.run(ctx, source, out)
	log.Info("Copied %d chunks (%d bytes) from %q", stats.chunks, stats.bytes, source)
	if err != nil {
		log.Error("%v", err)
		stop()
		os.Exit(1)
	}
}
