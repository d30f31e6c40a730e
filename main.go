package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hadv/noncehunt/miner"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logo = `
 _ __   ___  _ __   ___ ___  | |__  _   _ _ __ | |_
| '_ \ / _ \| '_ \ / __/ _ \ | '_ \| | | | '_ \| __|
| | | | (_) | | | | (_|  __/ | | | | |_| | | | | |_
|_| |_|\___/|_| |_|\___\___| |_| |_|\__,_|_| |_|\__|

      ⛏️  Chunked Proof-of-Work Nonce Search  ⛏️
`

const (
	exitOK          = 0
	exitError       = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[0], os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run parses args, executes one search and writes the report to stdout. It returns the
// process exit code.
func run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) int {
	defaults := miner.DefaultParams()
	params := defaults

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVarP(&params.Prefix, "prefix", "p", defaults.Prefix, "Prefix hashed as prefix:nonce")
	fs.IntVarP(&params.Difficulty, "difficulty", "d", defaults.Difficulty, "Required number of leading '0' hex characters")
	fs.IntVarP(&params.Target, "target", "k", defaults.Target, "Number of solutions to find before stopping")
	fs.Uint64Var(&params.Start, "start", defaults.Start, "First nonce of the search range (inclusive)")
	fs.Uint64Var(&params.End, "end", defaults.End, "End of the search range (exclusive)")
	fs.IntVarP(&params.Workers, "threads", "t", defaults.Workers, "Number of worker goroutines")
	fs.Uint64VarP(&params.ChunkSize, "chunk-size", "c", defaults.ChunkSize, "Nonces per work queue chunk")
	fs.StringVarP(&params.Algorithm, "algo", "a", defaults.Algorithm, "Digest algorithm: "+strings.Join(miner.Algorithms(), ", "))
	fs.IntVar(&params.CheckInterval, "check-interval", defaults.CheckInterval, "Nonces hashed between stop-flag checks")

	showProgress := fs.Bool("progress", false, "Show a progress bar on stderr")
	jsonOutput := fs.Bool("json", false, "Print the report as JSON")
	verbose := fs.BoolP("verbose", "v", false, "Enable debug logging")
	quiet := fs.BoolP("quiet", "q", false, "Suppress the banner and info logs")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [options]\n\n", name)
		fmt.Fprintf(stderr, "Searches [start, end) for nonces whose digest of prefix:nonce starts with\n")
		fmt.Fprintf(stderr, "difficulty zero hex characters, using a shared chunk queue.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  %s -d 5 -k 10 -t 8\n", name)
		fmt.Fprintf(stderr, "  %s -p hello -d 4 --end 10000000 --algo keccak256 --json\n", name)
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	logger, err := newLogger(*verbose, *quiet)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating logger: %v\n", err)
		return exitError
	}
	defer logger.Sync()

	if !*quiet && !*jsonOutput {
		fmt.Fprint(stderr, logo)
	}

	host := miner.Host()
	logger.Info("Host", host.Fields()...)

	opts := []miner.Option{miner.WithLogger(logger)}
	if *showProgress {
		opts = append(opts, miner.WithProgress(stderr, time.Second))
	}

	search, err := miner.NewSearch(params, opts...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		fs.Usage()
		return exitUsage
	}

	report, runErr := search.Run(ctx)
	if report == nil {
		fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return exitError
	}

	if *jsonOutput {
		err = report.WriteJSON(stdout)
	} else {
		err = report.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error writing report: %v\n", err)
		return exitError
	}

	if runErr != nil {
		return exitInterrupted
	}
	return exitOK
}

// newLogger builds a console logger on stderr
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	switch {
	case verbose:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case quiet:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	return cfg.Build()
}
