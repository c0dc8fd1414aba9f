package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ZerkerEOD/p12crack/internal/engine"
	"github.com/ZerkerEOD/p12crack/internal/keyspace"
	"github.com/ZerkerEOD/p12crack/pkg/console"
	"github.com/ZerkerEOD/p12crack/pkg/debug"
)

const version = "0.3.1"

var (
	dictionary    string
	delimiter     string
	pattern       string
	patternSymbol string
	bruteforce    bool
	minLength     int
	maxLength     int
	charsetFlags  string
	customChars   string
	threads       int
	chunkSize     int
	quiet         bool

	// exitCode distinguishes found (0) from exhausted (2); errors exit 1.
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "p12crack [flags] <container>",
	Short: "Recover lost PKCS#12 container passwords",
	Long: `p12crack recovers a lost PKCS#12 (.p12/.pfx) container password by
testing candidates from a dictionary, a pattern template, or exhaustive
brute force across a worker pool sized to the local hardware.

Exactly one attack mode must be selected. Verification runs locally;
nothing leaves the machine. The recovered password is printed on stdout,
everything else goes to stderr.

Examples:
  p12crack -d rockyou.txt backup.p12
  p12crack -d words.zip --delimiter ";" backup.p12
  p12crack -p "Comp@ny202@" backup.p12
  p12crack -b -c an --max-length 5 backup.p12`,
	Args:          cobra.ExactArgs(1),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&dictionary, "dictionary", "d", "", "Wordlist file (.txt, .gz, .zip, .7z)")
	flags.StringVar(&delimiter, "delimiter", engine.DefaultDelimiter, "Dictionary record delimiter")
	flags.StringVarP(&pattern, "pattern", "p", "", "Pattern template; the symbol marks unknown positions")
	flags.StringVarP(&patternSymbol, "pattern-symbol", "s", engine.DefaultPatternSymbol, "Variable marker inside the pattern")
	flags.BoolVarP(&bruteforce, "brute-force", "b", false, "Try every combination of the charset")
	flags.IntVarP(&minLength, "min-length", "m", engine.DefaultMinLength, "Shortest brute-force candidate")
	flags.IntVar(&maxLength, "max-length", engine.DefaultMaxLength, "Longest brute-force candidate")
	flags.StringVarP(&charsetFlags, "charset", "c", "", "Charset classes: a, A, n, s, x (default lowercase)")
	flags.StringVar(&customChars, "custom-chars", "", "Extra characters appended to the charset")
	flags.IntVarP(&threads, "threads", "t", 0, "Worker count (0 = all logical cores)")
	flags.IntVar(&chunkSize, "chunk-size", keyspace.DefaultChunkSize, "Candidates per work chunk")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Only print the recovered password")
}

func run(cmd *cobra.Command, args []string) error {
	console.SetQuiet(quiet)

	cfg := engine.Config{
		ContainerPath:    args[0],
		Dictionary:       dictionary,
		Delimiter:        delimiter,
		Pattern:          pattern,
		PatternSymbol:    patternSymbol,
		Bruteforce:       bruteforce,
		MinLength:        minLength,
		MaxLength:        maxLength,
		CharsetSelectors: charsetFlags,
		CustomChars:      customChars,
		Threads:          threads,
		ChunkSize:        chunkSize,
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			console.Warning("Interrupt received, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	console.Status("Starting %s attack on %s", eng.Mode(), cfg.ContainerPath)

	var reporter *console.ProgressReporter
	if !quiet {
		reporter = console.NewProgressReporter()
		eng.SetProgressCallback(func(p engine.Progress) {
			reporter.Update(p.Attempts, p.Total, p.TotalKnown)
		})
	}

	outcome, err := eng.Run(ctx)
	if reporter != nil {
		reporter.Finish()
	}
	if err != nil {
		return err
	}

	if outcome.Dictionary != nil {
		console.Info("Dictionary %s: %d records, ~%d unique, md5 %s",
			outcome.Dictionary.Path, outcome.Dictionary.Records,
			outcome.Dictionary.UniqueEstimate, outcome.Dictionary.MD5)
	}

	if !quiet {
		console.Summary(os.Stderr, outcome.State.String(), outcome.Found, outcome.Attempts, outcome.Elapsed)
	}

	if outcome.Found {
		fmt.Println(outcome.Password)
		exitCode = 0
	} else {
		exitCode = 2
	}
	return nil
}

func main() {
	// A .env beside the binary tunes logging without touching the shell
	// environment.
	if err := godotenv.Load(); err == nil {
		debug.Reinitialize()
	}

	if err := rootCmd.Execute(); err != nil {
		console.Error("%v", err)
		dumpLogTail()
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// dumpLogTail prints the buffered log tail so a failure report carries
// the context that led up to it. Quiet without debug logging enabled.
func dumpLogTail() {
	if !debug.IsDebugEnabled() {
		return
	}
	entries := debug.RecentLogs(20)
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "recent log entries:")
	for _, e := range entries {
		fmt.Fprintf(os.Stderr, "  [%s] %s\n", e.Level, e.Message)
	}
}
