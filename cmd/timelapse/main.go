// Package main provides the CLI entry point for timelapse.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/timelapse/pkg/adapters/logger"
	"github.com/user/timelapse/pkg/adapters/osfilesystem"
	"github.com/user/timelapse/pkg/config"
	"github.com/user/timelapse/pkg/pipeline"
	"github.com/user/timelapse/pkg/ports"
	"github.com/user/timelapse/pkg/summarizer"
	"github.com/user/timelapse/pkg/timelapse"
)

var version = "dev"

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "timelapse",
		Usage:   l10n.T("Turn videos into timelapses by keeping every Nth frame"),
		Version: version,
		Description: l10n.T("timelapse converts each input video into an MP4 that keeps one frame out of every N, " +
			"so the result plays N times faster at the source frame rate."),
		Commands: []*cli.Command{
			convertCommand(),
			validateCommand(),
			probeCommand(),
			speedsCommand(),
		},
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Configuration"),
		},
		&cli.StringFlag{
			Name:     "ffmpeg",
			Usage:    l10n.T("Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)"),
			Category: l10n.T("Tools"),
		},
		&cli.StringFlag{
			Name:     "ffprobe",
			Usage:    l10n.T("Path to ffprobe (falls back to FFPROBE_PATH env, then PATH)"),
			Category: l10n.T("Tools"),
		},
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

func convertCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "speed",
			Aliases:  []string{"s"},
			Usage:    l10n.T("Speed multiplier, e.g. 10x (keeps every Nth frame)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "dest",
			Aliases:  []string{"d"},
			Usage:    l10n.T("Destination reference; outputs go to its parent directory (default: <source dir>/outputs)"),
			Category: l10n.T("Output"),
		},
		&cli.BoolFlag{
			Name:     "continue-on-error",
			Usage:    l10n.T("Attempt every file even after a failure"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "summary",
			Usage:    l10n.T("Output execution summary to file (Markdown format)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "debug-dir",
			Usage:    l10n.T("Save annotated kept frames to this directory"),
			Category: l10n.T("Debug"),
		},
		&cli.IntFlag{
			Name:     "debug-every",
			Usage:    l10n.T("Save every Nth kept frame (default: 1)"),
			Category: l10n.T("Debug"),
		},
	}

	return &cli.Command{
		Name:      "convert",
		Usage:     l10n.T("Convert videos into timelapses"),
		ArgsUsage: "<video>...",
		Flags:     append(flags, commonFlags()...),
		Action:    runConvert,
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     l10n.T("Check that every video can be decoded"),
		ArgsUsage: "<video>...",
		Flags:     commonFlags(),
		Action:    runValidate,
	}
}

func probeCommand() *cli.Command {
	return &cli.Command{
		Name:      "probe",
		Usage:     l10n.T("Show stream information of videos"),
		ArgsUsage: "<video>...",
		Flags:     commonFlags(),
		Action:    runProbe,
	}
}

func speedsCommand() *cli.Command {
	return &cli.Command{
		Name:  "speeds",
		Usage: l10n.T("List the offered speed multipliers"),
		Action: func(c *cli.Context) error {
			for _, label := range timelapse.SpeedLabels() {
				fmt.Fprintln(c.App.Writer, label)
			}
			return nil
		},
	}
}

// loadConfig reads the optional config file and applies flag overrides.
func loadConfig(c *cli.Context) (config.Config, ports.Logger, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, nil, cli.Exit(l10n.F("Failed to load configuration: %s", err), exitUsage)
		}
		cfg = loaded
	}

	overrides := []struct {
		flag   string
		target *string
	}{
		{"ffmpeg", &cfg.FFmpegPath},
		{"ffprobe", &cfg.FFprobePath},
		{"log-level", &cfg.LogLevel},
		{"speed", &cfg.Speed},
		{"dest", &cfg.Destination},
		{"summary", &cfg.Summary},
		{"debug-dir", &cfg.DebugDir},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}
	if c.IsSet("debug-every") {
		cfg.DebugEvery = c.Int("debug-every")
	}
	if c.Bool("continue-on-error") {
		cfg.FailurePolicy = pipeline.ContinueOnError.String()
	}

	var log ports.Logger
	if c.Bool("quiet") || cfg.Level() == ports.LevelQuiet {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(cfg.Level())
	}
	if path := c.String("config"); path != "" {
		log.Debug("Loaded configuration from %s", path)
	}

	return cfg, log, nil
}

// newConverter builds a converter from cfg and checks that ffmpeg is usable.
func newConverter(cfg config.Config, log ports.Logger) (*timelapse.Converter, error) {
	opts, err := cfg.ToOptions(log)
	if err != nil {
		if errors.Is(err, timelapse.ErrSpeedNotChosen) {
			return nil, cli.Exit(l10n.T("Choose a speed with --speed, e.g. --speed 10x"), exitUsage)
		}
		return nil, cli.Exit(err.Error(), exitUsage)
	}

	conv := timelapse.New(opts)
	if err := conv.CheckTools(); err != nil {
		return nil, cli.Exit(l10n.F("ffmpeg is required: %s", err), exitFailure)
	}
	return conv, nil
}

// supportedArgs returns the positional arguments. Any file outside the
// format list rejects the whole invocation.
func supportedArgs(c *cli.Context, log ports.Logger) ([]string, error) {
	files, unsupported := timelapse.FilterSupported(c.Args().Slice())
	if len(unsupported) > 0 {
		for _, p := range unsupported {
			log.Error("Unsupported file %s", p)
		}
		return nil, cli.Exit(l10n.F("Unsupported files: %s (supported: %s)",
			strings.Join(unsupported, ", "), strings.Join(timelapse.SupportedFormats, ", ")), exitUsage)
	}
	if len(files) == 0 {
		return nil, cli.Exit(l10n.T("No video files given"), exitUsage)
	}
	return files, nil
}

// interruptible returns a context canceled on SIGINT or SIGTERM.
func interruptible(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

func runConvert(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	files, err := supportedArgs(c, log)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, log)
	if err != nil {
		return err
	}
	if cfg.DebugDir != "" {
		log.Info("Debug frames will be saved to %s", cfg.DebugDir)
	}

	ctx, cancel := interruptible(log)
	defer cancel()

	var observer ports.ProgressObserver = ports.NopObserver
	var progress *progressPrinter
	if !c.Bool("quiet") {
		progress = newProgressPrinter(os.Stdout)
		observer = progress
	}

	req := conv.Options().Request(files)
	start := time.Now()
	outcome := conv.ConvertAll(ctx, req, observer)
	if progress != nil {
		progress.Finish()
	}

	if cfg.Summary != "" {
		writeSummary(cfg.Summary, req, outcome, time.Since(start), log)
	}

	if !outcome.Succeeded() {
		return cli.Exit(l10n.F("Conversion failed: %s", outcome.Reason()), exitFailure)
	}
	fmt.Fprintln(c.App.Writer, l10n.F("Converted %d files, %d frames written", len(outcome.Files), outcome.FramesWritten()))
	return nil
}

func writeSummary(path string, req pipeline.ConversionRequest, outcome pipeline.BatchOutcome, elapsed time.Duration, log ports.Logger) {
	fs := osfilesystem.New()
	builder := summarizer.NewBuilder().
		WithRequest(req).
		WithOutcome(outcome).
		WithElapsed(elapsed)
	for _, f := range outcome.Files {
		if size, err := fs.Size(f.Target.Path); err == nil {
			builder.WithFileSize(f.Target.Path, size)
		}
	}

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(func(s string) string { return l10n.T(s) }),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, fs).Write(path, builder.Build()); err != nil {
		log.Error("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary written to %s", path)
}

func runValidate(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	files, err := supportedArgs(c, log)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible(log)
	defer cancel()

	result := conv.Validate(ctx, files)
	if !result.Valid {
		if result.FailedPath == "" {
			return cli.Exit(l10n.F("Validation failed: %s", result.Err), exitFailure)
		}
		return cli.Exit(l10n.F("%s is not a readable video: %s", result.FailedPath, result.Err), exitFailure)
	}
	fmt.Fprintln(c.App.Writer, l10n.F("All %d files are readable videos", len(files)))
	return nil
}

func runProbe(c *cli.Context) error {
	cfg, log, err := loadConfig(c)
	if err != nil {
		return err
	}
	files, err := supportedArgs(c, log)
	if err != nil {
		return err
	}
	conv, err := newConverter(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := interruptible(log)
	defer cancel()

	failed := 0
	for _, path := range files {
		info, err := conv.Probe(ctx, path)
		if err != nil {
			failed++
			log.Error("Failed to probe %s: %s", path, err)
			continue
		}
		fmt.Fprintln(c.App.Writer, l10n.F("%s: %dx%d, %.3f fps, %d frames, %s, codec %s",
			path, info.Width, info.Height, info.FPS, info.FrameCount, info.Duration, info.Codec))
	}
	if failed > 0 {
		return cli.Exit(l10n.F("%d of %d files could not be probed", failed, len(files)), exitFailure)
	}
	return nil
}
