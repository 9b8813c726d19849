package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/doknotforget/doknotforget/internal/config"
	"github.com/doknotforget/doknotforget/internal/engine"
	"github.com/doknotforget/doknotforget/internal/export"
	"github.com/doknotforget/doknotforget/internal/importer"
	"github.com/doknotforget/doknotforget/internal/server"
	"github.com/doknotforget/doknotforget/internal/store"
)

// main delegates to runMain so deferred cleanup (log files, the database)
// runs before the process terminates. os.Exit() does not run defers, so we
// must return an integer code first.
func main() {
	os.Exit(runMain())
}

// options holds the parsed CLI flags.
type options struct {
	dbPath    string
	port      string
	refDate   string
	importSrc string
	printFeed bool
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// ---------------------------------------------------------------------
	// 1. CLI Argument Parsing & Environment
	// ---------------------------------------------------------------------
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	opts := options{}
	flag.StringVar(&opts.dbPath, config.FlagDB, os.Getenv(config.EnvDBPath), config.FlagDescDB)
	flag.StringVar(&opts.port, config.FlagPort, envOr(config.EnvServerPort, config.DefaultPort), config.FlagDescPort)
	flag.StringVar(&opts.refDate, config.FlagDate, "", config.FlagDescDate)
	flag.StringVar(&opts.importSrc, config.FlagImport, "", config.FlagDescImport)
	flag.BoolVar(&opts.printFeed, config.FlagPrint, false, config.FlagDescPrint)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// ---------------------------------------------------------------------
	// 2. Logging Initialization
	// ---------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close() // Best effort close
		}()
	}

	// ---------------------------------------------------------------------
	// 3. Context & Signal Handling
	// ---------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// ---------------------------------------------------------------------
	// 4. Application Logic
	// ---------------------------------------------------------------------
	if err := run(ctx, opts); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires dependencies and dispatches to the one-shot modes or the server
// loop.
func run(ctx context.Context, opts options) error {
	dbPath, err := resolveDBPath(opts.dbPath)
	if err != nil {
		return err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if opts.importSrc != "" {
		return runImport(ctx, st, opts.importSrc)
	}

	gen := engine.NewGenerator()
	refDate, err := resolveRefDate(opts.refDate, gen.Clock)
	if err != nil {
		return err
	}

	if opts.printFeed {
		return printFeed(ctx, os.Stdout, st, gen, refDate)
	}

	return serveFeed(ctx, st, gen, opts.port, opts.refDate != "", refDate)
}

// runImport imports contacts and persists them, then exits.
func runImport(ctx context.Context, st *store.Store, source string) error {
	people, err := importer.New().Import(ctx, source)
	if err != nil {
		return err
	}
	for _, person := range people {
		if err := st.SavePerson(ctx, person); err != nil {
			return err
		}
	}
	return nil
}

// renderFeeds computes the suppressed suggestion feed and the ICS card feed
// for the given reference date.
func renderFeeds(ctx context.Context, st *store.Store, gen *engine.Generator, ref time.Time) (jsonData, icsData []byte, err error) {
	people, err := st.LoadPeople(ctx)
	if err != nil {
		return nil, nil, err
	}
	state, err := st.Suppressions(ctx)
	if err != nil {
		return nil, nil, err
	}

	suggestions := state.Filter(gen.SuggestionsAt(people, ref), ref)
	jsonData, err = json.Marshal(suggestions)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", config.ErrFeedEncode, err)
	}

	exporter := &export.Exporter{}
	icsData, err = exporter.ICS(gen.CardsAt(people, ref), ref)
	if err != nil {
		return nil, nil, err
	}
	return jsonData, icsData, nil
}

// printFeed writes the suggestion feed as JSON to w, then exits.
func printFeed(ctx context.Context, w io.Writer, st *store.Store, gen *engine.Generator, ref time.Time) error {
	jsonData, _, err := renderFeeds(ctx, st, gen, ref)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}

// serveFeed starts the HTTP server and the background refresh worker. With a
// fixed reference date override the worker still refreshes (people may
// change), but always renders relative to the override.
func serveFeed(ctx context.Context, st *store.Store, gen *engine.Generator, port string, refFixed bool, ref time.Time) error {
	srv := server.NewFeedServer(port)

	refresh := func() {
		at := ref
		if !refFixed {
			at = gen.Clock.Now()
		}
		slog.Debug(config.MsgFeedRefresh,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyRefDate, at.Format(config.DateFormatISO),
		)
		jsonData, icsData, err := renderFeeds(ctx, st, gen, at)
		if err != nil {
			slog.Error(config.ErrFeedEncode,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err,
			)
			return
		}
		srv.UpdateJSON(jsonData)
		srv.UpdateICS(icsData)
	}

	refresh()

	go func() {
		slog.Info(config.MsgWorkerStart, config.LogKeyComponent, config.CompWorker)
		ticker := time.NewTicker(config.DefaultRefreshMin * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.Info(config.MsgWorkerStop, config.LogKeyComponent, config.CompWorker)
				return
			case <-ticker.C:
				refresh()
			}
		}
	}()

	return srv.Start(ctx)
}

// resolveDBPath falls back to a per-user application directory.
func resolveDBPath(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}

	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(appDir, config.DefaultDBFileName), nil
}

// resolveRefDate parses the optional reference date override.
func resolveRefDate(value string, clock engine.Clock) (time.Time, error) {
	if value == "" {
		return clock.Now(), nil
	}
	t, err := time.ParseInLocation(config.DateFormatISO, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", config.ErrRefDateParse, err)
	}
	return t, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	// 1. Always write to Stdout.
	writers = append(writers, os.Stdout)

	// 2. Attempt to set up a file writer in the user's cache directory.
	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
