package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/shisei-sport/clubsite"
	"github.com/shisei-sport/clubsite/content"
	"github.com/shisei-sport/clubsite/richtext"
	"github.com/shisei-sport/clubsite/seed"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()

	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe(os.Args[2:], log)
	case "seed":
		err = runSeed(os.Args[2:], log)
	case "normalize":
		err = runNormalize(os.Args[2:])
	case "version":
		fmt.Printf("clubsite %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("failed")
		os.Exit(1)
	}
}

func loadConfig(name string, args []string) (clubsite.SiteConfig, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", os.Getenv("CLUB_CONFIG"), "YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return clubsite.SiteConfig{}, nil, err
	}
	var cfg clubsite.SiteConfig
	if *path != "" {
		c, err := clubsite.LoadConfigFile(*path)
		if err != nil {
			return cfg, nil, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}
	if err := clubsite.ApplyEnv(&cfg); err != nil {
		return cfg, nil, err
	}
	return cfg, fs, nil
}

func runServe(args []string, log zerolog.Logger) error {
	cfg, _, err := loadConfig("serve", args)
	if err != nil {
		return err
	}
	app := clubsite.New(cfg, clubsite.WithLogger(log.Level(cfg.Level())))
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

func runSeed(args []string, log zerolog.Logger) error {
	cfg, fs, err := loadConfig("seed", args)
	if err != nil {
		return err
	}
	cfg = clubsite.New(cfg).Config

	var entries []seed.Entry
	if fs.NArg() > 0 {
		entries, err = seed.LoadFile(fs.Arg(0))
		if err != nil {
			return err
		}
	}
	store, err := content.NewStore(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	s := &seed.Seeder{
		Store:    store,
		MediaDir: cfg.MediaDir,
		Log:      log.Level(cfg.Level()),
	}
	n, err := s.Run(context.Background(), entries)
	if err != nil {
		return err
	}
	fmt.Printf("seeded %d documents into %s\n", n, cfg.DatabasePath)
	return nil
}

func runNormalize(args []string) error {
	in := io.Reader(os.Stdin)
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	b, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	out, err := richtext.NormalizeJSON(b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func printUsage() {
	fmt.Println(`clubsite - the Shi-Sei Sport website server

Usage:
  clubsite <command> [arguments]

Commands:
  serve [-config file]          Start the web server
  seed [-config file] [file]    Write demo content, and the YAML file if given, into the local store
  normalize [file]              Normalize a rich-text JSON document from a file or stdin
  version                       Print the version
  help                          Show this help message

Configuration is read from the YAML file and overridden by CLUB_* environment
variables. CLUB_SESSION_SECRET is required for serve.`)
}
