package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/paperscope/pkg/config"
	"github.com/umputun/paperscope/pkg/content"
	"github.com/umputun/paperscope/pkg/digest"
	"github.com/umputun/paperscope/pkg/feed"
	"github.com/umputun/paperscope/pkg/llm"
	"github.com/umputun/paperscope/pkg/mailer"
	"github.com/umputun/paperscope/pkg/pipeline"
	"github.com/umputun/paperscope/pkg/snapshot"
	"github.com/umputun/paperscope/server"
)

// Opts with all CLI options
type Opts struct {
	Email    string   `short:"e" long:"email" env:"EMAIL" description:"sender email address, also the smtp login"`
	Token    string   `short:"t" long:"token" env:"TOKEN" description:"smtp authorization token of the sender"`
	Receiver string   `short:"r" long:"receiver" env:"RECEIVER" description:"digest receiver email address"`
	Keywords []string `short:"k" long:"keyword" env:"KEYWORDS" env-delim:"," description:"keyword to match in titles and abstracts, repeatable"`
	Domain   string   `short:"d" long:"domain" env:"DOMAIN" description:"target domain for relevance scoring, overrides config"`
	Config   string   `short:"c" long:"config" env:"CONFIG" description:"config file (yaml)"`

	RSS     string `long:"rss" env:"RSS" description:"also write the digest as RSS to this file"`
	RSSBase string `long:"rss-base" env:"RSS_BASE" default:"http://localhost:8080" description:"base url for links of the RSS file"`
	DryRun  bool   `long:"dry-run" description:"render digest to --out file, skip delivery"`
	Out     string `long:"out" default:"digest.html" description:"output file for dry-run"`
	Serve   bool   `long:"serve" description:"publish digest to the preview server instead of email"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

// snapshotStore is the storage used by both the pipeline and the preview server
type snapshotStore interface {
	pipeline.SnapshotStore
	server.SnapshotReader
}

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor, opts.Token, os.Getenv("DASHSCOPE_API_KEY"))

	log.Printf("[INFO] starting paperscope version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] completed")
}

// run wires collaborators from config and options and executes one daily pass.
// In serve mode it keeps serving the published digest until ctx is canceled.
func run(ctx context.Context, opts Opts) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Domain != "" {
		cfg.Pipeline.Domain = opts.Domain
	}
	if err := checkOpts(opts); err != nil {
		return err
	}

	store, closeStore, err := makeSnapshotStore(ctx, cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to make snapshot store: %w", err)
	}
	defer closeStore()

	enricher := llm.NewEnricher(cfg.LLM)
	if !enricher.Enabled() {
		lgr.Printf("[WARN] llm api key is not set, papers will be delivered without enrichment")
	}

	renderer, err := digest.NewHTMLRenderer()
	if err != nil {
		return fmt.Errorf("failed to make renderer: %w", err)
	}

	publisher := &server.Publisher{}
	var deliverer pipeline.Deliverer
	switch {
	case opts.Serve:
		deliverer = publisher
	case opts.DryRun:
		deliverer = fileWriter{path: opts.Out}
	default:
		smtp, err := mailer.New(mailer.Params{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			TLS:      cfg.SMTP.TLS,
			Timeout:  cfg.SMTP.Timeout,
			From:     opts.Email,
			Password: opts.Token,
			To:       opts.Receiver,
		})
		if err != nil {
			return fmt.Errorf("failed to make mailer: %w", err)
		}
		deliverer = smtp
	}

	p := pipeline.New(pipeline.Config{
		Fetcher:   makeFetcher(cfg),
		Store:     store,
		Enricher:  enricher,
		Renderer:  renderer,
		Deliverer: deliverer,
		Keywords:  opts.Keywords,
		Domain:    cfg.Pipeline.Domain,
		Subject:   cfg.Pipeline.Subject,
		Delay:     cfg.Pipeline.Delay,
	})

	res, err := p.Run(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("pipeline aborted: %w", err)
	}
	report(os.Stdout, res)

	if res.Status == pipeline.StatusDelivered && opts.RSS != "" {
		if err := writeRSS(opts.RSS, opts.RSSBase, res); err != nil {
			return err
		}
	}

	if !opts.Serve {
		return nil
	}
	publisher.SetDigest(res.Digest)
	srv := server.New(cfg, store, publisher, revision, opts.Debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// checkOpts verifies delivery options, those are needed only when the digest goes out by email
func checkOpts(opts Opts) error {
	if len(opts.Keywords) == 0 {
		lgr.Printf("[WARN] no keywords set, nothing can match")
	}
	if opts.DryRun || opts.Serve {
		return nil
	}
	var errs []error
	if opts.Email == "" {
		errs = append(errs, errors.New("sender email (-e) is required"))
	}
	if opts.Token == "" {
		errs = append(errs, errors.New("sender token (-t) is required"))
	}
	if opts.Receiver == "" {
		errs = append(errs, errors.New("receiver email (-r) is required"))
	}
	if len(opts.Keywords) == 0 {
		errs = append(errs, errors.New("at least one keyword (-k) is required"))
	}
	return errors.Join(errs...)
}

func makeSnapshotStore(ctx context.Context, cfg config.SnapshotConfig) (snapshotStore, func(), error) {
	if cfg.Backend == "sqlite" {
		store, err := snapshot.NewSQLStore(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := store.Close(); err != nil {
				lgr.Printf("[WARN] failed to close snapshot db: %v", err)
			}
		}
		return store, closeFn, nil
	}
	return snapshot.NewFileStore(cfg.Dir), func() {}, nil
}

func makeFetcher(cfg *config.Config) *feed.Fetcher {
	params := feed.FetcherParams{
		Sources:     cfg.GetFeeds(),
		Parser:      feed.NewParser(cfg.Feeds.Timeout, cfg.Feeds.UserAgent),
		Concurrency: cfg.Feeds.Concurrency,
	}
	if cfg.Extraction.Enabled {
		params.Extractor = content.NewExtractor(cfg.Extraction.Timeout, "")
	}
	return feed.NewFetcher(params)
}

// report prints the run outcome to the console
func report(w io.Writer, res pipeline.Result) {
	if res.Status == pipeline.StatusNothingToReport {
		fmt.Fprintln(w, "no new papers matched the keywords today, nothing to send")
		return
	}
	fmt.Fprintf(w, "digest %s: %d fetched, %d seen yesterday, %d matched, %d enriched, %d degraded\n",
		res.Status, res.Fetched, res.Duplicates, res.Matched, res.Enriched, res.Degraded)
}

func writeRSS(path, baseURL string, res pipeline.Result) error {
	rss, err := feed.NewGenerator(baseURL).GenerateRSS(res.Digest)
	if err != nil {
		return fmt.Errorf("failed to generate rss: %w", err)
	}
	if err := os.WriteFile(path, []byte(rss), 0o644); err != nil { //nolint:gosec // rss file is public
		return fmt.Errorf("failed to write rss file: %w", err)
	}
	lgr.Printf("[INFO] rss written to %s", path)
	return nil
}

// fileWriter is a dry-run delivery target, it writes the rendered digest to a file
type fileWriter struct {
	path string
}

// Deliver writes the digest body
func (f fileWriter) Deliver(_ context.Context, subject, body string) error {
	if err := os.WriteFile(f.path, []byte(body), 0o644); err != nil { //nolint:gosec // digest is not sensitive
		return fmt.Errorf("write digest to %s: %w", f.path, err)
	}
	lgr.Printf("[INFO] digest %q written to %s", subject, f.path)
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if noColor {
		color.NoColor = true
	} else {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}

	var secrets []string
	for _, s := range secs {
		if strings.TrimSpace(s) != "" {
			secrets = append(secrets, s)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
