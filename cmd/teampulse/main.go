package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/teampulse-io/teampulse/internal/analytics"
	"github.com/teampulse-io/teampulse/internal/api"
	"github.com/teampulse-io/teampulse/internal/config"
	"github.com/teampulse-io/teampulse/internal/cron"
	"github.com/teampulse-io/teampulse/internal/feed"
	"github.com/teampulse-io/teampulse/internal/metrics"
	"github.com/teampulse-io/teampulse/internal/reassign"
	"github.com/teampulse-io/teampulse/internal/refresher"
	"github.com/teampulse-io/teampulse/internal/seed"
	"github.com/teampulse-io/teampulse/internal/store/jsonfile"
)

// Build-time variables set via -ldflags
var (
	version = "dev"
	commit  = "unknown"
)

const (
	exitSuccess       = 0
	exitRuntimeError  = 1
	exitInvalidConfig = 2
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitRuntimeError)
	}

	cmd := os.Args[1]

	switch cmd {
	case "serve":
		os.Exit(runServe())
	case "validate":
		os.Exit(runValidate())
	case "config":
		os.Exit(runConfig())
	case "seed":
		os.Exit(runSeed(os.Args[2:]))
	case "fetch-google":
		os.Exit(runFetchGoogle())
	case "version":
		os.Exit(runVersion())
	case "--help", "-h", "help":
		printUsage()
		os.Exit(exitSuccess)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(exitRuntimeError)
	}
}

func printUsage() {
	fmt.Println(`teampulse - team availability and task reassignment service

Usage:
  teampulse <command>

Commands:
  serve         Start the HTTP server and the feed refresher
  validate      Validate configuration (no files touched)
  config        Print effective configuration as JSON (secrets masked)
  seed          Generate a demo roster, tasks, and calendar feeds
  fetch-google  Pull live Google Calendar events into the CSV feed
  version       Print version information

Environment Variables:
  HTTP_ADDR                 HTTP server address (default: ":8080")
  DATA_DIR                  Directory for store and feed files (default: "data")
  STORE_PATH                Roster and task store (default: DATA_DIR/teampulse.json)
  GOOGLE_JSON_PATH          Google Calendar JSON feed (default: DATA_DIR/google_calendar_events.json)
  GOOGLE_CSV_PATH           Google Calendar CSV feed (default: DATA_DIR/google_calendar_events.csv)
  MS_JSON_PATH              Microsoft Graph JSON feed (default: DATA_DIR/microsoft_calendar_events.json)
  ICS_PATH                  Optional ICS feed (disabled when empty)

  REFRESH_SCHEDULE          Cron schedule for feed refreshes (default: "*/15 * * * *")
  WEIGHTS_FILE              Optional YAML file overriding scoring weights
  TOP_N_DEFAULT             Default suggestion count per task (default: "3")

  METRICS_ENABLED           Enable Prometheus metrics (default: "false")
  METRICS_PATH              Metrics endpoint path (default: "/metrics")
  REDIS_ADDR                Redis address for reassignment analytics (optional)
  HTTP_SHUTDOWN_TIMEOUT     Graceful HTTP shutdown timeout (default: "10s")

  GOOGLE_API_KEY            API key for fetch-google (optional)
  GOOGLE_CALENDAR_ID        Calendar to fetch (required with GOOGLE_API_KEY)
  FETCH_WINDOW_DAYS         Days of events fetch-google pulls (default: "60")`)
}

func runServe() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitInvalidConfig
	}

	store := jsonfile.New(cfg.StorePath)

	schedule, err := cron.Parse(cfg.RefreshSchedule)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid refresh schedule: %v\n", err)
		return exitInvalidConfig
	}

	weights := reassign.DefaultWeights()
	if cfg.WeightsFile != "" {
		weights, err = reassign.LoadWeights(cfg.WeightsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load weights: %v\n", err)
			return exitInvalidConfig
		}
		log.Printf("teampulse: scoring weights loaded from %s", cfg.WeightsFile)
	}

	var sink metrics.Sink = metrics.NewNoopSink()
	if cfg.MetricsEnabled {
		sink = metrics.NewPrometheusSink(prometheus.DefaultRegisterer)
		log.Printf("teampulse: metrics enabled (path=%s)", cfg.MetricsPath)
	} else {
		log.Println("teampulse: METRICS_ENABLED not set; metrics disabled")
	}

	loader := feed.NewLoader(feed.Paths{
		GoogleJSON:    cfg.GoogleJSONPath,
		GoogleCSV:     cfg.GoogleCSVPath,
		MicrosoftJSON: cfg.MSJSONPath,
		ICS:           cfg.ICSPath,
	}, store, sink)

	refr := refresher.New(schedule, loader, sink)

	apiHandler := api.NewHandler(store, refr, weights, cfg.TopNDefault, sink)

	// Wire analytics if Redis is configured
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		})
		apiHandler = apiHandler.WithAuditRecorder(analytics.NewRedisSink(redisClient))
		log.Printf("teampulse: analytics enabled (redis=%s)", cfg.RedisAddr)
	} else {
		log.Println("teampulse: REDIS_ADDR not set; analytics disabled")
	}

	mux := http.NewServeMux()
	if cfg.MetricsEnabled {
		mux.Handle(cfg.MetricsPath, promhttp.Handler())
	}
	mux.Handle("/", apiHandler)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		log.Printf("teampulse: http server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("teampulse: http server error: %v", err)
		}
	}()

	refresherCtx, cancelRefresher := context.WithCancel(context.Background())
	var refresherWg sync.WaitGroup

	refresherWg.Add(1)
	go func() {
		defer refresherWg.Done()
		if err := refr.Run(refresherCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("teampulse: refresher error: %v", err)
		}
	}()

	log.Printf("teampulse: started (schedule=%q, store=%s, http=%s)",
		cfg.RefreshSchedule, cfg.StorePath, cfg.HTTPAddr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	received := <-sig

	log.Printf("teampulse: received signal %v, shutting down", received)

	// Phase 1: Stop the refresher (no new snapshots)
	log.Println("teampulse: stopping refresher...")
	cancelRefresher()
	refresherWg.Wait()
	log.Println("teampulse: refresher stopped")

	// Phase 2: Stop HTTP server with graceful shutdown
	log.Println("teampulse: stopping http server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("teampulse: http server shutdown error: %v", err)
	}
	log.Println("teampulse: http server stopped")

	log.Println("teampulse: stopped")
	return exitSuccess
}

func runValidate() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return exitInvalidConfig
	}

	fmt.Println("configuration valid")
	return exitSuccess
}

func runConfig() int {
	cfg := config.Load()

	data, err := cfg.MaskedJSON()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal config: %v\n", err)
		return exitRuntimeError
	}

	fmt.Println(string(data))
	return exitSuccess
}

func runSeed(args []string) int {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	employees := fs.Int("employees", seed.DefaultEmployees, "number of roster entries")
	days := fs.Int("days", seed.DefaultDaysOut, "how far ahead events are spread")
	seedVal := fs.Int64("seed", 0, "random seed (0 picks one)")
	if err := fs.Parse(args); err != nil {
		return exitInvalidConfig
	}

	cfg := config.Load()

	ds, err := seed.Generate(seed.Options{
		Employees: *employees,
		DaysOut:   *days,
		Seed:      *seedVal,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate dataset: %v\n", err)
		return exitRuntimeError
	}

	paths := seed.Paths{
		Store:         cfg.StorePath,
		GoogleJSON:    cfg.GoogleJSONPath,
		GoogleCSV:     cfg.GoogleCSVPath,
		MicrosoftJSON: cfg.MSJSONPath,
	}
	if err := seed.WriteFiles(ds, paths); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		return exitRuntimeError
	}

	fmt.Printf("seeded %d employees and %d tasks into %s\n", len(ds.Roster), len(ds.Tasks), cfg.StorePath)
	fmt.Printf("wrote feeds: %s, %s, %s\n", cfg.GoogleJSONPath, cfg.GoogleCSVPath, cfg.MSJSONPath)
	return exitSuccess
}

func runFetchGoogle() int {
	cfg := config.Load()

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return exitInvalidConfig
	}
	if cfg.GoogleAPIKey == "" {
		fmt.Fprintln(os.Stderr, "GOOGLE_API_KEY is required for fetch-google")
		return exitInvalidConfig
	}

	fetcher := feed.NewGoogleFetcher(cfg.GoogleAPIKey, cfg.GoogleCalendarID, cfg.GoogleCSVPath, cfg.FetchWindowDays)
	n, err := fetcher.Fetch(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", err)
		return exitRuntimeError
	}

	fmt.Printf("fetched %d events from %s into %s\n", n, cfg.GoogleCalendarID, cfg.GoogleCSVPath)
	return exitSuccess
}

func runVersion() int {
	fmt.Printf("teampulse version %s (commit: %s)\n", version, commit)
	return exitSuccess
}
