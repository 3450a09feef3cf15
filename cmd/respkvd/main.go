// Command respkvd runs the key-value server: it loads configuration,
// wires the store/dispatch/maintenance/orchestration layers together,
// and serves RESP3 connections until an interrupt or termination signal
// asks it to shut down, mirroring the teacher's cmd/main.go startup
// sequence (config -> state -> listeners -> signal handling -> accept
// loop -> drain).
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/akashmaji946/respkv/internal/config"
	"github.com/akashmaji946/respkv/internal/dispatch"
	"github.com/akashmaji946/respkv/internal/logging"
	"github.com/akashmaji946/respkv/internal/maintenance"
	"github.com/akashmaji946/respkv/internal/observability"
	"github.com/akashmaji946/respkv/internal/orchestration"
	"github.com/akashmaji946/respkv/internal/pool"
	"github.com/akashmaji946/respkv/internal/respserver"
)

// infoReportInterval is how often --info prints a snapshot to stdout.
const infoReportInterval = 10 * time.Second

const banner = `respkvd — in-memory RESP3 key-value server`

func main() {
	os.Exit(run())
}

func run() int {
	fmt.Println(banner)

	cfg := config.Default()
	fs := pflag.NewFlagSet("respkvd", pflag.ContinueOnError)
	infoFlag := fs.Bool("info", false, "periodically print a server introspection snapshot to stdout")
	if err := config.ParseFlags(fs, os.Args[1:], cfg); err != nil {
		fmt.Fprintln(os.Stderr, "respkvd: config:", err)
		return 1
	}

	log := logging.New(levelFromName(cfg.LogLevel))
	defer log.Sync()

	log.Info("starting", "port", cfg.Port, "num_databases", cfg.NumDatabases)

	if cfg.NumDatabases == 0 {
		log.Critical("num_databases must be at least 1")
		return 1
	}

	server := respserver.New(int(cfg.NumDatabases))
	bufPool := pool.New(cfg.BufferPoolBaseSize, cfg.BufferPoolBuckets, 16)
	dispatcher := dispatch.New(server, log)
	worker := maintenance.New(server, log, cfg.MaintenanceMaxSamples)

	addr := fmt.Sprintf("%s:%d", cfg.Bind, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		log.Critical("failed to listen", "addr", addr, "error", err)
		return 1
	}
	log.Info("listening", "addr", addr)

	sweepInterval := time.Duration(cfg.CleanupIntervalSeconds) * time.Second
	orch := orchestration.New(listener, dispatcher, bufPool, worker, log, sweepInterval)

	if *infoFlag {
		startedAt := time.Now()
		builder := observability.NewBuilder(server, orch.Connections(), startedAt)
		go reportSnapshots(builder)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	go func() {
		sig := <-sigCh
		log.Warn("signal received, shutting down", "signal", sig.String())
		orch.Shutdown()
	}()

	orch.Run()
	log.Info("shutdown complete")
	return 0
}

// reportSnapshots prints an INFO-style introspection snapshot to stdout on
// a fixed interval, the CLI-facing consumer of the observability snapshot
// builder (SPEC_FULL.md §6.4).
func reportSnapshots(builder *observability.Builder) {
	ticker := time.NewTicker(infoReportInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		fmt.Print(builder.Build(now).String())
	}
}

func levelFromName(name string) logging.Level {
	switch name {
	case "trace":
		return logging.LevelTrace
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	case "critical":
		return logging.LevelCritical
	default:
		return logging.LevelInfo
	}
}
