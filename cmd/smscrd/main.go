// Command smscrd runs the self-hosted application server: it loads
// configuration, binds a listener, and serves static files, registered
// workers, and Smart Script documents until interrupted.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/adrg/xdg"

	"github.com/smscr/smscrd/applog"
	"github.com/smscr/smscrd/config"
	"github.com/smscr/smscrd/dispatch"
	"github.com/smscr/smscrd/instance"
	"github.com/smscr/smscrd/internal/workers"
	"github.com/smscr/smscrd/server"
	"github.com/smscr/smscrd/session"
	"github.com/smscr/smscrd/worker"
)

var configPath = flag.String("config", "", "path to the server configuration file")
var logPath = flag.String("log", "", "log to file")

func main() {
	flag.Parse()

	closeLog, err := applog.Init(*logPath)
	if err != nil {
		exitWithError(err)
	}
	defer closeLog()

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(xdg.ConfigHome, "smscrd", "smscrd.yaml")
	}
	cfg, err := config.LoadOrCreate(cfgPath)
	if err != nil {
		exitWithError(err)
	}

	lockPath := filepath.Join(xdg.RuntimeDir, "smscrd.lock")
	release, err := instance.AcquireLock(lockPath)
	if err != nil {
		exitWithError(fmt.Errorf("another smscrd instance is already running: %w", err))
	}
	defer release()

	if err := runServer(cfg); err != nil {
		exitWithError(err)
	}
}

func runServer(cfg config.Config) error {
	mimeMap := config.DefaultMimeMap()
	if cfg.Server.MimeConfig != "" {
		m, err := config.LoadMimeMap(cfg.Server.MimeConfig)
		if err != nil {
			return err
		}
		for ext, mime := range m {
			mimeMap[ext] = mime
		}
	}

	workerMap := map[string]string{}
	if cfg.Server.Workers != "" {
		m, err := config.LoadWorkerMap(cfg.Server.Workers)
		if err != nil {
			return err
		}
		workerMap = m
	}

	registry := worker.NewRegistry()
	registry.Register("echo", func() worker.Worker { return workers.NewEcho() })
	registry.Register("numberguess", func() worker.Worker { return workers.NewNumberGuess(100) })

	sessionTimeout := time.Duration(cfg.Session.TimeoutSeconds) * time.Second
	sessions := session.NewRegistry(sessionTimeout)
	sessions.StartSweep(5*time.Minute, func(evicted int) {
		if evicted > 0 {
			log.Printf("session sweep: evicted %d expired session(s)", evicted)
		}
	})
	defer sessions.Stop()

	d := dispatch.New(dispatch.Config{
		DocumentRoot:   cfg.Server.DocumentRoot,
		MimeMap:        mimeMap,
		WorkerMap:      workerMap,
		Workers:        registry,
		Sessions:       sessions,
		SessionTimeout: sessionTimeout,
	})

	addr := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen %s: %w", addr, err)
	}

	workerThreads := cfg.Server.WorkerThreads
	if workerThreads < 1 {
		workerThreads = 1
	}
	pool := server.New(ln, workerThreads, d.HandleConnection)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Printf("smscrd: shutting down")
		pool.Stop()
	}()

	log.Printf("smscrd: listening on %s", addr)
	return pool.Run()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
