// ABOUTME: Entry point for the resonate-spot client
// ABOUTME: Parses CLI flags, loads config and feeds stdin commands to the actor
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Resonate-Protocol/resonate-spot/internal/config"
	"github.com/Resonate-Protocol/resonate-spot/internal/version"
	"github.com/Resonate-Protocol/resonate-spot/pkg/session"
	"github.com/Resonate-Protocol/resonate-spot/pkg/spot"
	"github.com/sirupsen/logrus"
)

var (
	configFile = flag.String("config", "", "Config file path (default: $HOME/.config/resonate-spot/resonate-spot.toml)")
	apHost     = flag.String("ap", "", "Access point host, overrides ap.host")
	logLevel   = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides log.level")
	logFile    = flag.String("log-file", "", "Also write logs to this file")
)

func main() {
	flag.Parse()

	source := &config.Source{File: *configFile}
	cfg, err := source.Load()
	if err != nil {
		logrus.Fatalf("%v", err)
	}
	if *apHost != "" {
		cfg.Host = *apHost
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	logger.SetLevel(level)

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			logger.Fatalf("error opening log file: %v", err)
		}
		defer f.Close()
		logger.SetOutput(io.MultiWriter(os.Stderr, f))
	}
	log := logrus.NewEntry(logger)

	log.Infof("Starting %s %s (access point %s)", version.Product, version.Version, cfg.Host)

	actor, err := spot.New(spot.Options{
		Settings:       cfg.Settings,
		Delegate:       &logDelegate{log: log.WithField("component", "delegate"), out: os.Stdout},
		SettingsSource: source,
		Session:        session.Config{Host: cfg.Host},
		Log:            log,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	queue := spot.NewCommandQueue()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go watchSignals(sigChan, queue, cancel, log)

	switch {
	case cfg.Username != "" && cfg.Token != "":
		queue.Send(spot.TokenLogin{Username: cfg.Username, Token: cfg.Token})
	case cfg.Username != "" && cfg.Password != "":
		queue.Send(spot.PasswordLogin{Username: cfg.Username, Password: cfg.Password})
	}

	go readCommands(os.Stdin, queue, log)

	if err := actor.Run(ctx, queue.Receive()); err != nil {
		log.Errorf("Actor stopped: %v", err)
	}
	log.Info("Stopped")
}

// watchSignals stops the actor on the first signal. Cancelling ctx
// interrupts a login or fetch in flight, closing the queue ends Run.
func watchSignals(sigs <-chan os.Signal, queue *spot.CommandQueue, cancel context.CancelFunc, log *logrus.Entry) {
	sig := <-sigs
	log.Infof("Received %v signal, shutting down", sig)
	cancel()
	queue.Close()
}

// readCommands feeds stdin lines to the queue until EOF or quit
func readCommands(r io.Reader, queue *spot.CommandQueue, log *logrus.Entry) {
	defer queue.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd, quit, err := parseCommand(scanner.Text())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if quit {
			return
		}
		if cmd == nil {
			continue
		}
		if err := queue.Send(cmd); err != nil {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warnf("stdin: %v", err)
	}
}
