// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/helixstake/helix/eventdb"
	"github.com/helixstake/helix/log"
	"github.com/helixstake/helix/metrics"
)

func fatal(args ...any) {
	fmt.Fprint(os.Stderr, "Fatal: ")
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".helix")
}

// verbosityToLevel maps the 0-5 cli scale onto slog levels.
func verbosityToLevel(verbosity uint64) slog.Level {
	switch verbosity {
	case 0:
		return log.LevelCrit
	case 1:
		return log.LevelError
	case 2:
		return log.LevelWarn
	case 3:
		return log.LevelInfo
	case 4:
		return log.LevelDebug
	default:
		return log.LevelTrace
	}
}

func initLogger(ctx *cli.Context) {
	var level slog.LevelVar
	level.Set(verbosityToLevel(ctx.Uint64(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func openEventDB(ctx *cli.Context) *eventdb.EventDB {
	if !ctx.Bool(persistFlag.Name) {
		db, err := eventdb.NewMem()
		if err != nil {
			fatal("open in-memory event database:", err)
		}
		return db
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal("unable to infer default data dir, use --data-dir to specify one")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal("create data dir:", err)
	}
	path := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal("open event database at '"+path+"':", err)
	}
	return db
}

// startServer serves the handler on addr and returns the bound URL and a
// graceful-shutdown func.
func startServer(addr string, handler http.Handler) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}

	srv := &http.Server{Handler: handler}
	go func() {
		srv.Serve(listener)
	}()

	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
	return "http://" + listener.Addr().String() + "/", stop, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	metrics.InitializePrometheusMetrics()

	router := http.NewServeMux()
	router.Handle("/metrics", metrics.HTTPHandler())
	return startServer(addr, router)
}

// handleExitSignal returns a context cancelled on SIGINT/SIGTERM.
func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
