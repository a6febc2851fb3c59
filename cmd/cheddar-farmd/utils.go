// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log15 "github.com/inconshreveable/log15"
	isatty "github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/alpha-fi/cheddar-farm/kv"
)

func fatal(args ...interface{}) {
	var w io.Writer
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	} else {
		w = io.MultiWriter(os.Stdout, os.Stderr)
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) {
	logLevel := ctx.Int(verbosityFlag.Name)
	format := log15.LogfmtFormat()
	if isatty.IsTerminal(os.Stderr.Fd()) {
		format = log15.TerminalFormat()
	}
	log15.Root().SetHandler(log15.LvlFilterHandler(
		log15.Lvl(logLevel),
		log15.StreamHandler(os.Stderr, format)))
}

func openMainDB(ctx *cli.Context) kv.GetPutCloser {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		log.Warn("no data-dir given, ledger state will not persist")
		return kv.NewMem()
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal("create data dir:", err)
	}
	db, err := kv.NewLevelDB(filepath.Join(dataDir, "main.db"), ctx.Int(cacheFlag.Name), 512)
	if err != nil {
		fatal("open main database:", err)
	}
	return db
}

// serveHTTP runs an http server until ctx is done, then drains it.
func serveHTTP(ctx context.Context, addr, name string, handler http.Handler) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: handler}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()
	log.Info(name+" service started", "listen", "http://"+listener.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// exitContext is canceled on SIGINT or SIGTERM.
func exitContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		log.Info("exit signal received")
		cancel()
	}()
	return ctx
}
