// Copyright (c) 2023 The Cheddar developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"strings"

	log15 "github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/alpha-fi/cheddar-farm/api"
	"github.com/alpha-fi/cheddar-farm/cheddar"
	"github.com/alpha-fi/cheddar-farm/farm"
	"github.com/alpha-fi/cheddar-farm/kv"
	"github.com/alpha-fi/cheddar-farm/metrics"
	"github.com/alpha-fi/cheddar-farm/state"
	"github.com/alpha-fi/cheddar-farm/token"
	"github.com/alpha-fi/cheddar-farm/vesting"
)

var (
	version   string
	gitCommit string
	log       = log15.New()
)

func fullVersion() string {
	if version == "" {
		version = "dev"
	}
	if gitCommit == "" {
		return version
	}
	return fmt.Sprintf("%s-%.8s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "cheddar-farmd",
		Usage:     "Cheddar token farming daemon",
		Copyright: "2023 The Cheddar developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			metricsAddrFlag,
			enableMetricsFlag,
			cacheFlag,
			verbosityFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}

	mainDB := openMainDB(ctx)
	defer func() { log.Info("closing main database..."); mainDB.Close() }()

	clock := farm.SystemClock
	ledgerState := state.New(kv.Bucket("ledger").NewStore(mainDB))
	vest := vesting.NewLedger(ledgerState)

	var vestingToken cheddar.Address
	if cfg.VestingToken != "" {
		addr, err := cheddar.ParseAddress(cfg.VestingToken)
		if err != nil {
			return errors.WithMessage(err, "vesting token")
		}
		vestingToken = *addr
	}
	ledger := token.NewLedger(ledgerState, vest, vestingToken, clock)

	farms, err := buildFarms(cfg, mainDB, ledger, clock)
	if err != nil {
		return err
	}

	runCtx := exitContext()
	var group errgroup.Group
	group.Go(func() error {
		origins := strings.Split(ctx.String(apiCorsFlag.Name), ",")
		handler := api.New(farms, ledger, vest, clock, origins)
		return serveHTTP(runCtx, ctx.String(apiAddrFlag.Name), "api", handler)
	})
	if ctx.Bool(enableMetricsFlag.Name) {
		group.Go(func() error {
			return serveHTTP(runCtx, ctx.String(metricsAddrFlag.Name), "metrics", metrics.HTTPHandler())
		})
	}
	return group.Wait()
}

// buildFarms opens each configured farm over its own keyspace, writing the
// terms on first start.
func buildFarms(cfg *config, db kv.GetPutter, ledger *token.Ledger, clock farm.Clock) (map[string]*farm.Farm, error) {
	farms := make(map[string]*farm.Farm, len(cfg.Farms))
	for _, fc := range cfg.Farms {
		terms, err := fc.terms()
		if err != nil {
			return nil, errors.WithMessagef(err, "farm %q", fc.Name)
		}
		farmAddr := cheddar.BytesToAddress([]byte("farm:" + fc.Name))
		if err := ledger.RegisterAccount(farmAddr); err != nil {
			return nil, err
		}
		st := state.New(kv.Bucket("farm:" + fc.Name + "/").NewStore(db))
		f := farm.New(farmAddr, st, ledger.Account(farmAddr), ledger, clock)
		if err := f.Init(terms); err != nil {
			if !errors.Is(err, farm.ErrAlreadyInitialized) {
				return nil, errors.WithMessagef(err, "farm %q", fc.Name)
			}
			log.Debug("farm already initialized", "farm", fc.Name)
		} else {
			log.Info("farm initialized", "farm", fc.Name, "start", terms.Start, "end", terms.End)
		}
		farms[fc.Name] = f
	}
	return farms, nil
}
