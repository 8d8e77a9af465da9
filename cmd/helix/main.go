// Copyright (c) 2026 The Helix developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"math/big"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/helixstake/helix/api"
	stakingapi "github.com/helixstake/helix/api/staking"
	"github.com/helixstake/helix/api/subscriptions"
	"github.com/helixstake/helix/fortest"
	"github.com/helixstake/helix/helix"
	"github.com/helixstake/helix/log"
	"github.com/helixstake/helix/staking"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// keeperAccount signs permissionless halving checks; it holds no
	// capability and no stake.
	keeperAccount = helix.BytesToAddress([]byte("keeper"))
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Helix",
		Usage:     "Staking and validator-governance engine",
		Copyright: "2026 The Helix developers",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			keeperIntervalFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// multiSink fans committed events out to several sinks. The first error is
// reported; remaining sinks still receive the batch.
type multiSink []staking.EventSink

func (m multiSink) SaveEvents(events []*staking.Event) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.SaveEvents(events); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		fatal(err)
	}
	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		fatal(err)
	}
	table, err := cfg.TierTable()
	if err != nil {
		fatal(err)
	}
	authority, err := cfg.Authority()
	if err != nil {
		fatal(err)
	}

	// in-memory collaborators; every dev account starts funded
	custody := fortest.NewCustody()
	devBalance := new(big.Int).Mul(helix.LowStakeThreshold, big.NewInt(1000))
	for _, acc := range fortest.Accounts {
		custody.Mint(acc, devBalance)
	}
	projects := fortest.NewProjects(cfg.Projects...)

	edb := openEventDB(ctx)
	defer func() { logger.Info("closing event database..."); edb.Close() }()

	broadcaster := subscriptions.NewBroadcaster()
	defer broadcaster.Close()

	engine := staking.New(
		engineCfg,
		table,
		authority,
		custody,
		projects,
		fortest.NewSink(),
		fortest.NewNFT(),
		fortest.NewGovernance(),
		fortest.NewAdvisor(),
		multiSink{edb, broadcaster},
	)
	resource := stakingapi.New(engine, edb)

	apiHandler, closeAPI := api.New(resource, broadcaster, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	apiURL, stopAPI, err := startServer(ctx.String(apiAddrFlag.Name), apiHandler)
	if err != nil {
		fatal("start API server:", err)
	}
	defer func() { logger.Info("stopping API server..."); stopAPI(); closeAPI() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metricsURL, stopMetrics, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			fatal("start metrics server:", err)
		}
		logger.Info("metrics server started", "url", metricsURL)
		defer func() { logger.Info("stopping metrics server..."); stopMetrics() }()
	}

	printStartupMessage(apiURL, edb.Path())

	exitCtx := handleExitSignal()
	group, groupCtx := errgroup.WithContext(exitCtx)

	if interval := ctx.Uint64(keeperIntervalFlag.Name); interval > 0 {
		group.Go(func() error {
			ticker := time.NewTicker(time.Duration(interval) * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case <-ticker.C:
					now := uint64(time.Now().Unix())
					applied, err := resource.ApplyDueHalving(keeperAccount, now)
					if err != nil {
						logger.Warn("halving keeper check failed", "err", err)
					} else if applied {
						logger.Info("halving applied by keeper", "time", now)
					}
				}
			}
		})
	}

	group.Go(func() error {
		<-groupCtx.Done()
		return nil
	})
	return group.Wait()
}

func printStartupMessage(apiURL, eventDBPath string) {
	fmt.Printf(`Starting %v
    Version     %v
    API portal  %v
    Event DB    %v
    Accounts
`,
		"Helix",
		fullVersion(),
		apiURL,
		eventDBPath,
	)
	for i, acc := range fortest.Accounts {
		fmt.Printf("        [%d] %v\n", i, acc)
	}
}
