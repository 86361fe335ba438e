// Package cmd implements rosterctl, an operator CLI that works on the
// same databases and sources as the server, without going through it.
package cmd

import (
	"context"
	"fmt"
	"os"

	"kpolitics-backend/lib/configutil"
	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/scrapers/wiki"
	"kpolitics-backend/lib/sqliteutil"
	"kpolitics-backend/lib/telemetry"
	"kpolitics-backend/services/pledges"
	pledgesdb "kpolitics-backend/services/pledges/db"
	"kpolitics-backend/services/roster"
	rosterdb "kpolitics-backend/services/roster/db"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "rosterctl",
	Short: "rosterctl inspects and maintains the civic roster databases.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.json5", "Path to the server config file.")
}

func Execute() {
	telemetry.InitSlog(false)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type necConfig struct {
	BaseUrl    string `json:"base_url"`
	ServiceKey string `json:"service_key"`
}

type rosterConfig struct {
	Database        string `json:"database"`
	MetropolitanUrl string `json:"metropolitan_url"`
	BasicUrl        string `json:"basic_url"`
}

type pledgesConfig struct {
	Database string `json:"database"`
}

type config struct {
	Nec     necConfig     `json:"nec"`
	Roster  rosterConfig  `json:"roster"`
	Pledges pledgesConfig `json:"pledges"`
}

type services struct {
	roster  *roster.Service
	pledges pledges.Service
}

// setup wires the services directly over the configured databases. No
// refresh schedule: rosterctl only acts when told to.
func setup(ctx context.Context) (*services, error) {
	cfg, err := configutil.ReadConfig[config](configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	necClient := nec.NewClient(nec.ClientOptions{
		BaseUrl:    cfg.Nec.BaseUrl,
		ServiceKey: cfg.Nec.ServiceKey,
	})
	wikiClient := wiki.NewClient(wiki.ClientOptions{
		MetropolitanUrl: cfg.Roster.MetropolitanUrl,
		BasicUrl:        cfg.Roster.BasicUrl,
	})

	rosterDatabase, err := sqliteutil.OpenDB(rosterdb.Schema, cfg.Roster.Database)
	if err != nil {
		return nil, fmt.Errorf("open roster database: %w", err)
	}
	rosterService, err := roster.NewService(ctx, roster.ServiceOptions{
		Wiki:     wikiClient,
		Nec:      necClient,
		Database: rosterDatabase,
	})
	if err != nil {
		return nil, err
	}

	pledgesDatabase, err := sqliteutil.OpenDB(pledgesdb.Schema, cfg.Pledges.Database)
	if err != nil {
		return nil, fmt.Errorf("open pledges database: %w", err)
	}

	return &services{
		roster:  rosterService,
		pledges: pledges.NewService(pledgesDatabase, necClient),
	}, nil
}

func rosterType(basic bool) roster.RosterType {
	if basic {
		return roster.Basic
	}
	return roster.Metropolitan
}
