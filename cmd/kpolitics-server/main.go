package main

import (
	"flag"
	"log/slog"
	"net/http"

	"kpolitics-backend/lib/configutil"
	"kpolitics-backend/lib/scrapers/nec"
	"kpolitics-backend/lib/scrapers/wiki"
	"kpolitics-backend/lib/serviceutil"
	"kpolitics-backend/lib/sqliteutil"
	"kpolitics-backend/services/pledges"
	pledgesdb "kpolitics-backend/services/pledges/db"
	"kpolitics-backend/services/roster"
	rosterdb "kpolitics-backend/services/roster/db"
)

type NecConfig struct {
	BaseUrl    string `json:"base_url"`
	ServiceKey string `json:"service_key"`
}

type RosterConfig struct {
	Database        string `json:"database"`
	MetropolitanUrl string `json:"metropolitan_url"`
	BasicUrl        string `json:"basic_url"`
	// cron expression, defaults to the nightly refresh
	Schedule string `json:"schedule"`
}

type PledgesConfig struct {
	Database string `json:"database"`
}

type Config struct {
	Port    int           `json:"port"`
	Nec     NecConfig     `json:"nec"`
	Roster  RosterConfig  `json:"roster"`
	Pledges PledgesConfig `json:"pledges"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	initialRefresh := flag.Bool("refresh", false, "Trigger a roster refresh immediately on run.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	InitTelemetry(ctx, *verbose)

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.Roster.Schedule == "" {
		cfg.Roster.Schedule = roster.DefaultSchedule
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
		serviceutil.Fatal("open roster database", err)
	}
	rosterService, err := roster.NewService(ctx, roster.ServiceOptions{
		Wiki:     wikiClient,
		Nec:      necClient,
		Database: rosterDatabase,
		Schedule: cfg.Roster.Schedule,
	})
	if err != nil {
		serviceutil.Fatal("init roster service", err)
	}

	pledgesDatabase, err := sqliteutil.OpenDB(pledgesdb.Schema, cfg.Pledges.Database)
	if err != nil {
		serviceutil.Fatal("open pledges database", err)
	}
	pledgeService := pledges.NewService(pledgesDatabase, necClient)

	if *initialRefresh {
		go func() {
			if err := rosterService.RefreshAll(ctx); err != nil {
				slog.ErrorContext(ctx, "initial refresh", "err", err)
			}
		}()
	}

	mux := http.NewServeMux()
	RegisterHandlers(mux, rosterService, pledgeService)

	go serviceutil.StartHttpServer(cfg.Port, mux)
	<-ctx.Done()
	rosterService.Close()
}
