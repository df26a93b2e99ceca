package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/scheduler"
	"invest-sentinel/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	ticker := flag.String("ticker", "", "ticker to analyze (overrides config)")
	watch := flag.Bool("watch", false, "run the watch scheduler instead of a single analysis")
	history := flag.Int("history", 0, "print the last N recorded runs for the ticker and exit")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx, *configPath)
	must(err)

	compressOldLogs(ctx, cfg)

	market := initializeMarketData(ctx, cfg)
	sentiment := initializeNews(cfg)
	rec := initializeRecorder(ctx, cfg)
	defer rec.Close()

	target := *ticker
	if target == "" {
		target = cfg.Ticker
	}

	if *history > 0 {
		records, err := rec.History(target, *history)
		must(err)
		b, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(b))
		return
	}

	analyzer := initializeAnalyzer(cfg, market, sentiment, rec)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	if *watch {
		tickers := cfg.Watch.Tickers
		if len(tickers) == 0 {
			tickers = []string{cfg.Ticker}
		}

		cronSpec := cfg.Watch.Cron
		if cronSpec == "" {
			// weekday market-open default
			cronSpec = "0 30 9 * * 1-5"
		}

		sched := scheduler.New(ctx, analyzer, tickers, cfg.RunLog.RetentionDays)
		must(sched.Register(cronSpec))
		sched.Start()
		logger.Info(ctx, "Watch mode started", "cron", cronSpec, "tickers", tickers)

		<-sigc
		logger.Info(ctx, "Shutting down")
		cancel()
		sched.Stop()
		return
	}

	result, err := analyzer.Run(ctx, target)
	if err != nil {
		logger.ErrorWithErr(ctx, "Analysis failed", err, "ticker", target)
		os.Exit(1)
	}

	b, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(b))
}
