// Command dedupe removes duplicate sector inspections, keeping the newest
// record of each (franchise, date, sector). With -every it keeps running.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"franchiseops/internal/checklist"
	"franchiseops/internal/config"
	"franchiseops/internal/db"
	"franchiseops/internal/inspection"
	"franchiseops/internal/jobs"
	"franchiseops/internal/logging"
	"franchiseops/internal/observability"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only report duplicate groups")
	every := flag.Duration("every", 0, "repeat at this interval instead of running once")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("dedupe: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, syncLog, err := logging.New(cfg.LogLevel, cfg.Env, "dedupe")
	if err != nil {
		_, _ = os.Stderr.WriteString("dedupe: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer syncLog()

	flush, _ := observability.Init(observability.Options{
		DSN:     cfg.SentryDSN,
		Env:     cfg.Env,
		Release: "dedupe",
		Service: "dedupe",
	})
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect", zap.Error(err))
	}
	defer pool.Close()

	svc := inspection.NewService(inspection.NewPostgresRepository(pool), checklist.Default(), nil, nil, log)

	if *dryRun {
		groups, err := svc.FindDuplicates(ctx)
		if err != nil {
			log.Fatal("find duplicates", zap.Error(err))
		}
		for _, g := range groups {
			log.Info("duplicate group",
				zap.String("franchise_id", g.FranchiseID),
				zap.String("date", g.Date),
				zap.String("sector", g.Sector),
				zap.String("keep", g.KeepID),
				zap.Strings("remove", g.RemoveIDs),
			)
		}
		log.Info("dry run finished", zap.Int("groups", len(groups)))
		return
	}

	runner := jobs.New(ctx, log)
	job := jobs.Dedupe(svc, log)

	if *every <= 0 {
		runner.Run("inspection_dedupe", job)
		return
	}

	runner.Run("inspection_dedupe", job)
	runner.Every(*every, "inspection_dedupe", job)
	log.Info("running periodically", zap.Duration("every", *every))
	<-ctx.Done()
}
