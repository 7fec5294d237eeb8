package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"refnet-backend/internal/config"
	"refnet-backend/internal/jobs"
	"refnet-backend/internal/logger"
	"refnet-backend/internal/repository/postgres"
	"refnet-backend/internal/scheduler"
	"refnet-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('audit-closure', 'repair-closure', 'backfill-commissions')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Refnet Maintenance Runner...", "log_level", cfg.Log.Level)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	repairSvc := service.NewRepairService(store, store, service.CommissionConfig{
		DefaultRate: cfg.Commission.DefaultRate,
		MaxLevels:   cfg.Commission.MaxLevels,
	})
	runner := jobs.NewJobRunner(repairSvc, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "audit-closure":
			runner.AuditClosure()
		case "repair-closure":
			runner.RepairClosure()
		case "backfill-commissions":
			runner.BackfillCommissions()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		return
	}

	// No job named: run the scheduler with the nightly read-only audit.
	sched := scheduler.NewScheduler(runner)
	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	sched.Stop()
}
