package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/AAteddy/Kifiya-LPS/internal/config"
	"github.com/AAteddy/Kifiya-LPS/internal/repository"
	"github.com/AAteddy/Kifiya-LPS/internal/service"
)

func main() {
	log.Println("Starting loan workflow scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	borrowerRepo := repository.NewBorrowerRepository(db)
	loanRepo := repository.NewLoanRepository(db)
	repaymentRepo := repository.NewRepaymentRepository(db)
	loanService := service.NewLoanService(borrowerRepo, loanRepo, repaymentRepo, nil, cfg)

	c := cron.New(cron.WithSeconds())

	setupCronJobs(c, cfg, loanService)

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

func setupCronJobs(c *cron.Cron, cfg *config.Config, loanService *service.LoanService) {
	// Periodic sweep flagging pending applications stuck past the stale age
	_, err := c.AddFunc(cfg.Scheduler.PendingSweepSpec, func() {
		sweepStalePending(loanService, cfg.Scheduler.PendingStaleAfter)
	})
	if err != nil {
		log.Printf("Error scheduling stale pending sweep job: %v", err)
	}

	log.Println("Cron jobs scheduled successfully")
}

func sweepStalePending(loanService *service.LoanService, staleAfter time.Duration) {
	log.Println("Running stale pending application sweep...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	apps, err := loanService.ListStalePending(ctx, staleAfter)
	if err != nil {
		log.Printf("Stale pending sweep failed: %v", err)
		return
	}

	if len(apps) == 0 {
		log.Println("No stale pending applications found")
		return
	}

	for _, app := range apps {
		log.Printf("Stale pending application %s: submitted %s, amount %s",
			app.ID, app.CreatedAt.Format(time.RFC3339), app.Amount.StringFixed(2))
	}
	log.Printf("Stale pending sweep found %d application(s)", len(apps))
}
