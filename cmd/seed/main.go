// Command seed fills the configured store with fake expenses dated within the
// last 90 days.
package main

import (
	"context"
	"flag"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"expensetracker/internal/backend"
	"expensetracker/internal/cli"
	"expensetracker/internal/core"
	applog "expensetracker/internal/log"
	"expensetracker/internal/services"
)

const seedWindowDays = 90

func main() {
	count := flag.Int("n", 50, "number of expenses to create")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(logger, "Configuration validation failed", err)
	}

	ctx, cancel := cli.SignalContext(context.Background(), logger)
	defer cancel()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err, applog.FieldBackend, cfg.DataBackend)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	faker := gofakeit.New(*seed)
	created, err := seedExpenses(ctx, result.Service, faker, *count, time.Now())
	if err != nil {
		logger.Error("Seeding stopped", applog.FieldError, err, applog.FieldCount, created)
		return
	}
	logger.Info("Seeded expenses", applog.FieldCount, created, applog.FieldBackend, cfg.DataBackend)
}

// seedExpenses creates n records through the service and returns how many were stored.
func seedExpenses(ctx context.Context, svc *services.ExpenseService, faker *gofakeit.Faker, n int, now time.Time) (int, error) {
	today := core.Today(now)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, err := svc.Create(ctx, fakeExpense(faker, today)); err != nil {
			return i, err
		}
	}
	return n, nil
}

// fakeExpense picks a suggested category, an amount with cents and a date
// within the seed window ending today.
func fakeExpense(faker *gofakeit.Faker, today core.Date) core.Expense {
	e := core.Expense{
		Title:    faker.ProductName(),
		Amount:   faker.Price(1, 250),
		Category: core.SuggestedCategories[faker.Number(0, len(core.SuggestedCategories)-1)],
		Date:     today.AddDays(-faker.Number(0, seedWindowDays-1)),
	}
	if faker.Bool() {
		e.Notes = faker.Sentence(6)
	}
	return e
}
