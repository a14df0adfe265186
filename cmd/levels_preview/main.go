package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"dmiBot/config"
	"dmiBot/internal/adapters/binanceclient"
	"dmiBot/internal/adapters/logger"
	"dmiBot/internal/adapters/sqlite"
	"dmiBot/internal/domain"
	"dmiBot/internal/risk"
)

// levels_preview prints the TP/SL levels a BUY and a SELL would get at the
// current price, using the active strategy configuration unless overridden.
func main() {
	symbol := flag.String("symbol", "", "symbol to price (default: active configuration)")
	tp := flag.Float64("tp", 0, "take-profit percent (default: active configuration)")
	sl := flag.Float64("sl", 0, "stop-loss percent (default: active configuration)")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}
	appLogger := logger.NewStdLogger(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// 2. Active configuration, falling back to the default when none is stored
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer repo.Close()

	active, found, err := repo.FindLatestConfig(ctx)
	if err != nil {
		log.Fatalf("Error reading active configuration: %v", err)
	}
	if !found {
		active = domain.DefaultStrategyConfig()
	}
	if *symbol != "" {
		active.Symbol = *symbol
	}
	if *tp != 0 {
		active.TakeProfitPercent = *tp
	}
	if *sl != 0 {
		active.StopLossPercent = *sl
	}

	// 3. Live price
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Binance client: %v", err)
	}
	price, err := binanceClient.GetCurrentPrice(ctx, active.Symbol)
	if err != nil {
		log.Fatalf("Error fetching price for %s: %v", active.Symbol, err)
	}

	// 4. Levels for both sides
	fmt.Printf("%s @ %.2f  (TP %g%%, SL %g%%, %s)\n", active.Symbol,
		risk.RoundPrice(price), active.TakeProfitPercent, active.StopLossPercent,
		domain.FormatLeverage(active.Leverage))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SIDE\tTAKE PROFIT\tSTOP LOSS")
	for _, side := range []domain.OrderSide{domain.Buy, domain.Sell} {
		levels, err := risk.CalculateLevels(side, price, active.TakeProfitPercent, active.StopLossPercent)
		if err != nil {
			log.Fatalf("Error calculating %s levels: %v", side, err)
		}
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\n", side, levels.TargetPrice, levels.ProtectivePrice)
	}
	if err := w.Flush(); err != nil {
		log.Fatalf("Error writing output: %v", err)
	}
}
