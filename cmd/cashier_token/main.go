// Command cashier_token signs a cashier JWT with the server's JWT_SECRET and
// JWT_ISSUER, for local development against the API. Production tokens come
// from the sign-in system in front of the till.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/SscSPs/pos_ledger/internal/utils"
	"github.com/spf13/pflag"
)

func main() {
	cashierID := pflag.String("id", "", "cashier ID placed in the token subject")
	name := pflag.String("name", "", "cashier display name")
	ttl := pflag.Duration("ttl", 12*time.Hour, "token lifetime")
	pflag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *cashierID == "" {
		logger.Error("--id is required")
		pflag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.IsProduction {
		logger.Error("Refusing to issue development tokens in production")
		os.Exit(1)
	}

	token, err := utils.GenerateCashierToken(*cashierID, *name, cfg.JWTSecret, *ttl, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to sign token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
