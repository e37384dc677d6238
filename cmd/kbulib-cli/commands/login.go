package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"kbuassist-backend/lib/configutil"
	"kbuassist-backend/lib/osutil"
	"kbuassist-backend/lib/scrapers/kbulib"

	"github.com/spf13/cobra"
)

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
	// defaults to the production portal when empty
	BaseUrl string `json:"base_url"`
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func readConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		osutil.Fatal("failed to read config", err)
	}
	return cfg
}

func login(ctx context.Context, cfg Config) (*kbulib.Client, kbulib.Session) {
	client, err := kbulib.NewClient(ctx, kbulib.ClientOptions{BaseUrl: cfg.BaseUrl})
	if err != nil {
		osutil.Fatal("failed to initialize client", err)
	}

	res, err := client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		osutil.Fatal("failed to login", err)
	}
	if !res.Ok() {
		osutil.Fatal("login rejected", fmt.Errorf("%s (code=%q, alerts=%v)", res.Error.Title, res.Error.Code, res.Error.Alerts))
	}

	slog.Info("logged in", "issued_at", time.Unix(res.Data.IssuedAt, 0).Format(time.RFC3339))
	return client, res.Data
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Verifies the configured credentials against the portal.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := readConfig()
		_, session := login(cmd.Context(), cfg)
		slog.Info("credentials accepted", "cookies", len(session.Cookies))
	},
}
