package main

import (
	"fmt"
	"os/user"

	"github.com/oas-switchboard/broadcaster/pkg/broadcast"
	"github.com/oas-switchboard/broadcaster/pkg/common/config"
	"github.com/oas-switchboard/broadcaster/pkg/common/database"
	"github.com/oas-switchboard/broadcaster/pkg/gateway/httpclient"
	"github.com/oas-switchboard/broadcaster/pkg/settings"
	"github.com/oas-switchboard/broadcaster/pkg/switchboard"
	"github.com/spf13/cobra"
)

func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send [article-file]",
		Short: "Broadcast an article to OA Switchboard and record the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := readArticle(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, records, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			client := switchboard.NewClient(httpclient.New(cfg.SwitchboardTimeout))
			service := broadcast.NewService(provider, client, records, nil)

			req := broadcast.NewRequest(broadcast.SourceCLI, currentUser())
			record, err := service.HandlePublication(cmd.Context(), req, article)
			if err != nil {
				return err
			}
			for _, notice := range req.Notices() {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", notice.Level, notice.Message)
			}
			if record != nil && !record.Success {
				return fmt.Errorf("article %d was not delivered", article.ID)
			}
			return nil
		},
	}
}

// openStores connects to Postgres and migrates the tables the CLI touches.
// Settings are read directly so the CLI never sees stale cached values.
func openStores(cfg *config.Config) (*settings.Provider, *broadcast.Repository, error) {
	db, err := database.GetPostgres(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	store := settings.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate journal settings: %w", err)
	}
	records := broadcast.NewRepository(db)
	if err := records.AutoMigrate(); err != nil {
		return nil, nil, fmt.Errorf("migrate switchboard messages: %w", err)
	}
	provider := settings.NewProvider(store, settings.Defaults{URL: cfg.SwitchboardURL, SandboxURL: cfg.SwitchboardSandboxURL})
	return provider, records, nil
}

func currentUser() string {
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "oasctl"
}
