package main

import (
	"fmt"

	"github.com/oas-switchboard/broadcaster/pkg/common/database"
	"github.com/oas-switchboard/broadcaster/pkg/settings"
	"github.com/spf13/cobra"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change per-journal OA Switchboard settings",
	}
	cmd.AddCommand(settingsGetCmd(), settingsSetCmd(), settingsInstallCmd())
	return cmd
}

func settingsGetCmd() *cobra.Command {
	var showPassword bool
	cmd := &cobra.Command{
		Use:   "get [journal]",
		Short: "Show the settings of a journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider()
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			current, err := provider.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !showPassword && current.Password != "" {
				current.Password = "********"
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				settings.KeyEnabled:    current.Enabled,
				settings.KeySandbox:    current.Sandbox,
				settings.KeyEmail:      current.Email,
				settings.KeyPassword:   current.Password,
				settings.KeyURL:        current.URL,
				settings.KeySandboxURL: current.SandboxURL,
			})
		},
	}
	cmd.Flags().BoolVar(&showPassword, "show-password", false, "Print the stored password")
	return cmd
}

func settingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [journal] [key] [value]",
		Short: "Change one setting (oas_send, oas_email, oas_sandbox, oas_password, oas_url, oas_sandbox_url)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !knownKey(args[1]) {
				return fmt.Errorf("unknown setting %q", args[1])
			}
			provider, err := openProvider()
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			if err := provider.Set(cmd.Context(), args[0], args[1], args[2]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s updated for %s\n", args[1], args[0])
			return nil
		},
	}
}

func settingsInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install [journal]",
		Short: "Seed default settings for a journal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, err := openProvider()
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			written, err := provider.Install(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if written {
				fmt.Fprintf(cmd.OutOrStdout(), "defaults installed for %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already configured\n", args[0])
			}
			return nil
		},
	}
}

func openProvider() (*settings.Provider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	provider, _, err := openStores(cfg)
	return provider, err
}

func knownKey(name string) bool {
	for _, key := range settings.Keys {
		if key == name {
			return true
		}
	}
	return false
}
