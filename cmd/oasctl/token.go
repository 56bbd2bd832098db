package main

import (
	"fmt"

	"github.com/oas-switchboard/broadcaster/pkg/gateway/auth"
	"github.com/spf13/cobra"
)

func tokenCmd() *cobra.Command {
	var (
		email   string
		role    string
		journal string
	)
	cmd := &cobra.Command{
		Use:   "token [subject]",
		Short: "Issue a bearer token for the broadcaster API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			jwt, err := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTTTL)
			if err != nil {
				return err
			}
			token, err := jwt.IssueToken(args[0], email, role, journal)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	cmd.Flags().StringVar(&role, "role", auth.RoleEditor, "Role claim (editor or staff)")
	cmd.Flags().StringVar(&journal, "journal", "", "Restrict the token to one journal code")
	return cmd
}
