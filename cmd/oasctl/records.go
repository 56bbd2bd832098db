package main

import (
	"strconv"

	"github.com/oas-switchboard/broadcaster/pkg/broadcast"
	"github.com/oas-switchboard/broadcaster/pkg/common/database"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect recorded broadcasts",
	}
	cmd.AddCommand(recordsListCmd(), recordsShowCmd())
	return cmd
}

func recordsListCmd() *cobra.Command {
	var (
		journal    string
		failedOnly bool
		limit      int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the latest broadcast per article",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, records, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			filter := broadcast.ListFilter{JournalCode: journal, Limit: limit}
			if failedOnly {
				success := false
				filter.Success = &success
			}
			rows, err := records.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Article", "Journal", "Authorized", "Success", "Sent", "Title"})
			for _, row := range rows {
				table.Append([]string{
					strconv.FormatInt(row.ArticleID, 10),
					row.JournalCode,
					strconv.FormatBool(row.Authorized),
					strconv.FormatBool(row.Success),
					row.MessageDateTime.Format("2006-01-02 15:04:05"),
					row.ArticleTitle,
				})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVarP(&journal, "journal", "j", "", "Only records of this journal")
	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only unsuccessful broadcasts")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum results")
	return cmd
}

func recordsShowCmd() *cobra.Command {
	var articleID int64
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the recorded message and response of one article",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			_, records, err := openStores(cfg)
			if err != nil {
				return err
			}
			defer database.ClosePostgres()

			service := broadcast.NewService(nil, nil, records, nil)
			record, err := service.GetRecord(cmd.Context(), articleID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), record)
		},
	}
	cmd.Flags().Int64VarP(&articleID, "article", "a", 0, "Article id")
	_ = cmd.MarkFlagRequired("article")
	return cmd
}
