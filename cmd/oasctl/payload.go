package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oas-switchboard/broadcaster/pkg/common/models"
	"github.com/oas-switchboard/broadcaster/pkg/switchboard"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func payloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "payload [article-file]",
		Short: "Print the p1-pio message for an article without sending it",
		Long: `Builds the p1-pio message the broadcaster would send for the article
described in a JSON or YAML file (.yaml/.yml). Use "-" to read JSON from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			article, err := readArticle(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), switchboard.BuildPayload(article))
		},
	}
}

func readArticle(path string, stdin io.Reader) (*models.Article, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read article: %w", err)
	}

	var article models.Article
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &article)
	default:
		err = json.Unmarshal(raw, &article)
	}
	if err != nil {
		return nil, fmt.Errorf("decode article %s: %w", path, err)
	}
	if article.ID == 0 {
		return nil, fmt.Errorf("article %s has no id", path)
	}
	return &article, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
