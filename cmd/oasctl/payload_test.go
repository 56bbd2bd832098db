package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oas-switchboard/broadcaster/pkg/switchboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleYAML = `id: 12
title: Deep sea sponges
doi: 10.1234/oas.12
date_published: 2023-11-04T00:00:00Z
license:
  short_name: CC BY-NC 4.0
journal:
  code: oas
  name: Journal One
  issn: 0000-0000
frozen_authors:
  - order: 0
    first_name: Ada
    last_name: Lovelace
    affiliation: Birkbeck
    is_correspondence_author: true
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadArticleYAML(t *testing.T) {
	article, err := readArticle(writeFile(t, "article.yaml", articleYAML), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), article.ID)
	assert.Equal(t, "oas", article.Journal.Code)
	assert.Equal(t, 2023, article.DatePublished.Year())
	require.Len(t, article.FrozenAuthors, 1)
	assert.True(t, article.FrozenAuthors[0].IsCorrespondingAuthor)
}

func TestReadArticleJSONFromStdin(t *testing.T) {
	article, err := readArticle("-", strings.NewReader(`{"id":3,"title":"x","journal":{"code":"oas"}}`))
	require.NoError(t, err)
	assert.Equal(t, int64(3), article.ID)
}

func TestReadArticleRejects(t *testing.T) {
	_, err := readArticle(writeFile(t, "empty.json", `{"title":"no id"}`), nil)
	assert.Error(t, err)

	_, err = readArticle(writeFile(t, "broken.json", `{`), nil)
	assert.Error(t, err)

	_, err = readArticle(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.Error(t, err)
}

func TestPayloadCommand(t *testing.T) {
	path := writeFile(t, "article.yml", articleYAML)

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"payload", path})
	require.NoError(t, root.Execute())

	var payload switchboard.Payload
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	assert.Equal(t, "p1", payload.Header.Type)
	assert.Equal(t, "CC BY-NC", payload.Data.Article.VoR.License)
	assert.Equal(t, "2023-11-4", payload.Data.Article.Manuscript.Dates.Publication)
	require.Len(t, payload.Data.Authors, 1)
	assert.Equal(t, 1, payload.Data.Authors[0].ListingOrder)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("OAS_CONFIG", "")
	configPath = ""

	var out bytes.Buffer
	root := rootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"token", "editor-1", "--role", "staff", "--journal", "oas"})
	require.NoError(t, root.Execute())

	assert.Equal(t, 2, strings.Count(strings.TrimSpace(out.String()), "."))
}

func TestCommandsFailOnBrokenConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("OAS_CONFIG", writeFile(t, "oas.yaml", "kafkaBrokers: [unterminated\n"))
	configPath = ""

	root := rootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"token", "editor-1"})
	assert.Error(t, root.Execute())
}
