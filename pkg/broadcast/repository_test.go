package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds statements against the postgres dialect without a server
// and collects every INSERT it renders.
func dryRunDB(t *testing.T) (*gorm.DB, *[]string) {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=oas dbname=oas sslmode=disable",
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	var statements []string
	require.NoError(t, db.Callback().Create().After("gorm:create").Register("test:capture", func(tx *gorm.DB) {
		statements = append(statements, tx.Statement.SQL.String())
	}))
	return db, &statements
}

func TestRepositorySaveUpsertsByArticle(t *testing.T) {
	db, statements := dryRunDB(t)
	repo := NewRepository(db)

	record := &RecordModel{
		ID:              uuid.New(),
		ArticleID:       7,
		ArticleTitle:    "A study of broadcast messages",
		JournalCode:     "oas",
		Broadcast:       true,
		MessageType:     "p1-pio",
		MessageDateTime: time.Date(2024, time.May, 2, 9, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(context.Background(), record))

	require.Len(t, *statements, 1)
	sql := (*statements)[0]
	assert.Contains(t, sql, `INSERT INTO "switchboard_messages"`)
	assert.Contains(t, sql, `ON CONFLICT ("article_id") DO UPDATE SET`)
	for _, column := range []string{"article_title", "authorized", "message", "response", "message_date_time", "success"} {
		assert.Contains(t, sql, `"`+column+`"="excluded"."`+column+`"`)
	}
	assert.NotContains(t, sql, `"id"="excluded"."id"`, "an overwritten row keeps its id")
	assert.Contains(t, sql, `RETURNING "id"`)
}
