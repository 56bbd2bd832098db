package broadcast

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/oas-switchboard/broadcaster/pkg/common/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventFor(t *testing.T, article *models.Article) models.Event {
	t.Helper()
	encoded, err := json.Marshal(map[string]interface{}{"article": article})
	require.NoError(t, err)
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &data))
	return models.Event{ID: "evt-1", Type: models.EventArticlePublished, Source: "journal-platform", Data: data}
}

func TestArticleFromEvent(t *testing.T) {
	article, err := ArticleFromEvent(eventFor(t, testArticle()))
	require.NoError(t, err)
	require.NotNil(t, article)
	assert.Equal(t, int64(7), article.ID)
	assert.Equal(t, "oas", article.Journal.Code)
	assert.Equal(t, testArticle().DatePublished, article.DatePublished)
	require.Len(t, article.FrozenAuthors, 1)
	assert.True(t, article.FrozenAuthors[0].IsCorrespondingAuthor)
}

func TestArticleFromEventWithoutArticle(t *testing.T) {
	article, err := ArticleFromEvent(models.Event{ID: "evt-2", Type: models.EventArticlePublished, Data: map[string]interface{}{}})
	assert.NoError(t, err)
	assert.Nil(t, article)
}

func TestArticleFromEventMalformed(t *testing.T) {
	_, err := ArticleFromEvent(models.Event{ID: "evt-3", Data: map[string]interface{}{"article": "not an article"}})
	assert.Error(t, err)
}

func TestHandleEventBroadcasts(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.HandleEvent(context.Background(), eventFor(t, testArticle())))

	stored, err := f.records.GetByArticle(context.Background(), 7)
	require.NoError(t, err)
	assert.True(t, stored.Success)
	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, SourceEvent, f.publisher.events[0].data["trigger"])
	assert.Equal(t, "journal-platform", f.publisher.events[0].data["actor"])
}

func TestHandleEventIgnoresOtherTypes(t *testing.T) {
	f := newFixture(t)
	event := eventFor(t, testArticle())
	event.Type = models.EventBroadcast

	require.NoError(t, f.service.HandleEvent(context.Background(), event))
	assert.Empty(t, f.server.Requests())
	assert.Zero(t, f.records.saves)
}

func TestHandleEventWithoutArticle(t *testing.T) {
	f := newFixture(t)
	event := models.Event{ID: "evt-4", Type: models.EventArticlePublished, Data: map[string]interface{}{}}

	require.NoError(t, f.service.HandleEvent(context.Background(), event))
	assert.Empty(t, f.server.Requests())
}
