package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/common/models"
)

// HandleEvent is the kafka.EventHandler for article.published events. Other
// event types are ignored.
func (s *Service) HandleEvent(ctx context.Context, event models.Event) error {
	if event.Type != models.EventArticlePublished {
		logger.Log.WithFields(map[string]interface{}{
			"event_id":   event.ID,
			"event_type": event.Type,
		}).Debug("ignoring event")
		return nil
	}

	article, err := ArticleFromEvent(event)
	if err != nil {
		return err
	}

	req := NewRequest(SourceEvent, event.Source)
	if _, err := s.HandlePublication(ctx, req, article); err != nil {
		return err
	}

	for _, notice := range req.Notices() {
		entry := logger.Log.WithFields(map[string]interface{}{
			"event_id": event.ID,
			"level":    notice.Level,
		})
		if notice.Level == models.NoticeError {
			entry.Warn(notice.Message)
		} else {
			entry.Info(notice.Message)
		}
	}
	return nil
}

// ArticleFromEvent decodes the "article" entry of the event data. A missing
// entry yields a nil article.
func ArticleFromEvent(event models.Event) (*models.Article, error) {
	raw, ok := event.Data["article"]
	if !ok || raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode article from event %s: %w", event.ID, err)
	}
	var article models.Article
	if err := json.Unmarshal(encoded, &article); err != nil {
		return nil, fmt.Errorf("decode article from event %s: %w", event.ID, err)
	}
	return &article, nil
}
