package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/oas-switchboard/broadcaster/pkg/common/models"
	"github.com/oas-switchboard/broadcaster/pkg/settings"
	"github.com/oas-switchboard/broadcaster/pkg/switchboard"
	"gorm.io/datatypes"
)

const (
	NoticeSent       = "p1-pio message sent to OA Switchboard."
	NoticeAuthFailed = "Failed to authorize with OA Switchboard."
	noticeSendFailed = "Failed to send p1-pio message to OA Switchboard"
)

// Trigger sources recorded on outcome events.
const (
	SourceEvent  = "article.published"
	SourceResend = "resend"
	SourceCLI    = "cli"
)

type SettingsLoader interface {
	Load(ctx context.Context, journal string) (settings.Settings, error)
}

type Switchboard interface {
	Authorize(ctx context.Context, email, password, baseURL string) (string, bool, error)
	SendPayload(ctx context.Context, payload switchboard.Payload, token, baseURL string) (switchboard.Response, bool, error)
}

type RecordStore interface {
	Save(ctx context.Context, record *RecordModel) error
	GetByArticle(ctx context.Context, articleID int64) (*RecordModel, error)
	List(ctx context.Context, filter ListFilter) ([]RecordModel, error)
}

type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType, source, key string, data map[string]interface{}) error
}

// Request is the caller context of one broadcast: who triggered it and the
// notices it should show back.
type Request struct {
	Source  string
	Actor   string
	notices []models.Notice
}

func NewRequest(source, actor string) *Request {
	return &Request{Source: source, Actor: actor}
}

func (r *Request) AddNotice(level models.NoticeLevel, message string) {
	r.notices = append(r.notices, models.Notice{Level: level, Message: message})
}

func (r *Request) Notices() []models.Notice {
	return append([]models.Notice(nil), r.notices...)
}

type Service struct {
	settings    SettingsLoader
	switchboard Switchboard
	records     RecordStore
	events      EventPublisher
	now         func() time.Time
}

// NewService wires the orchestrator. events may be nil.
func NewService(settingsLoader SettingsLoader, client Switchboard, records RecordStore, events EventPublisher) *Service {
	return &Service{
		settings:    settingsLoader,
		switchboard: client,
		records:     records,
		events:      events,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SelectEndpoint uses the sandbox only when the plugin is both enabled and
// in sandbox mode.
func SelectEndpoint(s settings.Settings) string {
	if s.Sandbox && s.Enabled {
		return switchboard.NormalizeBaseURL(s.SandboxURL)
	}
	return switchboard.NormalizeBaseURL(s.URL)
}

// HandlePublication authorizes, sends the p1-pio message for article and
// records the outcome. Rejections and transport failures are recorded and
// reported as notices on req; the returned error is reserved for failures to
// load settings or persist the record. A nil record with a nil error means
// the call was missing its request or article.
func (s *Service) HandlePublication(ctx context.Context, req *Request, article *models.Article) (*RecordModel, error) {
	if req == nil {
		logger.Log.Warn("Received article published notification but there was no request object.")
		return nil, nil
	}
	if article == nil {
		logger.Log.Warn("Received article published notification but there was no article object.")
		return nil, nil
	}

	log := logger.Log.WithFields(map[string]interface{}{
		"article_id": article.ID,
		"journal":    article.Journal.Code,
		"source":     req.Source,
	})
	log.WithField("title", article.Title).Info("Received article published notification")

	record := &RecordModel{
		ID:           uuid.New(),
		ArticleID:    article.ID,
		ArticleTitle: article.Title,
		JournalCode:  article.Journal.Code,
		Broadcast:    true,
		MessageType:  switchboard.MessageType,
	}

	current, err := s.settings.Load(ctx, article.Journal.Code)
	if err != nil {
		return nil, fmt.Errorf("load switchboard settings: %w", err)
	}
	endpoint := SelectEndpoint(current)

	token, ok, err := s.switchboard.Authorize(ctx, current.Email, current.Password, endpoint)
	if err != nil || !ok {
		if err != nil {
			log.WithError(err).Error("OA Switchboard authorization request failed")
		}
		record.Authorized = false
		record.Success = false
		if err := s.persist(ctx, req, record); err != nil {
			return nil, err
		}
		req.AddNotice(models.NoticeError, NoticeAuthFailed)
		return record, nil
	}
	record.Authorized = true

	payload := switchboard.BuildPayload(article)
	response, ok, err := s.switchboard.SendPayload(ctx, payload, token, endpoint)
	if err != nil {
		log.WithError(err).Error("OA Switchboard message request failed")
		ok = false
		if response == nil {
			response = switchboard.Response{"message": err.Error()}
		}
	}

	record.Message = mustJSON(payload)
	record.Response = mustJSON(response)

	if ok {
		record.Success = true
		if err := s.persist(ctx, req, record); err != nil {
			return nil, err
		}
		log.Info("p1-pio message sent to OA Switchboard")
		req.AddNotice(models.NoticeSuccess, NoticeSent)
		return record, nil
	}

	record.Success = false
	if err := s.persist(ctx, req, record); err != nil {
		return nil, err
	}
	notice := FailureNotice(response)
	log.Warn(notice)
	req.AddNotice(models.NoticeError, notice)
	return record, nil
}

// FailureNotice embeds the server's errorMessage list, or its raw message
// when no list was returned.
func FailureNotice(response switchboard.Response) string {
	if messages, ok := response.ErrorMessages(); ok {
		quoted := make([]string, 0, len(messages))
		for _, message := range messages {
			quoted = append(quoted, strconv.Quote(message))
		}
		return fmt.Sprintf("%s: [%s]", noticeSendFailed, strings.Join(quoted, ", "))
	}
	return fmt.Sprintf("%s: %s", noticeSendFailed, response.Message())
}

func (s *Service) GetRecord(ctx context.Context, articleID int64) (Record, error) {
	model, err := s.records.GetByArticle(ctx, articleID)
	if err != nil {
		return Record{}, err
	}
	return toRecord(model), nil
}

func (s *Service) ListRecords(ctx context.Context, filter ListFilter) ([]Record, error) {
	rows, err := s.records.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	results := make([]Record, 0, len(rows))
	for i := range rows {
		results = append(results, toRecord(&rows[i]))
	}
	return results, nil
}

func (s *Service) persist(ctx context.Context, req *Request, record *RecordModel) error {
	record.MessageDateTime = s.now()
	if err := s.records.Save(ctx, record); err != nil {
		logger.Log.WithError(err).WithField("article_id", record.ArticleID).Error("failed to save switchboard message")
		return fmt.Errorf("save switchboard message: %w", err)
	}
	s.publishOutcome(ctx, req, record)
	return nil
}

func (s *Service) publishOutcome(ctx context.Context, req *Request, record *RecordModel) {
	if s.events == nil {
		return
	}
	data := map[string]interface{}{
		"article_id":   record.ArticleID,
		"journal":      record.JournalCode,
		"message_type": record.MessageType,
		"authorized":   record.Authorized,
		"success":      record.Success,
		"actor":        req.Actor,
		"trigger":      req.Source,
		"sent_at":      record.MessageDateTime,
	}
	key := strconv.FormatInt(record.ArticleID, 10)
	if err := s.events.PublishEvent(ctx, models.EventBroadcast, "oas-broadcaster", key, data); err != nil {
		logger.Log.WithError(err).WithField("article_id", record.ArticleID).Warn("failed to publish broadcast outcome")
	}
}

func mustJSON(v interface{}) datatypes.JSON {
	encoded, err := json.Marshal(v)
	if err != nil {
		encoded, _ = json.Marshal(map[string]string{"message": fmt.Sprint(v)})
	}
	return datatypes.JSON(encoded)
}
