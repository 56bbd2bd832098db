package broadcast

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecordModel is the audit row of the latest broadcast attempt for one
// article. ArticleID is unique: a resend overwrites the previous row.
type RecordModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;column:id"`
	ArticleID       int64          `gorm:"column:article_id;uniqueIndex"`
	ArticleTitle    string         `gorm:"column:article_title"`
	JournalCode     string         `gorm:"column:journal_code;index"`
	Broadcast       bool           `gorm:"column:broadcast"`
	MessageType     string         `gorm:"column:message_type;size:255"`
	Authorized      bool           `gorm:"column:authorized"`
	Message         datatypes.JSON `gorm:"column:message"`
	Response        datatypes.JSON `gorm:"column:response"`
	MessageDateTime time.Time      `gorm:"column:message_date_time"`
	Success         bool           `gorm:"column:success;index"`
}

func (RecordModel) TableName() string {
	return "switchboard_messages"
}

// ListFilter narrows the admin listing. Nil pointers and empty strings are
// not applied.
type ListFilter struct {
	Success     *bool
	Broadcast   *bool
	MessageType string
	ArticleID   *int64
	JournalCode string
	Limit       int
}

type Record struct {
	ID              uuid.UUID       `json:"id"`
	ArticleID       int64           `json:"article_id"`
	ArticleTitle    string          `json:"article_title"`
	Journal         string          `json:"journal"`
	Broadcast       bool            `json:"broadcast"`
	MessageType     string          `json:"message_type"`
	Authorized      bool            `json:"authorized"`
	Success         bool            `json:"success"`
	Message         json.RawMessage `json:"message,omitempty"`
	Response        json.RawMessage `json:"response,omitempty"`
	MessageDateTime time.Time       `json:"message_date_time"`
}

func toRecord(model *RecordModel) Record {
	return Record{
		ID:              model.ID,
		ArticleID:       model.ArticleID,
		ArticleTitle:    model.ArticleTitle,
		Journal:         model.JournalCode,
		Broadcast:       model.Broadcast,
		MessageType:     model.MessageType,
		Authorized:      model.Authorized,
		Success:         model.Success,
		Message:         json.RawMessage(model.Message),
		Response:        json.RawMessage(model.Response),
		MessageDateTime: model.MessageDateTime,
	}
}
