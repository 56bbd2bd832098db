package broadcast

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrRecordNotFound = errors.New("broadcast record not found")

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(&RecordModel{})
}

// Save inserts the record or overwrites the existing row of the same
// article in one statement, so concurrent resends resolve last-write-wins.
// An overwritten row keeps its id, which is copied back into record.
func (r *Repository) Save(ctx context.Context, record *RecordModel) error {
	return r.db.WithContext(ctx).Clauses(clause.Returning{
		Columns: []clause.Column{{Name: "id"}},
	}, clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"article_title",
			"journal_code",
			"broadcast",
			"message_type",
			"authorized",
			"message",
			"response",
			"message_date_time",
			"success",
		}),
	}).Create(record).Error
}

func (r *Repository) GetByArticle(ctx context.Context, articleID int64) (*RecordModel, error) {
	var record RecordModel
	result := r.db.WithContext(ctx).First(&record, "article_id = ?", articleID)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, ErrRecordNotFound
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &record, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]RecordModel, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Model(&RecordModel{})
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.Broadcast != nil {
		query = query.Where("broadcast = ?", *filter.Broadcast)
	}
	if filter.MessageType != "" {
		query = query.Where("message_type = ?", filter.MessageType)
	}
	if filter.ArticleID != nil {
		query = query.Where("article_id = ?", *filter.ArticleID)
	}
	if filter.JournalCode != "" {
		query = query.Where("journal_code = ?", filter.JournalCode)
	}

	var records []RecordModel
	result := query.Order("message_date_time desc").Limit(limit).Find(&records)
	return records, result.Error
}
