package models

import (
	"time"
)

// Event bus envelope shared by the article.published consumer and the
// broadcast outcome producer.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // article.published, oas.broadcast
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

const (
	EventArticlePublished = "article.published"
	EventBroadcast        = "oas.broadcast"
)

// User-facing notices, the equivalent of flash messages in the host UI.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Article is a read-only snapshot of a published article as handed over by
// the journal platform. Optional attributes are empty strings or nil
// pointers.
type Article struct {
	ID              int64          `json:"id" yaml:"id"`
	Title           string         `json:"title" yaml:"title"`
	DOI             string         `json:"doi" yaml:"doi"`
	DateSubmitted   time.Time      `json:"date_submitted" yaml:"date_submitted"`
	DateAccepted    time.Time      `json:"date_accepted" yaml:"date_accepted"`
	DatePublished   time.Time      `json:"date_published" yaml:"date_published"`
	JATSArticleType string         `json:"jats_article_type,omitempty" yaml:"jats_article_type"`
	License         License        `json:"license" yaml:"license"`
	Journal         Journal        `json:"journal" yaml:"journal"`
	Preprint        *Preprint      `json:"preprint,omitempty" yaml:"preprint"`
	Funders         []Funder       `json:"funders,omitempty" yaml:"funders"`
	FrozenAuthors   []FrozenAuthor `json:"frozen_authors" yaml:"frozen_authors"`
}

type License struct {
	Name      string `json:"name,omitempty" yaml:"name"`
	ShortName string `json:"short_name" yaml:"short_name"`
	URL       string `json:"url,omitempty" yaml:"url"`
}

type Journal struct {
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	ISSN      string `json:"issn" yaml:"issn"`
	PrintISSN string `json:"print_issn" yaml:"print_issn"`
}

type Preprint struct {
	Title string `json:"title" yaml:"title"`
	URL   string `json:"url" yaml:"url"`
}

type Funder struct {
	Name      string `json:"name" yaml:"name"`
	ROR       string `json:"ror,omitempty" yaml:"ror"`
	FundRefID string `json:"fundref_id,omitempty" yaml:"fundref_id"`
}

// FrozenAuthor is the author record captured at publication time. A nil
// CreditRoles means the platform exposes no CRediT data for the article.
type FrozenAuthor struct {
	Order                 int           `json:"order" yaml:"order"`
	FirstName             string        `json:"first_name" yaml:"first_name"`
	LastName              string        `json:"last_name" yaml:"last_name"`
	ORCID                 string        `json:"orcid,omitempty" yaml:"orcid"`
	IsCorrespondingAuthor bool          `json:"is_correspondence_author" yaml:"is_correspondence_author"`
	Affiliation           string        `json:"affiliation,omitempty" yaml:"affiliation"`
	Organization          *Organization `json:"organization,omitempty" yaml:"organization"`
	CreditRoles           []string      `json:"credit_roles,omitempty" yaml:"credit_roles"`
}

type Organization struct {
	Name string `json:"name,omitempty" yaml:"name"`
	ROR  string `json:"ror,omitempty" yaml:"ror"`
}
