package switchboard

import (
	"fmt"
	"time"

	"github.com/oas-switchboard/broadcaster/pkg/common/models"
)

const (
	MessageType = "p1-pio"

	headerType        = "p1"
	headerVersion     = "v2"
	broadcastAddress  = "https://ror.org/broadcast"
	timingVoR         = "VoR"
	defaultType       = "research-article"
	publicationPureOA = "pure OA journal"
)

// Payload is the p1-pio message body.
type Payload struct {
	Header Header `json:"header"`
	Data   Data   `json:"data"`
}

type Header struct {
	Type       string  `json:"type"`
	Version    string  `json:"version"`
	To         Address `json:"to"`
	Persistent bool    `json:"persistent"`
	PIO        bool    `json:"pio"`
}

type Address struct {
	Address string `json:"address"`
}

type Data struct {
	Timing  string   `json:"timing"`
	Authors []Author `json:"authors"`
	Article Article  `json:"article"`
	Journal Journal  `json:"journal"`
}

type Author struct {
	ListingOrder          int           `json:"listingorder"`
	LastName              string        `json:"lastName"`
	FirstName             string        `json:"firstName"`
	ORCID                 string        `json:"ORCID"`
	CreditRoles           []string      `json:"creditroles"`
	IsCorrespondingAuthor bool          `json:"isCorrespondingAuthor"`
	Institutions          []Institution `json:"institutions"`
	Affiliation           string        `json:"affiliation"`
}

type Institution struct {
	SourceAffiliation string `json:"sourceaffiliation"`
	Name              string `json:"name"`
	ROR               string `json:"ror"`
}

type Article struct {
	Title      string     `json:"title"`
	DOI        string     `json:"doi"`
	Type       string     `json:"type"`
	Funders    []Funder   `json:"funders"`
	Manuscript Manuscript `json:"manuscript"`
	VoR        VoR        `json:"vor"`
	Preprint   *Preprint  `json:"preprint,omitempty"`
}

type Funder struct {
	Name    string `json:"name"`
	ROR     string `json:"ror"`
	FundRef string `json:"fundref"`
}

type Manuscript struct {
	Dates ManuscriptDates `json:"dates"`
}

type ManuscriptDates struct {
	Submission  string `json:"submission"`
	Acceptance  string `json:"acceptance"`
	Publication string `json:"publication"`
}

type VoR struct {
	License     string `json:"license"`
	Publication string `json:"publication"`
}

type Preprint struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type Journal struct {
	Name  string `json:"name"`
	ISSN  string `json:"issn"`
	EISSN string `json:"eissn"`
	ID    string `json:"id"`
}

// BuildPayload maps an article snapshot onto the p1-pio schema.
func BuildPayload(article *models.Article) Payload {
	return Payload{
		Header: BuildHeader(),
		Data: Data{
			Timing:  timingVoR,
			Authors: BuildAuthors(article),
			Article: buildArticle(article),
			Journal: buildJournal(article),
		},
	}
}

func BuildHeader() Header {
	return Header{
		Type:       headerType,
		Version:    headerVersion,
		To:         Address{Address: broadcastAddress},
		Persistent: true,
		PIO:        true,
	}
}

// BuildAuthors keeps the frozen author order; listingorder is 1-based.
func BuildAuthors(article *models.Article) []Author {
	authors := make([]Author, 0, len(article.FrozenAuthors))
	for _, author := range article.FrozenAuthors {
		credit := author.CreditRoles
		if credit == nil {
			credit = []string{}
		}
		authors = append(authors, Author{
			ListingOrder:          author.Order + 1,
			LastName:              author.LastName,
			FirstName:             author.FirstName,
			ORCID:                 author.ORCID,
			CreditRoles:           credit,
			IsCorrespondingAuthor: author.IsCorrespondingAuthor,
			Institutions: []Institution{{
				SourceAffiliation: author.Affiliation,
				Name:              author.Affiliation,
				ROR:               affiliationROR(author),
			}},
			Affiliation: author.Affiliation,
		})
	}
	return authors
}

func affiliationROR(author models.FrozenAuthor) string {
	if author.Organization == nil {
		return ""
	}
	return author.Organization.ROR
}

func BuildFunders(article *models.Article) []Funder {
	funders := make([]Funder, 0, len(article.Funders))
	for _, funder := range article.Funders {
		funders = append(funders, Funder{
			Name:    funder.Name,
			ROR:     funder.ROR,
			FundRef: funder.FundRefID,
		})
	}
	return funders
}

func buildArticle(article *models.Article) Article {
	articleType := article.JATSArticleType
	if articleType == "" {
		articleType = defaultType
	}

	result := Article{
		Title:   article.Title,
		DOI:     article.DOI,
		Type:    articleType,
		Funders: BuildFunders(article),
		Manuscript: Manuscript{Dates: ManuscriptDates{
			Submission:  FormatDate(article.DateSubmitted),
			Acceptance:  FormatDate(article.DateAccepted),
			Publication: FormatDate(article.DatePublished),
		}},
		VoR: VoR{
			License:     NormalizeLicense(article.License.ShortName),
			Publication: publicationPureOA,
		},
	}

	if article.Preprint != nil {
		result.Preprint = &Preprint{
			Title: article.Preprint.Title,
			URL:   article.Preprint.URL,
		}
	}
	return result
}

func buildJournal(article *models.Article) Journal {
	return Journal{
		Name:  article.Journal.Name,
		ISSN:  article.Journal.PrintISSN,
		EISSN: article.Journal.ISSN,
		ID:    article.Journal.Code,
	}
}

// FormatDate renders year-month-day without zero padding ("2019-7-1").
// A zero time renders as an empty string.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}
