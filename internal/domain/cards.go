package domain

import "fmt"

// CardKind tags a CardItem variant
type CardKind int

const (
	KindCompany CardKind = iota + 1
	KindJob
	KindReviewByJob
	KindReviewByUser
)

func (k CardKind) String() string {
	switch k {
	case KindCompany:
		return "company"
	case KindJob:
		return "job"
	case KindReviewByJob:
		return "review_job"
	case KindReviewByUser:
		return "review_user"
	}
	return fmt.Sprintf("CardKind(%d)", int(k))
}

// MarshalText encodes the kind by name
func (k CardKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// CardItem is the normalized representation of one result row.
// The set of variants is closed: CompanyCard, JobCard, ReviewJobCard and
// ReviewUserCard.
type CardItem interface {
	Kind() CardKind
	Key() string
	// Location is the location text used by location filters
	Location() string
	isCardItem()
}

// CompanyCard renders a company result
type CompanyCard struct {
	ID           string   `json:"id"`
	Slug         string   `json:"slug"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	LogoSrc      string   `json:"logoSrc,omitempty"`
	AvgRating    float64  `json:"avgRating"`
	NumRatings   int      `json:"numRatings"`
	JobLocations []string `json:"jobLocations,omitempty"`
}

// JobCard renders a job result
type JobCard struct {
	ID              string  `json:"id"`
	Slug            string  `json:"slug"`
	Name            string  `json:"name"`
	CompanyName     string  `json:"companyName"`
	JobLocation     string  `json:"location"`
	HourlySalaryMin float64 `json:"hourlySalaryMin"`
	HourlySalaryMax float64 `json:"hourlySalaryMax"`
	SalaryCurrency  string  `json:"salaryCurrency,omitempty"`
	AvgRating       float64 `json:"avgRating"`
	NumRatings      int     `json:"numRatings"`
}

// ReviewJobCard renders a review listed under a job
type ReviewJobCard struct {
	ID          string   `json:"id"`
	CompanyName string   `json:"companyName"`
	JobName     string   `json:"jobName"`
	JobLocation string   `json:"jobLocation"`
	Rating      float64  `json:"overallRating"`
	Body        string   `json:"body"`
	Tags        []string `json:"tags,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// ReviewUserCard renders a review listed under its author
type ReviewUserCard struct {
	ID        string   `json:"id"`
	Author    string   `json:"author"`
	Rating    float64  `json:"overallRating"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags,omitempty"`
	CreatedAt string   `json:"createdAt,omitempty"`
}

func (c *CompanyCard) Kind() CardKind { return KindCompany }
func (c *CompanyCard) Key() string    { return c.ID }
func (c *CompanyCard) Location() string {
	if len(c.JobLocations) == 0 {
		return ""
	}
	return c.JobLocations[0]
}
func (*CompanyCard) isCardItem() {}

func (c *JobCard) Kind() CardKind   { return KindJob }
func (c *JobCard) Key() string      { return c.ID }
func (c *JobCard) Location() string { return c.JobLocation }
func (*JobCard) isCardItem()        {}

func (c *ReviewJobCard) Kind() CardKind   { return KindReviewByJob }
func (c *ReviewJobCard) Key() string      { return c.ID }
func (c *ReviewJobCard) Location() string { return c.JobLocation }
func (*ReviewJobCard) isCardItem()        {}

func (c *ReviewUserCard) Kind() CardKind   { return KindReviewByUser }
func (c *ReviewUserCard) Key() string      { return c.ID }
func (c *ReviewUserCard) Location() string { return "" }
func (*ReviewUserCard) isCardItem()        {}

// CardEnvelope is the wire form of a CardItem
type CardEnvelope struct {
	Kind CardKind `json:"kind"`
	Card CardItem `json:"card"`
}

// Envelopes tags each item with its kind
func Envelopes(items []CardItem) []CardEnvelope {
	out := make([]CardEnvelope, 0, len(items))
	for _, it := range items {
		out = append(out, CardEnvelope{Kind: it.Kind(), Card: it})
	}
	return out
}
