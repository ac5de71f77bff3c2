package domain

// RawRecord is one item as delivered by a transport. Exactly one of the
// shape pointers is expected to be set; which one depends on the search type.
type RawRecord struct {
	Typename string
	Company  *RawCompany
	Job      *RawJob
	Review   *RawReview
}

// NameRef is a nested {name} object
type NameRef struct {
	Name string `json:"name"`
}

// CountRef is a nested {count} object
type CountRef struct {
	Count int `json:"count"`
}

// ScoreAverages holds averaged review scores
type ScoreAverages struct {
	Overall float64 `json:"overall"`
}

// RawCompany is a company search hit
type RawCompany struct {
	ID            string        `json:"id"`
	Slug          string        `json:"slug"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	LogoSrc       string        `json:"logoSrc"`
	ScoreAverages ScoreAverages `json:"scoreAverages"`
	Reviews       CountRef      `json:"reviews"`
	JobLocations  []string      `json:"jobLocations"`
}

// RawJob is a job search hit
type RawJob struct {
	ID                   string   `json:"id"`
	Slug                 string   `json:"slug"`
	Name                 string   `json:"name"`
	Location             string   `json:"location"`
	HourlySalaryMin      float64  `json:"hourlySalaryMin"`
	HourlySalaryMax      float64  `json:"hourlySalaryMax"`
	HourlySalaryCurrency string   `json:"hourlySalaryCurrency"`
	AvgRating            float64  `json:"avgRating"`
	Reviews              CountRef `json:"reviews"`
	Company              *NameRef `json:"company"`
}

// RawReviewJob is the job reference embedded in a review
type RawReviewJob struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// RawReview is a review search hit. Reviews listed by job carry Company and
// Job; reviews listed by author carry Author only.
type RawReview struct {
	ID            string        `json:"id"`
	Body          string        `json:"body"`
	Tags          string        `json:"tags"`
	Author        string        `json:"author"`
	CreatedAt     string        `json:"createdAt"`
	OverallRating float64       `json:"overallRating"`
	Salary        float64       `json:"salary"`
	SalaryPeriod  string        `json:"salaryPeriod"`
	Company       *NameRef      `json:"company"`
	Job           *RawReviewJob `json:"job"`
}
