package domain

// Listing is one job posting as delivered by the retrieval layer.
// PublishedAt stays the raw ISO-8601 text from the source; Description is
// plain text (HTML already stripped). Records are never mutated after
// retrieval.
type Listing struct {
	SourceID    int64
	Title       string
	Company     string
	Category    string
	PublishedAt string
	Salary      string
	Description string
	URL         string

	// Pass-through fields the ranking core does not interpret.
	JobType  string
	Location string
	Tags     []string
}

// ScoredListing is an admitted listing plus everything the ranking
// pipeline computed for it. Built exactly once per admitted listing.
type ScoredListing struct {
	Listing

	DaysOld           int
	KeywordMatches    int
	RecencyScore      float64
	KeywordScore      float64
	CompensationScore float64
	Score             float64
}
