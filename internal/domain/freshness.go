package domain

// DateInfo describes the temporal references found in an answer and its sources.
// FoundYears is sorted descending without duplicates; LatestYear, when set, equals FoundYears[0].
type DateInfo struct {
	FoundYears      []int  `json:"found_years"`
	LatestYear      *int   `json:"latest_year"`
	CurrentYear     int    `json:"current_year"`
	MightBeOutdated bool   `json:"might_be_outdated"`
	Message         string `json:"message"`
}
