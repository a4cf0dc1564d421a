package ingest

import "dailymatch-engine/pkg/models"

// CorpusIndex holds the normalized lookup structures over the existing
// corpus: which normalized URLs are present, which employers already hold a
// given normalized title, and every normalized title per employer for fuzzy
// matching. It is in-memory and rebuilt per ingestion run.
type CorpusIndex struct {
	urls           map[string]struct{}
	titleEmployers map[string]map[string]struct{}
	employerTitles map[string][]string
}

// NewCorpusIndex returns an empty index.
func NewCorpusIndex() *CorpusIndex {
	return &CorpusIndex{
		urls:           make(map[string]struct{}),
		titleEmployers: make(map[string]map[string]struct{}),
		employerTitles: make(map[string][]string),
	}
}

// BuildIndex constructs the index from the active corpus.
func BuildIndex(corpus []models.Opportunity) *CorpusIndex {
	idx := NewCorpusIndex()
	for i := range corpus {
		opp := &corpus[i]
		idx.Add(NormalizeURL(opp.ApplyURL), NormalizeTitle(opp.Title), NormalizeEmployer(opp.Employer))
	}
	return idx
}

// HasURL reports whether a normalized URL is already present. The index
// never holds two entries for the same normalized URL.
func (idx *CorpusIndex) HasURL(normURL string) bool {
	_, ok := idx.urls[normURL]
	return ok
}

// HasTitleEmployer reports whether the exact normalized title+employer pair
// is already present.
func (idx *CorpusIndex) HasTitleEmployer(normTitle, normEmployer string) bool {
	employers, ok := idx.titleEmployers[normTitle]
	if !ok {
		return false
	}
	_, ok = employers[normEmployer]
	return ok
}

// TitlesForEmployer returns every normalized title already held by the
// employer, in insertion order.
func (idx *CorpusIndex) TitlesForEmployer(normEmployer string) []string {
	return idx.employerTitles[normEmployer]
}

// Add records a listing. Called immediately after each create so later rows
// in the same batch deduplicate against earlier ones.
func (idx *CorpusIndex) Add(normURL, normTitle, normEmployer string) {
	if normURL != "" {
		idx.urls[normURL] = struct{}{}
	}
	if normTitle == "" {
		return
	}
	employers, ok := idx.titleEmployers[normTitle]
	if !ok {
		employers = make(map[string]struct{})
		idx.titleEmployers[normTitle] = employers
	}
	if _, seen := employers[normEmployer]; !seen {
		employers[normEmployer] = struct{}{}
		idx.employerTitles[normEmployer] = append(idx.employerTitles[normEmployer], normTitle)
	}
}
