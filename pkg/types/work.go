// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WorkFilters describe one publication search. All fields are optional;
// an empty filter set returns recent works.
type WorkFilters struct {
	// Query is a free-text search over titles and abstracts.
	Query string

	// AuthorName narrows to works by a matching author display name.
	AuthorName string

	// FromYear and ToYear bound the publication year (inclusive). Zero
	// means unbounded on that side.
	FromYear int
	ToYear   int

	// SourceType filters by work type (article, book-chapter, dataset, ...).
	SourceType string

	// Topic narrows to works tagged with a matching concept.
	Topic string

	// SortBy is "relevance" (default), "cited_by_count", or
	// "publication_date".
	SortBy string
}

// WorkRecord is one publication search hit.
type WorkRecord struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Year         int      `json:"year"`
	Type         string   `json:"type,omitempty"`
	Authors      []string `json:"authors,omitempty"`
	Venue        string   `json:"venue,omitempty"`
	CitedByCount int      `json:"cited_by_count"`
	OpenAccess   bool     `json:"open_access"`
	Abstract     string   `json:"abstract,omitempty"`
}

// WorkAuthor is one authorship entry on a full work record.
type WorkAuthor struct {
	ID           string   `json:"id"`
	DisplayName  string   `json:"display_name"`
	Institutions []string `json:"institutions,omitempty"`
}

// TopicScore is a concept tag with its assignment confidence.
type TopicScore struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// WorkDetail is a full publication record: everything a WorkRecord
// carries plus identifiers, authorship affiliations, concept tags, and
// the reference list.
type WorkDetail struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	DOI             string       `json:"doi,omitempty"`
	Year            int          `json:"year"`
	Type            string       `json:"type,omitempty"`
	CitedByCount    int          `json:"cited_by_count"`
	OpenAccess      bool         `json:"open_access"`
	OAStatus        string       `json:"oa_status,omitempty"`
	Authors         []WorkAuthor `json:"authors,omitempty"`
	Venue           string       `json:"venue,omitempty"`
	VenueType       string       `json:"venue_type,omitempty"`
	Concepts        []TopicScore `json:"concepts,omitempty"`
	Abstract        string       `json:"abstract,omitempty"`
	ReferencedWorks []string     `json:"referenced_works,omitempty"`
}

// TopicRecord is one research topic (concept) record. Level runs from 0
// (most general) to 5 (most specific).
type TopicRecord struct {
	ID            string   `json:"id"`
	DisplayName   string   `json:"display_name"`
	Description   string   `json:"description,omitempty"`
	Level         int      `json:"level"`
	WorksCount    int      `json:"works_count"`
	CitedByCount  int      `json:"cited_by_count"`
	RelatedTopics []string `json:"related_topics,omitempty"`
}
