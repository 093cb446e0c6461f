// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package openalex

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/pdiddy/scholar-id/pkg/types"
)

const sampleAuthorsJSON = `{
  "meta": {"count": 2, "per_page": 25, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/A5023888391",
      "display_name": "Jane Doe",
      "display_name_alternatives": ["J. Doe", "Jane A. Doe"],
      "orcid": "https://orcid.org/0000-0002-1825-0097",
      "last_known_institutions": [
        {"display_name": "Acme University", "country_code": "US"}
      ],
      "works_count": 120,
      "cited_by_count": 4800,
      "summary_stats": {"h_index": 35, "i10_index": 80},
      "x_concepts": [
        {"display_name": "Biology"},
        {"display_name": "Genetics"},
        {"display_name": "Cell Biology"},
        {"display_name": "Biochemistry"},
        {"display_name": "Molecular Biology"},
        {"display_name": "Beyond The Cap"}
      ]
    },
    {
      "id": "https://openalex.org/A5000000002",
      "display_name": "Jane Doe",
      "display_name_alternatives": [],
      "orcid": "",
      "last_known_institutions": [],
      "works_count": 3,
      "cited_by_count": 10,
      "summary_stats": {"h_index": 1, "i10_index": 0},
      "x_concepts": []
    }
  ]
}`

// newTestClient points the package at an httptest server and returns the
// client plus a pointer to the last query received.
func newTestClient(t *testing.T, statusCode int, body string) (*Client, *url.Values) {
	t.Helper()
	var lastQuery url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(ts.Close)

	old := apiBase
	apiBase = ts.URL
	t.Cleanup(func() { apiBase = old })

	return &Client{HTTP: ts.Client()}, &lastQuery
}

func TestSearchAuthors(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, sampleAuthorsJSON)

	got, err := c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "Jane Doe"}, 10)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want 2", len(got))
	}

	a := got[0]
	if a.ID != "https://openalex.org/A5023888391" {
		t.Errorf("ID = %q", a.ID)
	}
	if a.DisplayName != "Jane Doe" || len(a.AlternateNames) != 2 {
		t.Errorf("name fields = %q %v", a.DisplayName, a.AlternateNames)
	}
	if a.ORCID != "https://orcid.org/0000-0002-1825-0097" {
		t.Errorf("ORCID = %q", a.ORCID)
	}
	if len(a.Institutions) != 1 || a.Institutions[0].Name != "Acme University" || a.Institutions[0].Country != "US" {
		t.Errorf("Institutions = %+v", a.Institutions)
	}
	if a.WorksCount != 120 || a.CitedByCount != 4800 || a.HIndex != 35 || a.I10Index != 80 {
		t.Errorf("metrics = %d/%d/%d/%d", a.WorksCount, a.CitedByCount, a.HIndex, a.I10Index)
	}
	// Concepts are capped at five topics.
	if len(a.Topics) != 5 || a.Topics[0] != "Biology" {
		t.Errorf("Topics = %v, want top 5 concepts", a.Topics)
	}

	if (*query).Get("search") != "Jane Doe" {
		t.Errorf("search param = %q", (*query).Get("search"))
	}
	if (*query).Get("per-page") != "10" {
		t.Errorf("per-page = %q, want 10", (*query).Get("per-page"))
	}
	if sel := (*query).Get("select"); !strings.Contains(sel, "summary_stats") {
		t.Errorf("select = %q, missing summary_stats", sel)
	}
}

func TestSearchAuthorsFilters(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, `{"meta":{},"results":[]}`)

	// ORCID routes through the identifier index instead of the name search.
	_, err := c.SearchAuthors(context.Background(), types.AuthorFilters{
		Name:  "Jane Doe",
		ORCID: "0000-0002-1825-0097",
	}, 5)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}
	if (*query).Get("search") != "" {
		t.Errorf("search param set alongside ORCID filter: %q", (*query).Get("search"))
	}
	if f := (*query).Get("filter"); !strings.Contains(f, "orcid:0000-0002-1825-0097") {
		t.Errorf("filter = %q, missing orcid", f)
	}

	// Affiliation narrows the search server-side.
	_, err = c.SearchAuthors(context.Background(), types.AuthorFilters{
		Name:        "Jane Doe",
		Affiliation: "Acme University",
	}, 5)
	if err != nil {
		t.Fatalf("SearchAuthors: %v", err)
	}
	if f := (*query).Get("filter"); !strings.Contains(f, `last_known_institutions.display_name.search:"Acme University"`) {
		t.Errorf("filter = %q, missing affiliation clause", f)
	}
	if (*query).Get("search") != "Jane Doe" {
		t.Errorf("search param = %q", (*query).Get("search"))
	}
}

func TestSearchAuthorsCountBounds(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, `{"meta":{},"results":[]}`)

	_, _ = c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "x"}, 100)
	if (*query).Get("per-page") != "25" {
		t.Errorf("per-page = %q, want capped 25", (*query).Get("per-page"))
	}

	_, _ = c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "x"}, 0)
	if (*query).Get("per-page") != "10" {
		t.Errorf("per-page = %q, want default 10", (*query).Get("per-page"))
	}
}

func TestSearchAuthorsEmptyQuery(t *testing.T) {
	c := &Client{}
	_, err := c.SearchAuthors(context.Background(), types.AuthorFilters{}, 5)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Errorf("expected empty query error, got: %v", err)
	}
}

func TestPolitePoolParameters(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, `{"meta":{},"results":[]}`)
	c.Email = "research@example.com"
	c.APIKey = "key123"

	_, _ = c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "x"}, 5)
	if (*query).Get("mailto") != "research@example.com" {
		t.Errorf("mailto = %q", (*query).Get("mailto"))
	}
	if (*query).Get("api_key") != "key123" {
		t.Errorf("api_key = %q", (*query).Get("api_key"))
	}
}

func TestGetAuthor(t *testing.T) {
	single := `{
		"id": "https://openalex.org/A5023888391",
		"display_name": "Jane Doe",
		"works_count": 120,
		"summary_stats": {"h_index": 35, "i10_index": 80}
	}`
	c, _ := newTestClient(t, http.StatusOK, single)

	// URL-form input is cleaned to the bare ID.
	got, err := c.GetAuthor(context.Background(), "https://openalex.org/A5023888391")
	if err != nil {
		t.Fatalf("GetAuthor: %v", err)
	}
	if got.DisplayName != "Jane Doe" || got.HIndex != 35 {
		t.Errorf("got = %+v", got)
	}

	_, err = c.GetAuthor(context.Background(), "  ")
	if err == nil {
		t.Error("expected error for empty ID")
	}
}

const sampleWorksJSON = `{
  "meta": {"count": 3, "per_page": 20, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W1",
      "title": "First Author Paper",
      "publication_year": 2024,
      "cited_by_count": 12,
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Jane Doe"}},
        {"author": {"id": "https://openalex.org/A9", "display_name": "Other One"}}
      ]
    },
    {
      "id": "https://openalex.org/W2",
      "title": "Last Author Paper",
      "publication_year": 2023,
      "cited_by_count": 40,
      "authorships": [
        {"author": {"id": "https://openalex.org/A9", "display_name": "Other One"}},
        {"author": {"id": "https://openalex.org/A8", "display_name": "Other Two"}},
        {"author": {"id": "https://openalex.org/A1", "display_name": "Jane Doe"}}
      ]
    },
    {
      "id": "https://openalex.org/W3",
      "title": "Not Attributable",
      "publication_year": 2022,
      "cited_by_count": 5,
      "authorships": [
        {"author": {"id": "https://openalex.org/A9", "display_name": "Other One"}}
      ]
    }
  ]
}`

func TestFetchWorkSamples(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, sampleWorksJSON)

	samples, err := c.FetchWorkSamples(context.Background(), "https://openalex.org/A1", 20)
	if err != nil {
		t.Fatalf("FetchWorkSamples: %v", err)
	}
	// W3 has no authorship entry for A1 and is dropped.
	if len(samples) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(samples))
	}

	first := samples[0]
	if first.Title != "First Author Paper" || first.AuthorPosition != 1 || first.TotalAuthors != 2 {
		t.Errorf("first sample = %+v", first)
	}
	if first.Year != 2024 || first.CitedByCount != 12 {
		t.Errorf("first sample metadata = %+v", first)
	}

	last := samples[1]
	if last.AuthorPosition != 3 || last.TotalAuthors != 3 {
		t.Errorf("last sample = %+v", last)
	}

	if f := (*query).Get("filter"); f != "author.id:A1" {
		t.Errorf("filter = %q, want author.id:A1", f)
	}
	if s := (*query).Get("sort"); s != "publication_date:desc" {
		t.Errorf("sort = %q", s)
	}
	if (*query).Get("per-page") != "20" {
		t.Errorf("per-page = %q", (*query).Get("per-page"))
	}
}

func TestAutocompleteAuthors(t *testing.T) {
	body := `{
		"results": [
			{"id": "https://openalex.org/A1", "display_name": "Jane Doe", "hint": "Acme University", "external_id": "https://orcid.org/0000-0002-1825-0097", "works_count": 100, "cited_by_count": 900},
			{"id": "https://openalex.org/A2", "display_name": "Jane Doerr", "hint": "", "external_id": "", "works_count": 2, "cited_by_count": 3},
			{"id": "https://openalex.org/A3", "display_name": "Jane Doh", "hint": "", "external_id": "", "works_count": 1, "cited_by_count": 0}
		]
	}`
	c, query := newTestClient(t, http.StatusOK, body)

	got, err := c.AutocompleteAuthors(context.Background(), "jane d", 2)
	if err != nil {
		t.Fatalf("AutocompleteAuthors: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got) = %d, want truncated 2", len(got))
	}
	if got[0].DisplayName != "Jane Doe" || got[0].Hint != "Acme University" {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[0].ORCID == "" {
		t.Errorf("ORCID not carried from external_id")
	}
	if (*query).Get("q") != "jane d" {
		t.Errorf("q = %q", (*query).Get("q"))
	}

	_, err = c.AutocompleteAuthors(context.Background(), "  ", 5)
	if err == nil {
		t.Error("expected error for empty query")
	}
}

func TestSearchInstitutions(t *testing.T) {
	body := `{
		"meta": {"count": 1},
		"results": [
			{"id": "https://openalex.org/I1", "display_name": "European Molecular Biology Organization",
			 "display_name_alternatives": ["EMBO"], "country_code": "DE", "type": "nonprofit",
			 "homepage_url": "https://www.embo.org"}
		]
	}`
	c, query := newTestClient(t, http.StatusOK, body)

	got, err := c.SearchInstitutions(context.Background(), "EMBO", 5)
	if err != nil {
		t.Fatalf("SearchInstitutions: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	rec := got[0]
	if rec.DisplayName != "European Molecular Biology Organization" || rec.CountryCode != "DE" {
		t.Errorf("rec = %+v", rec)
	}
	if len(rec.AlternateNames) != 1 || rec.AlternateNames[0] != "EMBO" {
		t.Errorf("alternates = %v", rec.AlternateNames)
	}
	if (*query).Get("search") != "EMBO" {
		t.Errorf("search = %q", (*query).Get("search"))
	}
}

func TestGetErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantSubstr string
	}{
		{"server error", http.StatusInternalServerError, "HTTP 500"},
		{"forbidden", http.StatusForbidden, "HTTP 403"},
		{"not found", http.StatusNotFound, "HTTP 404"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.statusCode, "")
			_, err := c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "x"}, 5)
			if err == nil || !strings.Contains(err.Error(), tt.wantSubstr) {
				t.Errorf("err = %v, want %q", err, tt.wantSubstr)
			}
		})
	}
}

func TestGetMalformedJSON(t *testing.T) {
	c, _ := newTestClient(t, http.StatusOK, `{not json`)
	_, err := c.SearchAuthors(context.Background(), types.AuthorFilters{Name: "x"}, 5)
	if err == nil || !strings.Contains(err.Error(), "parsing") {
		t.Errorf("err = %v, want parse error", err)
	}
}

func TestCleanID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"A5023888391", "A5023888391"},
		{"https://openalex.org/A5023888391", "A5023888391"},
		{"  https://openalex.org/W42 ", "W42"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanID(tt.in); got != tt.want {
			t.Errorf("CleanID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const sampleWorkSearchJSON = `{
  "meta": {"count": 1, "per_page": 20, "page": 1},
  "results": [
    {
      "id": "https://openalex.org/W100",
      "title": "Deep Learning for Genomics",
      "publication_year": 2023,
      "type": "article",
      "cited_by_count": 45,
      "open_access": {"is_oa": true, "oa_status": "gold"},
      "primary_location": {"source": {"id": "https://openalex.org/S1", "display_name": "Nature Methods", "type": "journal"}},
      "authorships": [
        {"author": {"id": "https://openalex.org/A1", "display_name": "Jane Doe"}},
        {"author": {"id": "https://openalex.org/A2", "display_name": "Other One"}}
      ],
      "abstract_inverted_index": {"models": [2], "Deep": [0], "learn": [3], "learning": [1]}
    }
  ]
}`

func TestSearchWorks(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, sampleWorkSearchJSON)

	got, err := c.SearchWorks(context.Background(), types.WorkFilters{
		Query:      "deep learning",
		AuthorName: "Jane Doe",
		FromYear:   2020,
		ToYear:     2023,
		SourceType: "article",
		Topic:      "Genomics",
	}, 20)
	if err != nil {
		t.Fatalf("SearchWorks: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}

	w := got[0]
	if w.Title != "Deep Learning for Genomics" || w.Year != 2023 || w.Type != "article" {
		t.Errorf("work = %+v", w)
	}
	if w.Venue != "Nature Methods" || !w.OpenAccess || w.CitedByCount != 45 {
		t.Errorf("work metadata = %+v", w)
	}
	if len(w.Authors) != 2 || w.Authors[0] != "Jane Doe" {
		t.Errorf("Authors = %v", w.Authors)
	}
	if w.Abstract != "Deep learning models learn" {
		t.Errorf("Abstract = %q", w.Abstract)
	}

	if (*query).Get("search") != "deep learning" {
		t.Errorf("search = %q", (*query).Get("search"))
	}
	f := (*query).Get("filter")
	for _, clause := range []string{
		`author.display_name.search:"Jane Doe"`,
		"publication_year:>=2020,<=2023",
		"type:article",
		`concepts.display_name.search:"Genomics"`,
	} {
		if !strings.Contains(f, clause) {
			t.Errorf("filter = %q, missing %q", f, clause)
		}
	}
	// Relevance ordering: no explicit sort when criteria are present.
	if (*query).Get("sort") != "" {
		t.Errorf("sort = %q, want relevance (unset)", (*query).Get("sort"))
	}
}

func TestSearchWorksDefaults(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, `{"meta":{},"results":[]}`)

	// No criteria: recent works, newest first.
	_, err := c.SearchWorks(context.Background(), types.WorkFilters{}, 0)
	if err != nil {
		t.Fatalf("SearchWorks: %v", err)
	}
	if (*query).Get("sort") != "publication_date:desc" {
		t.Errorf("sort = %q, want publication_date:desc", (*query).Get("sort"))
	}
	if (*query).Get("per-page") != "20" {
		t.Errorf("per-page = %q, want default 20", (*query).Get("per-page"))
	}
	if (*query).Get("filter") != "" || (*query).Get("search") != "" {
		t.Errorf("unexpected criteria: filter=%q search=%q", (*query).Get("filter"), (*query).Get("search"))
	}

	// Explicit citation sort, open-ended year range, capped page size.
	_, err = c.SearchWorks(context.Background(), types.WorkFilters{FromYear: 2019, SortBy: "cited_by_count"}, 500)
	if err != nil {
		t.Fatalf("SearchWorks: %v", err)
	}
	if (*query).Get("sort") != "cited_by_count:desc" {
		t.Errorf("sort = %q", (*query).Get("sort"))
	}
	if (*query).Get("filter") != "publication_year:>=2019" {
		t.Errorf("filter = %q", (*query).Get("filter"))
	}
	if (*query).Get("per-page") != "100" {
		t.Errorf("per-page = %q, want capped 100", (*query).Get("per-page"))
	}
}

func TestGetWork(t *testing.T) {
	body := `{
		"id": "https://openalex.org/W100",
		"title": "Deep Learning for Genomics",
		"doi": "https://doi.org/10.1000/xyz",
		"publication_year": 2023,
		"type": "article",
		"cited_by_count": 45,
		"open_access": {"is_oa": true, "oa_status": "gold"},
		"primary_location": {"source": {"id": "https://openalex.org/S1", "display_name": "Nature Methods", "type": "journal"}},
		"authorships": [
			{"author": {"id": "https://openalex.org/A1", "display_name": "Jane Doe"},
			 "institutions": [{"display_name": "Acme University", "country_code": "US"}]}
		],
		"concepts": [
			{"display_name": "Genomics", "score": 0.91},
			{"display_name": "Machine Learning", "score": 0.85}
		],
		"referenced_works": ["https://openalex.org/W1", "https://openalex.org/W2"]
	}`
	c, _ := newTestClient(t, http.StatusOK, body)

	got, err := c.GetWork(context.Background(), "https://openalex.org/W100")
	if err != nil {
		t.Fatalf("GetWork: %v", err)
	}
	if got.Title != "Deep Learning for Genomics" || got.DOI != "https://doi.org/10.1000/xyz" {
		t.Errorf("got = %+v", got)
	}
	if !got.OpenAccess || got.OAStatus != "gold" {
		t.Errorf("open access = %v/%q", got.OpenAccess, got.OAStatus)
	}
	if got.Venue != "Nature Methods" || got.VenueType != "journal" {
		t.Errorf("venue = %q/%q", got.Venue, got.VenueType)
	}
	if len(got.Authors) != 1 || got.Authors[0].DisplayName != "Jane Doe" {
		t.Fatalf("Authors = %+v", got.Authors)
	}
	if len(got.Authors[0].Institutions) != 1 || got.Authors[0].Institutions[0] != "Acme University" {
		t.Errorf("Institutions = %v", got.Authors[0].Institutions)
	}
	if len(got.Concepts) != 2 || got.Concepts[0].Name != "Genomics" || got.Concepts[0].Score != 0.91 {
		t.Errorf("Concepts = %+v", got.Concepts)
	}
	if len(got.ReferencedWorks) != 2 {
		t.Errorf("ReferencedWorks = %v", got.ReferencedWorks)
	}

	_, err = c.GetWork(context.Background(), "  ")
	if err == nil {
		t.Error("expected error for empty ID")
	}
}

func TestSearchTopics(t *testing.T) {
	body := `{
		"meta": {"count": 1},
		"results": [
			{"id": "https://openalex.org/C1", "display_name": "Machine Learning",
			 "description": "Study of algorithms that improve through experience",
			 "level": 1, "works_count": 500000, "cited_by_count": 9000000,
			 "related_concepts": [
				{"display_name": "Artificial Intelligence"},
				{"display_name": "Deep Learning"},
				{"display_name": "Statistics"},
				{"display_name": "Data Mining"}
			 ]}
		]
	}`
	c, query := newTestClient(t, http.StatusOK, body)

	got, err := c.SearchTopics(context.Background(), "machine learning", 1, 10)
	if err != nil {
		t.Fatalf("SearchTopics: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got) = %d, want 1", len(got))
	}
	topic := got[0]
	if topic.DisplayName != "Machine Learning" || topic.Level != 1 || topic.WorksCount != 500000 {
		t.Errorf("topic = %+v", topic)
	}
	// Related concepts are capped at three.
	if len(topic.RelatedTopics) != 3 || topic.RelatedTopics[0] != "Artificial Intelligence" {
		t.Errorf("RelatedTopics = %v", topic.RelatedTopics)
	}

	if (*query).Get("search") != "machine learning" {
		t.Errorf("search = %q", (*query).Get("search"))
	}
	if (*query).Get("filter") != "level:1" {
		t.Errorf("filter = %q", (*query).Get("filter"))
	}
}

func TestSearchTopicsPopularDefault(t *testing.T) {
	c, query := newTestClient(t, http.StatusOK, `{"meta":{},"results":[]}`)

	// Empty query lists popular topics; negative level means no filter.
	_, err := c.SearchTopics(context.Background(), "", -1, 0)
	if err != nil {
		t.Fatalf("SearchTopics: %v", err)
	}
	if (*query).Get("sort") != "works_count:desc" {
		t.Errorf("sort = %q, want works_count:desc", (*query).Get("sort"))
	}
	if (*query).Get("search") != "" || (*query).Get("filter") != "" {
		t.Errorf("unexpected criteria: search=%q filter=%q", (*query).Get("search"), (*query).Get("filter"))
	}
	if (*query).Get("per-page") != "20" {
		t.Errorf("per-page = %q, want default 20", (*query).Get("per-page"))
	}
}

func TestDecodeAbstract(t *testing.T) {
	tests := []struct {
		name  string
		index map[string][]int
		want  string
	}{
		{"nil index", nil, ""},
		{"empty index", map[string][]int{}, ""},
		{"ordered by position", map[string][]int{"world": {1}, "hello": {0}}, "hello world"},
		{"repeated word", map[string][]int{"the": {0, 2}, "cat": {1}, "sat": {3}}, "the cat the sat"},
		{"gaps are skipped", map[string][]int{"start": {0}, "end": {5}}, "start end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeAbstract(tt.index); got != tt.want {
				t.Errorf("decodeAbstract = %q, want %q", got, tt.want)
			}
		})
	}
}
