// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package openalex is the upstream metadata client: author search,
// single-record fetch, bounded work samples, autocomplete, and
// institution search against the OpenAlex API.
package openalex

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/scholar-id/internal/httputil"
	"github.com/pdiddy/scholar-id/pkg/types"
)

// apiBase is the OpenAlex API root. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://api.openalex.org"

// openAlexURLPrefix is stripped from entity identifiers; the API accepts
// bare IDs and URL-form IDs come back in every payload.
const openAlexURLPrefix = "https://openalex.org/"

// Field projections keep responses small and avoid the 403s the API
// returns for some full-record selects.
const (
	authorSelectFields = "id,display_name,display_name_alternatives,orcid," +
		"last_known_institutions,works_count,cited_by_count,summary_stats,x_concepts"
	workSelectFields        = "id,title,publication_year,authorships,cited_by_count"
	institutionSelectFields = "id,display_name,display_name_alternatives,country_code,type,homepage_url"
	workSearchSelectFields  = "id,title,publication_year,type,open_access,authorships," +
		"primary_location,cited_by_count,abstract_inverted_index"
	topicSelectFields = "id,display_name,description,level,works_count,cited_by_count,related_concepts"
)

// maxTopics bounds how many concepts are carried onto a candidate record.
const maxTopics = 5

// Per-page maxima and truncation bounds per endpoint.
const (
	authorsPageLimit = 25
	worksPageLimit   = 100
	topicsPageLimit  = 50
	maxRelatedTopics = 3
)

// Client queries the OpenAlex API. A zero MaxRetries uses the retry
// helper's default.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// Email is sent as the mailto parameter for polite pool access.
	Email string
	// APIKey is an optional premium key.
	APIKey     string
	MaxRetries int
}

// New builds a Client from configuration.
func New(cfg types.OpenAlexConfig) *Client {
	return &Client{
		HTTP:       &http.Client{Timeout: cfg.Timeout},
		UserAgent:  cfg.UserAgent,
		Email:      cfg.Email,
		APIKey:     cfg.APIKey,
		MaxRetries: cfg.MaxRetries,
	}
}

// SearchAuthors looks up candidate author records. An ORCID filter routes
// the lookup through the identifier index; otherwise the name drives a
// relevance search. An affiliation narrows either form server-side.
func (c *Client) SearchAuthors(ctx context.Context, filters types.AuthorFilters, count int) ([]types.AuthorCandidate, error) {
	if count <= 0 {
		count = 10
	}
	if count > authorsPageLimit {
		count = authorsPageLimit
	}

	params := url.Values{
		"per-page": {strconv.Itoa(count)},
		"select":   {authorSelectFields},
	}

	var apiFilters []string
	if filters.ORCID != "" {
		apiFilters = append(apiFilters, "orcid:"+filters.ORCID)
	} else {
		if strings.TrimSpace(filters.Name) == "" {
			return nil, fmt.Errorf("empty author search: name or ORCID required")
		}
		params.Set("search", filters.Name)
	}
	if filters.Affiliation != "" {
		apiFilters = append(apiFilters, fmt.Sprintf("last_known_institutions.display_name.search:%q", filters.Affiliation))
	}
	if len(apiFilters) > 0 {
		params.Set("filter", strings.Join(apiFilters, ","))
	}

	var resp authorsResponse
	if err := c.get(ctx, "/authors", params, &resp); err != nil {
		return nil, err
	}

	candidates := make([]types.AuthorCandidate, 0, len(resp.Results))
	for _, rec := range resp.Results {
		candidates = append(candidates, rec.toCandidate())
	}
	return candidates, nil
}

// GetAuthor fetches a single author record by OpenAlex ID (bare or URL form).
func (c *Client) GetAuthor(ctx context.Context, id string) (types.AuthorCandidate, error) {
	clean := CleanID(id)
	if clean == "" {
		return types.AuthorCandidate{}, fmt.Errorf("empty author ID")
	}

	var rec authorRecord
	if err := c.get(ctx, "/authors/"+url.PathEscape(clean), url.Values{}, &rec); err != nil {
		return types.AuthorCandidate{}, err
	}
	return rec.toCandidate(), nil
}

// FetchWorkSamples returns up to limit recent works for one author,
// reduced to authorship-position samples. Works where the author does not
// appear in the authorship list cannot be attributed to a position and
// are dropped.
func (c *Client) FetchWorkSamples(ctx context.Context, authorID string, limit int) ([]types.WorkSample, error) {
	clean := CleanID(authorID)
	if clean == "" {
		return nil, fmt.Errorf("empty author ID")
	}
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{
		"filter":   {"author.id:" + clean},
		"per-page": {strconv.Itoa(limit)},
		"sort":     {"publication_date:desc"},
		"select":   {workSelectFields},
	}

	var resp worksResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	var samples []types.WorkSample
	for _, work := range resp.Results {
		position := 0
		for i, authorship := range work.Authorships {
			if CleanID(authorship.Author.ID) == clean {
				position = i + 1
				break
			}
		}
		if position == 0 {
			continue
		}
		samples = append(samples, types.WorkSample{
			Title:          work.Title,
			Year:           work.PublicationYear,
			AuthorPosition: position,
			TotalAuthors:   len(work.Authorships),
			CitedByCount:   work.CitedByCount,
		})
	}
	return samples, nil
}

// AutocompleteAuthors runs the fast prefix search used for type-ahead.
func (c *Client) AutocompleteAuthors(ctx context.Context, query string, limit int) ([]types.AuthorSuggestion, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty autocomplete query")
	}

	params := url.Values{"q": {query}}

	var resp autocompleteResponse
	if err := c.get(ctx, "/autocomplete/authors", params, &resp); err != nil {
		return nil, err
	}

	suggestions := make([]types.AuthorSuggestion, 0, len(resp.Results))
	for _, hit := range resp.Results {
		suggestions = append(suggestions, types.AuthorSuggestion{
			ID:           hit.ID,
			DisplayName:  hit.DisplayName,
			Hint:         hit.Hint,
			ORCID:        hit.ExternalID,
			WorksCount:   hit.WorksCount,
			CitedByCount: hit.CitedByCount,
		})
	}
	if limit > 0 && len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	return suggestions, nil
}

// SearchInstitutions looks up institution records by name fragment.
func (c *Client) SearchInstitutions(ctx context.Context, query string, count int) ([]types.InstitutionRecord, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty institution query")
	}
	if count <= 0 {
		count = 5
	}

	params := url.Values{
		"search":   {query},
		"per-page": {strconv.Itoa(count)},
		"select":   {institutionSelectFields},
	}

	var resp institutionsResponse
	if err := c.get(ctx, "/institutions", params, &resp); err != nil {
		return nil, err
	}

	records := make([]types.InstitutionRecord, 0, len(resp.Results))
	for _, rec := range resp.Results {
		records = append(records, types.InstitutionRecord{
			ID:             rec.ID,
			DisplayName:    rec.DisplayName,
			AlternateNames: rec.DisplayNameAlternatives,
			CountryCode:    rec.CountryCode,
			Type:           rec.Type,
			HomepageURL:    rec.HomepageURL,
		})
	}
	return records, nil
}

// SearchWorks searches publications with optional author, year range,
// type, and topic filters. With no criteria at all it returns recent
// works, newest first.
func (c *Client) SearchWorks(ctx context.Context, filters types.WorkFilters, count int) ([]types.WorkRecord, error) {
	if count <= 0 {
		count = 20
	}
	if count > worksPageLimit {
		count = worksPageLimit
	}

	params := url.Values{
		"per-page": {strconv.Itoa(count)},
		"select":   {workSearchSelectFields},
	}
	if filters.Query != "" {
		params.Set("search", filters.Query)
	}

	var apiFilters []string
	if filters.AuthorName != "" {
		apiFilters = append(apiFilters, fmt.Sprintf("author.display_name.search:%q", filters.AuthorName))
	}
	switch {
	case filters.FromYear > 0 && filters.ToYear > 0:
		apiFilters = append(apiFilters, fmt.Sprintf("publication_year:>=%d,<=%d", filters.FromYear, filters.ToYear))
	case filters.FromYear > 0:
		apiFilters = append(apiFilters, fmt.Sprintf("publication_year:>=%d", filters.FromYear))
	case filters.ToYear > 0:
		apiFilters = append(apiFilters, fmt.Sprintf("publication_year:<=%d", filters.ToYear))
	}
	if filters.SourceType != "" {
		apiFilters = append(apiFilters, "type:"+filters.SourceType)
	}
	if filters.Topic != "" {
		apiFilters = append(apiFilters, fmt.Sprintf("concepts.display_name.search:%q", filters.Topic))
	}
	if len(apiFilters) > 0 {
		params.Set("filter", strings.Join(apiFilters, ","))
	}

	switch filters.SortBy {
	case "cited_by_count":
		params.Set("sort", "cited_by_count:desc")
	case "publication_date":
		params.Set("sort", "publication_date:desc")
	default:
		// Relevance ordering needs search criteria; an empty filter set
		// falls back to recent works.
		if filters.Query == "" && len(apiFilters) == 0 {
			params.Set("sort", "publication_date:desc")
		}
	}

	var resp workSearchResponse
	if err := c.get(ctx, "/works", params, &resp); err != nil {
		return nil, err
	}

	records := make([]types.WorkRecord, 0, len(resp.Results))
	for _, rec := range resp.Results {
		records = append(records, rec.toRecord())
	}
	return records, nil
}

// GetWork fetches one publication's full record by OpenAlex ID (bare or
// URL form), including the reference list and concept tags.
func (c *Client) GetWork(ctx context.Context, id string) (types.WorkDetail, error) {
	clean := CleanID(id)
	if clean == "" {
		return types.WorkDetail{}, fmt.Errorf("empty work ID")
	}

	var rec workFullRecord
	if err := c.get(ctx, "/works/"+url.PathEscape(clean), url.Values{}, &rec); err != nil {
		return types.WorkDetail{}, err
	}
	return rec.toDetail(), nil
}

// SearchTopics looks up research topics (concepts) by name. An empty
// query lists popular topics by works count; level < 0 means any level.
func (c *Client) SearchTopics(ctx context.Context, query string, level, count int) ([]types.TopicRecord, error) {
	if count <= 0 {
		count = 20
	}
	if count > topicsPageLimit {
		count = topicsPageLimit
	}

	params := url.Values{
		"per-page": {strconv.Itoa(count)},
		"select":   {topicSelectFields},
	}
	if strings.TrimSpace(query) == "" {
		params.Set("sort", "works_count:desc")
	} else {
		params.Set("search", query)
	}
	if level >= 0 {
		params.Set("filter", fmt.Sprintf("level:%d", level))
	}

	var resp topicsResponse
	if err := c.get(ctx, "/concepts", params, &resp); err != nil {
		return nil, err
	}

	records := make([]types.TopicRecord, 0, len(resp.Results))
	for _, rec := range resp.Results {
		topic := types.TopicRecord{
			ID:           rec.ID,
			DisplayName:  rec.DisplayName,
			Description:  rec.Description,
			Level:        rec.Level,
			WorksCount:   rec.WorksCount,
			CitedByCount: rec.CitedByCount,
		}
		for i, related := range rec.RelatedConcepts {
			if i >= maxRelatedTopics {
				break
			}
			if related.DisplayName != "" {
				topic.RelatedTopics = append(topic.RelatedTopics, related.DisplayName)
			}
		}
		records = append(records, topic)
	}
	return records, nil
}

// get performs one API request with polite-pool parameters and retry on
// rate limiting, decoding the JSON body into v.
func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.Email != "" {
		params.Set("mailto", c.Email)
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}

	reqURL := apiBase + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return fmt.Errorf("OpenAlex API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("OpenAlex API returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parsing OpenAlex response: %w", err)
	}
	return nil
}

// CleanID strips the URL form from an OpenAlex entity identifier.
func CleanID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), openAlexURLPrefix)
}

// OpenAlex API JSON structures.

type authorsResponse struct {
	Meta    pageMeta       `json:"meta"`
	Results []authorRecord `json:"results"`
}

type pageMeta struct {
	Count   int `json:"count"`
	PerPage int `json:"per_page"`
	Page    int `json:"page"`
}

type authorRecord struct {
	ID                      string            `json:"id"`
	DisplayName             string            `json:"display_name"`
	DisplayNameAlternatives []string          `json:"display_name_alternatives"`
	ORCID                   string            `json:"orcid"`
	LastKnownInstitutions   []institutionItem `json:"last_known_institutions"`
	WorksCount              int               `json:"works_count"`
	CitedByCount            int               `json:"cited_by_count"`
	SummaryStats            summaryStats      `json:"summary_stats"`
	XConcepts               []conceptItem     `json:"x_concepts"`
}

type institutionItem struct {
	DisplayName string `json:"display_name"`
	CountryCode string `json:"country_code"`
}

type summaryStats struct {
	HIndex   int `json:"h_index"`
	I10Index int `json:"i10_index"`
}

type conceptItem struct {
	DisplayName string `json:"display_name"`
}

func (r authorRecord) toCandidate() types.AuthorCandidate {
	c := types.AuthorCandidate{
		ID:             r.ID,
		DisplayName:    r.DisplayName,
		AlternateNames: r.DisplayNameAlternatives,
		ORCID:          r.ORCID,
		WorksCount:     r.WorksCount,
		CitedByCount:   r.CitedByCount,
		HIndex:         r.SummaryStats.HIndex,
		I10Index:       r.SummaryStats.I10Index,
	}
	for _, inst := range r.LastKnownInstitutions {
		c.Institutions = append(c.Institutions, types.Institution{
			Name:    inst.DisplayName,
			Country: inst.CountryCode,
		})
	}
	for i, concept := range r.XConcepts {
		if i >= maxTopics {
			break
		}
		if concept.DisplayName != "" {
			c.Topics = append(c.Topics, concept.DisplayName)
		}
	}
	return c
}

type worksResponse struct {
	Meta    pageMeta     `json:"meta"`
	Results []workRecord `json:"results"`
}

type workRecord struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	PublicationYear int              `json:"publication_year"`
	Authorships     []authorshipItem `json:"authorships"`
	CitedByCount    int              `json:"cited_by_count"`
}

type authorshipItem struct {
	Author authorRef `json:"author"`
}

type authorRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

type autocompleteResponse struct {
	Results []autocompleteHit `json:"results"`
}

type autocompleteHit struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	Hint         string `json:"hint"`
	ExternalID   string `json:"external_id"`
	WorksCount   int    `json:"works_count"`
	CitedByCount int    `json:"cited_by_count"`
}

type workSearchResponse struct {
	Meta    pageMeta         `json:"meta"`
	Results []workFullRecord `json:"results"`
}

// workFullRecord is the rich form of a work used by publication search
// and single-work fetch; workRecord stays the slim authorship-only form.
type workFullRecord struct {
	ID                    string             `json:"id"`
	Title                 string             `json:"title"`
	DOI                   string             `json:"doi"`
	PublicationYear       int                `json:"publication_year"`
	Type                  string             `json:"type"`
	CitedByCount          int                `json:"cited_by_count"`
	OpenAccess            openAccessInfo     `json:"open_access"`
	Authorships           []workAuthorship   `json:"authorships"`
	PrimaryLocation       primaryLocation    `json:"primary_location"`
	AbstractInvertedIndex map[string][]int   `json:"abstract_inverted_index"`
	Concepts              []conceptScoreItem `json:"concepts"`
	ReferencedWorks       []string           `json:"referenced_works"`
}

type openAccessInfo struct {
	IsOA     bool   `json:"is_oa"`
	OAStatus string `json:"oa_status"`
}

type workAuthorship struct {
	Author       authorRef         `json:"author"`
	Institutions []institutionItem `json:"institutions"`
}

type primaryLocation struct {
	Source sourceItem `json:"source"`
}

type sourceItem struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Type        string `json:"type"`
}

type conceptScoreItem struct {
	DisplayName string  `json:"display_name"`
	Score       float64 `json:"score"`
}

func (r workFullRecord) toRecord() types.WorkRecord {
	rec := types.WorkRecord{
		ID:           r.ID,
		Title:        r.Title,
		Year:         r.PublicationYear,
		Type:         r.Type,
		Venue:        r.PrimaryLocation.Source.DisplayName,
		CitedByCount: r.CitedByCount,
		OpenAccess:   r.OpenAccess.IsOA,
		Abstract:     decodeAbstract(r.AbstractInvertedIndex),
	}
	for _, a := range r.Authorships {
		rec.Authors = append(rec.Authors, a.Author.DisplayName)
	}
	return rec
}

func (r workFullRecord) toDetail() types.WorkDetail {
	d := types.WorkDetail{
		ID:              r.ID,
		Title:           r.Title,
		DOI:             r.DOI,
		Year:            r.PublicationYear,
		Type:            r.Type,
		CitedByCount:    r.CitedByCount,
		OpenAccess:      r.OpenAccess.IsOA,
		OAStatus:        r.OpenAccess.OAStatus,
		Venue:           r.PrimaryLocation.Source.DisplayName,
		VenueType:       r.PrimaryLocation.Source.Type,
		Abstract:        decodeAbstract(r.AbstractInvertedIndex),
		ReferencedWorks: r.ReferencedWorks,
	}
	for _, a := range r.Authorships {
		author := types.WorkAuthor{
			ID:          a.Author.ID,
			DisplayName: a.Author.DisplayName,
		}
		for _, inst := range a.Institutions {
			author.Institutions = append(author.Institutions, inst.DisplayName)
		}
		d.Authors = append(d.Authors, author)
	}
	for i, concept := range r.Concepts {
		if i >= maxTopics {
			break
		}
		d.Concepts = append(d.Concepts, types.TopicScore{
			Name:  concept.DisplayName,
			Score: concept.Score,
		})
	}
	return d
}

// decodeAbstract rebuilds the abstract text from OpenAlex's inverted
// index (word -> positions). Positions may have gaps; they are skipped.
func decodeAbstract(index map[string][]int) string {
	if len(index) == 0 {
		return ""
	}
	maxPos := -1
	for _, positions := range index {
		for _, p := range positions {
			if p > maxPos {
				maxPos = p
			}
		}
	}
	if maxPos < 0 {
		return ""
	}
	slots := make([]string, maxPos+1)
	for word, positions := range index {
		for _, p := range positions {
			if p >= 0 {
				slots[p] = word
			}
		}
	}
	words := make([]string, 0, len(slots))
	for _, w := range slots {
		if w != "" {
			words = append(words, w)
		}
	}
	return strings.Join(words, " ")
}

type topicsResponse struct {
	Meta    pageMeta      `json:"meta"`
	Results []topicRecord `json:"results"`
}

type topicRecord struct {
	ID              string        `json:"id"`
	DisplayName     string        `json:"display_name"`
	Description     string        `json:"description"`
	Level           int           `json:"level"`
	WorksCount      int           `json:"works_count"`
	CitedByCount    int           `json:"cited_by_count"`
	RelatedConcepts []conceptItem `json:"related_concepts"`
}

type institutionsResponse struct {
	Meta    pageMeta            `json:"meta"`
	Results []institutionRecord `json:"results"`
}

type institutionRecord struct {
	ID                      string   `json:"id"`
	DisplayName             string   `json:"display_name"`
	DisplayNameAlternatives []string `json:"display_name_alternatives"`
	CountryCode             string   `json:"country_code"`
	Type                    string   `json:"type"`
	HomepageURL             string   `json:"homepage_url"`
}
