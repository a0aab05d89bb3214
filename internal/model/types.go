package model

import (
	"strconv"
	"strings"
)

// ================== 通用响应 ==================

// APIResponse is the standard API response format
type APIResponse struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Source  string      `json:"source,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ================== 影片数据模型 ==================

// SearchResult is a single row of a title search
type SearchResult struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Year      string `json:"year"`
	PosterURL string `json:"posterUrl"`
}

// MovieDetail contains detailed information about a movie.
// Runtime and ExternalRating are kept as delivered by the API ("148 min", "7.7").
type MovieDetail struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Year           string `json:"year"`
	PosterURL      string `json:"posterUrl"`
	Runtime        string `json:"runtime"`
	Plot           string `json:"plot"`
	ReleaseDate    string `json:"releaseDate"`
	Actors         string `json:"actors"`
	Director       string `json:"director"`
	Genre          string `json:"genre"`
	ExternalRating string `json:"externalRating"`
}

// RuntimeMinutes parses the leading number of Runtime. "N/A" and empty values give 0.
func (d MovieDetail) RuntimeMinutes() int {
	fields := strings.Fields(d.Runtime)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}

// ExternalRatingValue parses ExternalRating as a number. "N/A" and empty values give 0.
func (d MovieDetail) ExternalRatingValue() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(d.ExternalRating), 64)
	if err != nil {
		return 0
	}
	return v
}

// ================== 观看列表 ==================

// WatchedEntry is one movie on the user's watched list. The JSON layout is the
// persisted slot format and must stay stable.
type WatchedEntry struct {
	ID                  string  `json:"imdbID"`
	Title               string  `json:"title"`
	Year                string  `json:"year"`
	PosterURL           string  `json:"poster"`
	ExternalRating      float64 `json:"imdbRating"`
	UserRating          int     `json:"userRating"`
	RuntimeMinutes      int     `json:"runtime"`
	RatingRevisionCount int     `json:"ratingRevisionCount"`
}

// NewWatchedEntry builds the entry recorded when the user confirms a detail view
func NewWatchedEntry(detail MovieDetail, userRating, revisions int) WatchedEntry {
	return WatchedEntry{
		ID:                  detail.ID,
		Title:               detail.Title,
		Year:                detail.Year,
		PosterURL:           detail.PosterURL,
		ExternalRating:      detail.ExternalRatingValue(),
		UserRating:          userRating,
		RuntimeMinutes:      detail.RuntimeMinutes(),
		RatingRevisionCount: revisions,
	}
}

// ================== OMDb API 响应 ==================

// OMDBSearchItem is one element of the OMDb "Search" array
type OMDBSearchItem struct {
	ImdbID string `json:"imdbID"`
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// OMDBSearchResponse is the response from the OMDb search API (s=)
type OMDBSearchResponse struct {
	Search       []OMDBSearchItem `json:"Search"`
	TotalResults string           `json:"totalResults"`
	Response     string           `json:"Response"`
	Error        string           `json:"Error"`
}

// OMDBDetailResponse is the response from the OMDb lookup API (i=)
type OMDBDetailResponse struct {
	ImdbID     string `json:"imdbID"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	Plot       string `json:"Plot"`
	Released   string `json:"Released"`
	Actors     string `json:"Actors"`
	Director   string `json:"Director"`
	Genre      string `json:"Genre"`
	ImdbRating string `json:"imdbRating"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

// Failed reports whether OMDb flagged the response as unsuccessful
func (r OMDBSearchResponse) Failed() bool {
	return r.Response == "False"
}

// Failed reports whether OMDb flagged the response as unsuccessful
func (r OMDBDetailResponse) Failed() bool {
	return r.Response == "False"
}

// SearchResult maps the OMDb item onto the semantic model
func (i OMDBSearchItem) SearchResult() SearchResult {
	return SearchResult{
		ID:        i.ImdbID,
		Title:     i.Title,
		Year:      i.Year,
		PosterURL: i.Poster,
	}
}

// MovieDetail maps the OMDb lookup onto the semantic model
func (r OMDBDetailResponse) MovieDetail() MovieDetail {
	return MovieDetail{
		ID:             r.ImdbID,
		Title:          r.Title,
		Year:           r.Year,
		PosterURL:      r.Poster,
		Runtime:        r.Runtime,
		Plot:           r.Plot,
		ReleaseDate:    r.Released,
		Actors:         r.Actors,
		Director:       r.Director,
		Genre:          r.Genre,
		ExternalRating: r.ImdbRating,
	}
}
