package omdb

import (
	"strconv"
	"strings"
)

// Envelope flag values used by OMDb in the "Response" field.
const (
	ResponseTrue  = "True"
	ResponseFalse = "False"
)

// SimpleMovie is one entry of a title search. Field casing follows OMDb.
type SimpleMovie struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDbID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// HasPoster reports whether OMDb supplied a usable poster URL.
func (m SimpleMovie) HasPoster() bool {
	return hasPoster(m.Poster)
}

// SearchResponse mirrors the `s=` search payload.
type SearchResponse struct {
	Response     string        `json:"Response"`
	Search       []SimpleMovie `json:"Search,omitempty"`
	TotalResults string        `json:"totalResults,omitempty"`
	Error        string        `json:"Error,omitempty"`
}

// OK reports whether the envelope carries a success flag.
func (r SearchResponse) OK() bool {
	return r.Response != ResponseFalse
}

// Total returns totalResults as an int, or the page length when absent.
func (r SearchResponse) Total() int {
	if n, err := strconv.Atoi(strings.TrimSpace(r.TotalResults)); err == nil {
		return n
	}
	return len(r.Search)
}

// Rating is a single third-party score attached to a detailed movie.
type Rating struct {
	Source string `json:"Source"`
	Value  string `json:"Value"`
}

// DetailedMovie mirrors the `i=` lookup payload.
type DetailedMovie struct {
	Title      string   `json:"Title"`
	Year       string   `json:"Year"`
	Rated      string   `json:"Rated"`
	Released   string   `json:"Released"`
	Runtime    string   `json:"Runtime"`
	Genre      string   `json:"Genre"`
	Director   string   `json:"Director"`
	Writer     string   `json:"Writer"`
	Actors     string   `json:"Actors"`
	Plot       string   `json:"Plot"`
	Language   string   `json:"Language"`
	Country    string   `json:"Country"`
	Awards     string   `json:"Awards"`
	Poster     string   `json:"Poster"`
	Ratings    []Rating `json:"Ratings"`
	Metascore  string   `json:"Metascore"`
	IMDbRating string   `json:"imdbRating"`
	IMDbVotes  string   `json:"imdbVotes"`
	IMDbID     string   `json:"imdbID"`
	Type       string   `json:"Type"`
	DVD        string   `json:"DVD"`
	BoxOffice  string   `json:"BoxOffice"`
	Production string   `json:"Production"`
	Website    string   `json:"Website"`
	Response   string   `json:"Response"`
	Error      string   `json:"Error,omitempty"`
}

// OK reports whether the envelope carries a success flag.
func (d DetailedMovie) OK() bool {
	return d.Response != ResponseFalse
}

// HasPoster reports whether OMDb supplied a usable poster URL.
func (d DetailedMovie) HasPoster() bool {
	return hasPoster(d.Poster)
}

// GenreList splits the comma separated Genre field.
func (d DetailedMovie) GenreList() []string {
	return splitList(d.Genre)
}

// ActorList splits the comma separated Actors field.
func (d DetailedMovie) ActorList() []string {
	return splitList(d.Actors)
}

func hasPoster(url string) bool {
	url = strings.TrimSpace(url)
	return url != "" && !strings.EqualFold(url, "N/A")
}

func splitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "N/A") {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
