package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Movie is one catalog title. Every descriptive field is optional on input.
// Genre flags live in Genres and are stored one column per genre.
type Movie struct {
	ShowID      *string `db:"show_id" json:"showId"`
	Type        *string `db:"type" json:"type"`
	Title       *string `db:"title" json:"title"`
	Director    *string `db:"director" json:"director"`
	Cast        *string `db:"cast_members" json:"cast"`
	Country     *string `db:"country" json:"country"`
	ReleaseYear *int    `db:"release_year" json:"releaseYear"`
	Rating      *string `db:"rating" json:"rating"`
	Duration    *string `db:"duration" json:"duration"`
	Description *string `db:"description" json:"description"`

	Genres GenreFlags `db:"-" json:"-"`
}

// Clone returns a copy that shares no mutable state with m.
func (m *Movie) Clone() *Movie {
	if m == nil {
		return nil
	}
	out := *m
	out.ShowID = cloneString(m.ShowID)
	out.Type = cloneString(m.Type)
	out.Title = cloneString(m.Title)
	out.Director = cloneString(m.Director)
	out.Cast = cloneString(m.Cast)
	out.Country = cloneString(m.Country)
	out.Rating = cloneString(m.Rating)
	out.Duration = cloneString(m.Duration)
	out.Description = cloneString(m.Description)
	if m.ReleaseYear != nil {
		y := *m.ReleaseYear
		out.ReleaseYear = &y
	}
	out.Genres = m.Genres.Clone()
	return &out
}

// HasShowID reports whether the record carries a usable identifier.
func (m *Movie) HasShowID() bool {
	return m != nil && m.ShowID != nil && strings.TrimSpace(*m.ShowID) != ""
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Field keys of the editable scalar fields. They match the JSON names.
const (
	FieldTitle       = "title"
	FieldDirector    = "director"
	FieldReleaseYear = "releaseYear"
	FieldDuration    = "duration"
	FieldType        = "type"
	FieldDescription = "description"
	FieldCast        = "cast"
	FieldCountry     = "country"
	FieldRating      = "rating"
)

type MovieField struct {
	Key      string
	Label    string
	Numeric  bool
	Required bool
}

// MovieFields lists the editable scalar fields in form order.
var MovieFields = []MovieField{
	{Key: FieldTitle, Label: "Movie Title", Required: true},
	{Key: FieldDirector, Label: "Director", Required: true},
	{Key: FieldReleaseYear, Label: "Release Year", Numeric: true, Required: true},
	{Key: FieldDuration, Label: "Duration", Required: true},
	{Key: FieldType, Label: "Type", Required: true},
	{Key: FieldDescription, Label: "Description", Required: true},
	{Key: FieldCast, Label: "Cast", Required: true},
	{Key: FieldCountry, Label: "Country"},
	{Key: FieldRating, Label: "Rating", Required: true},
}

func LookupMovieField(key string) (MovieField, bool) {
	for _, f := range MovieFields {
		if f.Key == key {
			return f, true
		}
	}
	return MovieField{}, false
}

// TextField returns the address of the text field named key, or nil when key
// is not a text field.
func (m *Movie) TextField(key string) **string {
	switch key {
	case FieldTitle:
		return &m.Title
	case FieldDirector:
		return &m.Director
	case FieldDuration:
		return &m.Duration
	case FieldType:
		return &m.Type
	case FieldDescription:
		return &m.Description
	case FieldCast:
		return &m.Cast
	case FieldCountry:
		return &m.Country
	case FieldRating:
		return &m.Rating
	}
	return nil
}

const (
	MovieTypeMovie  = "Movie"
	MovieTypeTVShow = "TV Show"
)

var MovieTypes = []string{MovieTypeMovie, MovieTypeTVShow}

var Ratings = []string{"G", "PG", "PG-13", "R", "TV-G", "TV-PG", "TV-14", "TV-MA"}

// movieAlias drops the JSON methods so the scalar fields use the default codec.
type movieAlias Movie

// MarshalJSON writes the scalar fields followed by every present genre flag
// as a top-level integer key, matching the flat catalog payload.
func (m Movie) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(movieAlias(m))
	if err != nil {
		return nil, err
	}

	out := make(map[string]json.RawMessage, len(Genres)+10)
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}

	for _, g := range Genres {
		v, ok := m.Genres[g.Key]
		if !ok {
			continue
		}
		out[string(g.Key)] = json.RawMessage(fmt.Sprintf("%d", v))
	}

	return json.Marshal(out)
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	var alias movieAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	flags := make(GenreFlags)
	for _, g := range Genres {
		v, ok := raw[string(g.Key)]
		if !ok {
			continue
		}

		var n *int
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("genre flag %s: %w", g.Key, err)
		}
		if n != nil {
			flags[g.Key] = *n
		}
	}

	*m = Movie(alias)
	m.Genres = flags
	return nil
}

// MovieForm is the edit form payload. Nil fields were not posted.
type MovieForm struct {
	Title       *string `form:"title"`
	Director    *string `form:"director"`
	ReleaseYear *string `form:"releaseYear"`
	Duration    *string `form:"duration"`
	Type        *string `form:"type"`
	Description *string `form:"description"`
	Cast        *string `form:"cast"`
	Country     *string `form:"country"`
	Rating      *string `form:"rating"`
	Genre       *string `form:"genre"`
}

// Values returns the posted scalar fields keyed by field key, in form order.
func (f *MovieForm) Values() []FieldValue {
	pairs := []struct {
		key string
		val *string
	}{
		{FieldTitle, f.Title},
		{FieldDirector, f.Director},
		{FieldReleaseYear, f.ReleaseYear},
		{FieldDuration, f.Duration},
		{FieldType, f.Type},
		{FieldDescription, f.Description},
		{FieldCast, f.Cast},
		{FieldCountry, f.Country},
		{FieldRating, f.Rating},
	}

	out := make([]FieldValue, 0, len(pairs))
	for _, p := range pairs {
		if p.val == nil {
			continue
		}
		out = append(out, FieldValue{Key: p.key, Value: *p.val})
	}
	return out
}

type FieldValue struct {
	Key   string
	Value string
}
