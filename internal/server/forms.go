package server

import (
	"errors"

	"cinefile/internal/utils"
	"cinefile/pkg/types"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// movieInput is the draft as the form sees it. Field names in errors are the
// json tags, which match the form field keys.
type movieInput struct {
	Title       string `json:"title"`
	Director    string `json:"director"`
	ReleaseYear *int   `json:"releaseYear"`
	Duration    string `json:"duration"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Cast        string `json:"cast"`
	Country     string `json:"country"`
	Rating      string `json:"rating"`
	Genre       string `json:"genre"`
}

func newMovieInput(m *types.Movie, active types.Genre) movieInput {
	return movieInput{
		Title:       utils.PtrString(m.Title),
		Director:    utils.PtrString(m.Director),
		ReleaseYear: m.ReleaseYear,
		Duration:    utils.PtrString(m.Duration),
		Type:        utils.PtrString(m.Type),
		Description: utils.PtrString(m.Description),
		Cast:        utils.PtrString(m.Cast),
		Country:     utils.PtrString(m.Country),
		Rating:      utils.PtrString(m.Rating),
		Genre:       string(active),
	}
}

func (in movieInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 255),
		),
		validation.Field(&in.Director, validation.Required.Error("director is required")),
		validation.Field(&in.ReleaseYear,
			validation.Required.Error("release year is required"),
			validation.Min(1888).Error("release year must be 1888 or later"),
			validation.Max(2100).Error("release year must be 2100 or earlier"),
		),
		validation.Field(&in.Duration, validation.Required.Error("duration is required")),
		validation.Field(&in.Type,
			validation.Required.Error("type is required"),
			validation.In(stringsToAny(types.MovieTypes)...).Error("type must be Movie or TV Show"),
		),
		validation.Field(&in.Description, validation.Required.Error("description is required")),
		validation.Field(&in.Cast, validation.Required.Error("cast is required")),
		validation.Field(&in.Rating,
			validation.Required.Error("rating is required"),
			validation.In(stringsToAny(types.Ratings)...).Error("rating is not a known rating"),
		),
		validation.Field(&in.Genre, validation.Required.Error("genre is required")),
	)
}

// fieldErrors flattens a validation result into messages keyed by field.
// Errors that are not per-field land under the empty key.
func fieldErrors(err error) map[string]string {
	out := make(map[string]string)
	if err == nil {
		return out
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		for field, ferr := range verrs {
			out[field] = ferr.Error()
		}
		return out
	}

	out[""] = err.Error()
	return out
}

func stringsToAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
