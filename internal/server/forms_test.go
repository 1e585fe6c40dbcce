package server

import (
	"testing"

	"cinefile/internal/utils"
	"cinefile/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestMovieInputValidate(t *testing.T) {
	valid := func() movieInput {
		return newMovieInput(&types.Movie{
			Title:       utils.StringPtr("Heat"),
			Director:    utils.StringPtr("Michael Mann"),
			ReleaseYear: utils.IntPtr(1995),
			Duration:    utils.StringPtr("170 min"),
			Type:        utils.StringPtr(types.MovieTypeMovie),
			Description: utils.StringPtr("A group of high-end professional thieves start to feel the heat."),
			Cast:        utils.StringPtr("Al Pacino, Robert De Niro"),
			Rating:      utils.StringPtr("R"),
		}, types.GenreThrillers)
	}

	tests := []struct {
		name       string
		mutate     func(in *movieInput)
		wantFields []string
	}{
		{name: "valid without country", mutate: func(in *movieInput) {}},
		{name: "missing title", mutate: func(in *movieInput) { in.Title = "" }, wantFields: []string{"title"}},
		{name: "missing year", mutate: func(in *movieInput) { in.ReleaseYear = nil }, wantFields: []string{"releaseYear"}},
		{name: "year too early", mutate: func(in *movieInput) { in.ReleaseYear = utils.IntPtr(1800) }, wantFields: []string{"releaseYear"}},
		{name: "unknown type", mutate: func(in *movieInput) { in.Type = "Podcast" }, wantFields: []string{"type"}},
		{
			name:       "missing genre and cast",
			mutate:     func(in *movieInput) { in.Genre = ""; in.Cast = "" },
			wantFields: []string{"cast", "genre"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid()
			tt.mutate(&in)

			errs := fieldErrors(in.Validate())

			keys := make([]string, 0, len(errs))
			for k := range errs {
				keys = append(keys, k)
			}
			assert.ElementsMatch(t, tt.wantFields, keys)
		})
	}
}

func TestFieldErrorsNonValidationError(t *testing.T) {
	errs := fieldErrors(assert.AnError)
	assert.Equal(t, map[string]string{"": assert.AnError.Error()}, errs)
}
