package seed

import (
	"context"
	"fmt"

	"cinefile/internal/store"
	"cinefile/internal/utils"
	"cinefile/pkg/types"
)

type movieSeed struct {
	ShowID      string
	Type        string
	Title       string
	Director    string
	Cast        string
	Country     string
	ReleaseYear int
	Rating      string
	Duration    string
	Description string
	Genre       types.Genre
}

// Fixed ids keep the seed idempotent. Generate new ones with
// `go run ./cmd/cinefile nanoid`.
var sampleMovies = []movieSeed{
	{
		ShowID: "s1", Type: types.MovieTypeMovie, Title: "Dick Johnson Is Dead", Director: "Kirsten Johnson",
		Country: "United States", ReleaseYear: 2020, Rating: "PG-13", Duration: "90 min",
		Description: "As her father nears the end of his life, filmmaker Kirsten Johnson stages his death in inventive and comical ways to help them both face the inevitable.",
		Genre:       types.GenreDocumentaries,
	},
	{
		ShowID: "s2", Type: types.MovieTypeTVShow, Title: "Blood & Water", Cast: "Ama Qamata, Khosi Ngema, Gail Mabalane",
		Country: "South Africa", ReleaseYear: 2021, Rating: "TV-MA", Duration: "2 Seasons",
		Description: "After crossing paths at a party, a Cape Town teen sets out to prove whether a private-school swimming star is her sister who was abducted at birth.",
		Genre:       types.GenreInternationalTvShowsRomanticTvShowsDramas,
	},
	{
		ShowID: "s7", Type: types.MovieTypeMovie, Title: "My Little Pony: A New Generation", Director: "Robert Cullen, José Luis Ucha",
		Cast: "Vanessa Hudgens, Kimiko Glenn, James Marsden", ReleaseYear: 2021, Rating: "PG", Duration: "91 min",
		Description: "Equestria's divided. But a bright-eyed hero believes Earth Ponies, Pegasi and Unicorns should be pals and, hoof to heart, she's determined to prove it.",
		Genre:       types.GenreChildren,
	},
	{
		ShowID: "s9", Type: types.MovieTypeTVShow, Title: "The Great British Baking Show", Director: "Andy Devonshire",
		Cast: "Mel Giedroyc, Sue Perkins, Mary Berry, Paul Hollywood", Country: "United Kingdom", ReleaseYear: 2021,
		Rating: "TV-14", Duration: "9 Seasons",
		Description: "A talented batch of amateur bakers face off in a 10-week competition, whipping up their best dishes in the hopes of being named the U.K.'s best.",
		Genre:       types.GenreRealityTv,
	},
}

// SeedMovies upserts the sample titles. Existing rows with the same show id
// are overwritten.
func SeedMovies(ctx context.Context, repo *store.MovieRepository) error {
	for _, s := range sampleMovies {
		movie := s.movie()
		fmt.Printf("  Upserting movie: %s (show id: %s)\n", s.Title, s.ShowID)
		if err := repo.UpsertMovie(ctx, movie); err != nil {
			return fmt.Errorf("failed to upsert movie %s: %w", s.ShowID, err)
		}
	}

	fmt.Printf("\nMovie seed complete: %d upserted\n", len(sampleMovies))
	return nil
}

func (s movieSeed) movie() *types.Movie {
	return &types.Movie{
		ShowID:      utils.StringPtr(s.ShowID),
		Type:        optional(s.Type),
		Title:       optional(s.Title),
		Director:    optional(s.Director),
		Cast:        optional(s.Cast),
		Country:     optional(s.Country),
		ReleaseYear: utils.IntPtr(s.ReleaseYear),
		Rating:      optional(s.Rating),
		Duration:    optional(s.Duration),
		Description: optional(s.Description),
		Genres:      types.FlagsFor(s.Genre),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return utils.StringPtr(s)
}
