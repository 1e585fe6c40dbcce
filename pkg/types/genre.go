package types

// Genre is the key of one entry in the genre table. The zero value means no genre.
type Genre string

const (
	GenreAction                                    Genre = "action"
	GenreAdventure                                 Genre = "adventure"
	GenreAnimeSeriesInternationalTvShows           Genre = "animeSeriesInternationalTvShows"
	GenreBritishTvShowsDocuseriesInternationalTv   Genre = "britishTvShowsDocuseriesInternationalTvShows"
	GenreChildren                                  Genre = "children"
	GenreComedies                                  Genre = "comedies"
	GenreComediesDramasInternationalMovies         Genre = "comediesDramasInternationalMovies"
	GenreComediesInternationalMovies               Genre = "comediesInternationalMovies"
	GenreComediesRomanticMovies                    Genre = "comediesRomanticMovies"
	GenreCrimeTvShowsDocuseries                    Genre = "crimeTvShowsDocuseries"
	GenreDocumentaries                             Genre = "documentaries"
	GenreDocumentariesInternationalMovies          Genre = "documentariesInternationalMovies"
	GenreDocuseries                                Genre = "docuseries"
	GenreDramas                                    Genre = "dramas"
	GenreDramasInternationalMovies                 Genre = "dramasInternationalMovies"
	GenreDramasRomanticMovies                      Genre = "dramasRomanticMovies"
	GenreFamilyMovies                              Genre = "familyMovies"
	GenreFantasy                                   Genre = "fantasy"
	GenreHorrorMovies                              Genre = "horrorMovies"
	GenreInternationalMoviesThrillers              Genre = "internationalMoviesThrillers"
	GenreInternationalTvShowsRomanticTvShowsDramas Genre = "internationalTvShowsRomanticTvShowsTvDramas"
	GenreKidsTv                                    Genre = "kidsTv"
	GenreLanguageTvShows                           Genre = "languageTvShows"
	GenreMusicals                                  Genre = "musicals"
	GenreNatureTv                                  Genre = "natureTv"
	GenreRealityTv                                 Genre = "realityTv"
	GenreSpirituality                              Genre = "spirituality"
	GenreTvAction                                  Genre = "tvAction"
	GenreTvComedies                                Genre = "tvComedies"
	GenreTvDramas                                  Genre = "tvDramas"
	GenreTalkShowsTvComedies                       Genre = "talkShowsTvComedies"
	GenreThrillers                                 Genre = "thrillers"
)

// GenreOption ties a genre key to its display label and its storage column.
type GenreOption struct {
	Key    Genre
	Label  string
	Column string
}

// Genres is the single ordered genre table. Order matters: the active genre
// of a record is the first entry in this slice whose flag is set.
var Genres = []GenreOption{
	{GenreAction, "Action", "action"},
	{GenreAdventure, "Adventure", "adventure"},
	{GenreAnimeSeriesInternationalTvShows, "Anime Series / International TV Shows", "anime_series_international_tv_shows"},
	{GenreBritishTvShowsDocuseriesInternationalTv, "British TV Shows / Docuseries / International TV Shows", "british_tv_shows_docuseries_international_tv_shows"},
	{GenreChildren, "Children", "children"},
	{GenreComedies, "Comedies", "comedies"},
	{GenreComediesDramasInternationalMovies, "Comedies / Dramas (International Movies)", "comedies_dramas_international_movies"},
	{GenreComediesInternationalMovies, "Comedies (International Movies)", "comedies_international_movies"},
	{GenreComediesRomanticMovies, "Comedies (Romantic Movies)", "comedies_romantic_movies"},
	{GenreCrimeTvShowsDocuseries, "Crime TV Shows / Docuseries", "crime_tv_shows_docuseries"},
	{GenreDocumentaries, "Documentaries", "documentaries"},
	{GenreDocumentariesInternationalMovies, "Documentaries (International Movies)", "documentaries_international_movies"},
	{GenreDocuseries, "Docuseries", "docuseries"},
	{GenreDramas, "Dramas", "dramas"},
	{GenreDramasInternationalMovies, "Dramas (International Movies)", "dramas_international_movies"},
	{GenreDramasRomanticMovies, "Dramas (Romantic Movies)", "dramas_romantic_movies"},
	{GenreFamilyMovies, "Family Movies", "family_movies"},
	{GenreFantasy, "Fantasy", "fantasy"},
	{GenreHorrorMovies, "Horror Movies", "horror_movies"},
	{GenreInternationalMoviesThrillers, "International Movies / Thrillers", "international_movies_thrillers"},
	{GenreInternationalTvShowsRomanticTvShowsDramas, "International TV Shows / Romantic TV Shows / TV Dramas", "international_tv_shows_romantic_tv_shows_tv_dramas"},
	{GenreKidsTv, "Kids TV", "kids_tv"},
	{GenreLanguageTvShows, "Language TV Shows", "language_tv_shows"},
	{GenreMusicals, "Musicals", "musicals"},
	{GenreNatureTv, "Nature TV", "nature_tv"},
	{GenreRealityTv, "Reality TV", "reality_tv"},
	{GenreSpirituality, "Spirituality", "spirituality"},
	{GenreTvAction, "TV Action", "tv_action"},
	{GenreTvComedies, "TV Comedies", "tv_comedies"},
	{GenreTvDramas, "TV Dramas", "tv_dramas"},
	{GenreTalkShowsTvComedies, "Talk Shows / TV Comedies", "talk_shows_tv_comedies"},
	{GenreThrillers, "Thrillers", "thrillers"},
}

var genreIndex = func() map[Genre]int {
	idx := make(map[Genre]int, len(Genres))
	for i, g := range Genres {
		idx[g.Key] = i
	}
	return idx
}()

// LookupGenre returns the table entry for key.
func LookupGenre(key string) (GenreOption, bool) {
	i, ok := genreIndex[Genre(key)]
	if !ok {
		return GenreOption{}, false
	}
	return Genres[i], true
}

func (g Genre) Label() string {
	if opt, ok := LookupGenre(string(g)); ok {
		return opt.Label
	}
	return ""
}

// GenreFlags holds the one-hot genre columns of a record. A missing key means
// the flag was absent on the source record.
type GenreFlags map[Genre]int

func (f GenreFlags) Clone() GenreFlags {
	if f == nil {
		return nil
	}
	out := make(GenreFlags, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// WithDefaults returns a copy with every table genre present, keeping
// existing values and filling the rest with 0.
func (f GenreFlags) WithDefaults() GenreFlags {
	out := make(GenreFlags, len(Genres))
	for _, g := range Genres {
		out[g.Key] = f[g.Key]
	}
	for k, v := range f {
		if _, ok := genreIndex[k]; !ok {
			out[k] = v
		}
	}
	return out
}

// Active returns the first genre in table order whose flag equals 1, or ""
// when none is set.
func (f GenreFlags) Active() Genre {
	for _, g := range Genres {
		if f[g.Key] == 1 {
			return g.Key
		}
	}
	return ""
}

// SetCount reports how many table genres are flagged 1.
func (f GenreFlags) SetCount() int {
	n := 0
	for _, g := range Genres {
		if f[g.Key] == 1 {
			n++
		}
	}
	return n
}

// FlagsFor builds a full flag set with only g set. An empty g yields all zeros.
func FlagsFor(g Genre) GenreFlags {
	out := make(GenreFlags, len(Genres))
	for _, opt := range Genres {
		out[opt.Key] = 0
	}
	if g != "" {
		out[g] = 1
	}
	return out
}
