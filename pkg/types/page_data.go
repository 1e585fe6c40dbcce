package types

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

type BasePageData struct {
	Title  string
	Navbar NavbarData
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

type LoginPageData struct {
	BasePageData
	Error string
	Email string
}

type MovieListFilters struct {
	Search string
	Type   string
	Genre  string
}

type MovieListRow struct {
	ShowID      string
	Title       string
	Type        string
	ReleaseYear string
	Rating      string
	Genre       Genre
	MultiGenre  bool
}

type MoviesPageData struct {
	BasePageData
	Notice     string
	Error      string
	Movies     []MovieListRow
	Filters    MovieListFilters
	Genres     []GenreOption
	MovieTypes []string
}

// FormField is one rendered input of the movie edit form.
type FormField struct {
	Key      string
	Label    string
	Value    string
	Input    string // text, number or select
	Options  []string
	Required bool
	Error    string
}

type MovieEditPageData struct {
	BasePageData
	ShowID      string
	Fields      []FormField
	Genres      []GenreOption
	ActiveGenre Genre
	GenreError  string
	Error       string
}
