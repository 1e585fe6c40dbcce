package types

import "time"

// GenreRecord is a row of the genres lookup table, kept in sync with Genres.
type GenreRecord struct {
	Key          string    `db:"key"`
	Label        string    `db:"label"`
	ColumnName   string    `db:"column_name"`
	DisplayOrder int       `db:"display_order"`
	CreatedAt    time.Time `db:"created_at"`
}
