// Package fixtures generates catalogue data shared by tests across packages.
package fixtures

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"csflix/internal/domain/entity"
)

// Genres cycles through the tags given to generated movies.
var Genres = []string{"Drama", "Comedy", "Horror", "Sci-Fi", "Crime"}

// Movie returns an article with a deterministic date derived from id.
func Movie(id int64, title string, tags ...string) *entity.Article {
	return &entity.Article{
		ID:          id,
		Title:       title,
		Description: "A film about " + strings.ToLower(title) + ".",
		Director:    "Director " + strconv.FormatInt(id, 10),
		Date:        time.Date(1950+int(id%70), time.January, 1, 0, 0, 0, 0, time.UTC),
		Tags:        tags,
	}
}

// Catalogue returns n movies with IDs 1..n. Movie i is tagged Genres[i%len(Genres)].
func Catalogue(n int) []*entity.Article {
	out := make([]*entity.Article, n)
	for i := range out {
		id := int64(i + 1)
		out[i] = Movie(id, fmt.Sprintf("Movie %03d", id), Genres[i%len(Genres)])
	}
	return out
}

// CatalogueCSV renders movies in the import format: Title, Genre, Description,
// Director and Year columns with a header row.
func CatalogueCSV(movies []*entity.Article) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Title", "Genre", "Description", "Director", "Year"})
	for _, m := range movies {
		_ = w.Write([]string{
			m.Title,
			strings.Join(m.Tags, ","),
			m.Description,
			m.Director,
			strconv.Itoa(m.Date.Year()),
		})
	}
	w.Flush()
	return buf.String()
}

// LongComment returns a comment body of n runes.
func LongComment(n int) string {
	return strings.Repeat("a", n)
}
