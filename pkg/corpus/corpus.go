/*
Package corpus supplies the titles to index.

Titles come either from the builtin list or from article files. Every loader
validates its whole input before returning, so callers never see partially
decoded data: a corpus is returned complete or not at all.
*/
package corpus

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/bastiangx/corpusquery/internal/utils"
)

var (
	// ErrUnknownFormat is returned for files whose extension has no decoder.
	ErrUnknownFormat = errors.New("unknown corpus format")
	// ErrMalformed is returned when decoded records fail validation.
	ErrMalformed = errors.New("malformed corpus")
	// ErrEmpty is returned when a source holds no articles.
	ErrEmpty = errors.New("empty corpus")
)

// Article is a single corpus record.
type Article struct {
	ID    int    `json:"id" yaml:"id" msgpack:"id"`
	Title string `json:"title" yaml:"title" msgpack:"title"`
}

var builtinTitles = []string{
	"Top 15 Array Strings for Your Next Project",
	"15 Essential String Arrays for Efficient Coding",
	"Array of Strings: 15 Must-Have Examples",
	"15 Creative Ways to Use String Arrays in Programming",
	"Optimizing Your Code: 15 Array String Patterns",
	"Exploring 15 Versatile String Arrays for Developers",
	"15 Innovative Uses for Array of Strings",
	"Mastering String Arrays: 15 Key Examples",
	"15 String Arrays Every Programmer Should Know",
	"Array of Strings in Action: 15 Practical Examples",
	"15 Powerful String Arrays for Better Code Management",
	"Dynamic Coding: 15 Array Strings to Enhance Your Workflow",
	"15 Array String Patterns to Streamline Your Code",
	"String Arrays Simplified: 15 Essential Patterns",
	"15 Advanced Techniques with Array of Strings",
}

// Builtin returns the bundled sample corpus, numbered from 1.
func Builtin() []Article {
	articles := make([]Article, len(builtinTitles))
	for i, title := range builtinTitles {
		articles[i] = Article{ID: i + 1, Title: title}
	}
	return articles
}

// Validate checks every article: the title must be non-empty valid UTF-8
// without control characters. The first failure is reported with its position.
func Validate(articles []Article) error {
	for i, a := range articles {
		switch {
		case a.Title == "":
			return fmt.Errorf("%w: record %d (id %d): empty title", ErrMalformed, i, a.ID)
		case !utf8.ValidString(a.Title):
			return fmt.Errorf("%w: record %d (id %d): title is not valid UTF-8", ErrMalformed, i, a.ID)
		case utils.ContainsControl(a.Title):
			return fmt.Errorf("%w: record %d (id %d): title contains control characters", ErrMalformed, i, a.ID)
		}
	}
	return nil
}

// Titles returns the distinct titles of articles in first-seen order.
func Titles(articles []Article) []string {
	filter := utils.NewTitleFilter()
	titles := make([]string, 0, len(articles))
	for _, a := range articles {
		if filter.ShouldInclude(a.Title) {
			titles = append(titles, a.Title)
		}
	}
	return titles
}
