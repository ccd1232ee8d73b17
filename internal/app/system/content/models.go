// internal/app/system/content/models.go
package content

import (
	"strings"
	"time"
)

// Image is a Sanity image with its asset dereferenced.
type Image struct {
	Asset struct {
		URL string `json:"url"`
	} `json:"asset"`
}

// Project is a portfolio entry on the homepage.
type Project struct {
	ID         string `json:"_id"`
	Title      string `json:"title"`
	Image      Image  `json:"image"`
	AltText    string `json:"altText"`
	ProjectURL string `json:"projectUrl"`
}

// Post is a blog post. Body is only filled by GetPost.
type Post struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        Slug      `json:"slug"`
	CreatedAt   time.Time `json:"_createdAt"`
	AltText     string    `json:"altText"`
	MainImage   Image     `json:"mainImage"`
	Body        []Block   `json:"body"`

	FormattedCreatedAt string `json:"formattedCreatedAt"`
}

// Slug is Sanity's slug object.
type Slug struct {
	Current string `json:"current"`
}

// Block is one Portable Text block. Only text blocks are rendered; other
// block types (images, embeds, code) keep their Type and are skipped by
// Text.
type Block struct {
	Type     string `json:"_type"`
	Key      string `json:"_key"`
	Style    string `json:"style"`
	ListItem string `json:"listItem"`
	Children []Span `json:"children"`
	Code     string `json:"code"`
}

// Span is an inline run of text within a Block.
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks"`
}

// Text joins the block's spans.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Children {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// IsHeading reports whether the block style is h1 to h6.
func (b Block) IsHeading() bool {
	return len(b.Style) == 2 && b.Style[0] == 'h' && b.Style[1] >= '1' && b.Style[1] <= '6'
}
