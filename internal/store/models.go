// Package store loads the blog object graph served by the document endpoints.
package store

import (
	"time"

	"github.com/conduit-lang/jsonapi-view/internal/orm/schema"
)

// Author writes posts
type Author struct {
	ID    int64   `orm:"primary" json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Posts []*Post `orm:"has_many" json:"posts"`
}

// Post belongs to an author and collects comments
type Post struct {
	ID          int64      `orm:"primary" json:"id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"`
	PublishedAt *time.Time `json:"published_at"`
	Author      *Author    `orm:"belongs_to" json:"author"`
	Comments    []*Comment `orm:"has_many" json:"comments"`
}

// Comment is left on a single post
type Comment struct {
	ID   int64  `orm:"primary" json:"id"`
	Body string `json:"body"`
	Post *Post  `orm:"belongs_to" json:"post"`
}

// Register maps the blog models into registry and checks their relationships
func Register(registry *schema.Registry) error {
	for _, model := range []any{Author{}, Post{}, Comment{}} {
		if _, err := registry.RegisterType(model); err != nil {
			return err
		}
	}
	return registry.ValidateAll()
}
