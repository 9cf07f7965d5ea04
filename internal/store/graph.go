package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Graph is a fully linked snapshot of the blog. Associations point both ways,
// so an author's posts refer back to the same *Author.
type Graph struct {
	Authors  []*Author
	Posts    []*Post
	Comments []*Comment

	authors  map[int64]*Author
	posts    map[int64]*Post
	comments map[int64]*Comment
}

// Author returns the author with the given id
func (g *Graph) Author(id int64) (*Author, error) {
	if a, ok := g.authors[id]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("%w: author %d", ErrNotFound, id)
}

// Post returns the post with the given id
func (g *Graph) Post(id int64) (*Post, error) {
	if p, ok := g.posts[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: post %d", ErrNotFound, id)
}

// Comment returns the comment with the given id
func (g *Graph) Comment(id int64) (*Comment, error) {
	if c, ok := g.comments[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: comment %d", ErrNotFound, id)
}

// Load reads every table and links the rows into a Graph, in id order
func (s *Store) Load(ctx context.Context) (*Graph, error) {
	g := &Graph{
		Authors:  []*Author{},
		Posts:    []*Post{},
		Comments: []*Comment{},
		authors:  make(map[int64]*Author),
		posts:    make(map[int64]*Post),
		comments: make(map[int64]*Comment),
	}

	if err := s.loadAuthors(ctx, g); err != nil {
		return nil, err
	}
	if err := s.loadPosts(ctx, g); err != nil {
		return nil, err
	}
	if err := s.loadComments(ctx, g); err != nil {
		return nil, err
	}

	return g, nil
}

func (s *Store) loadAuthors(ctx context.Context, g *Graph) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email FROM authors ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query authors: %w", ConvertDBError(err))
	}
	defer rows.Close()

	for rows.Next() {
		a := &Author{Posts: []*Post{}}
		if err := rows.Scan(&a.ID, &a.Name, &a.Email); err != nil {
			return fmt.Errorf("failed to scan author: %w", err)
		}
		g.Authors = append(g.Authors, a)
		g.authors[a.ID] = a
	}
	return rows.Err()
}

func (s *Store) loadPosts(ctx context.Context, g *Graph) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, body, published_at, author_id FROM posts ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query posts: %w", ConvertDBError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p         = &Post{Comments: []*Comment{}}
			published sql.NullTime
			authorID  sql.NullInt64
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &published, &authorID); err != nil {
			return fmt.Errorf("failed to scan post: %w", err)
		}
		if published.Valid {
			t := published.Time.UTC()
			p.PublishedAt = &t
		}
		if authorID.Valid {
			author, ok := g.authors[authorID.Int64]
			if !ok {
				return fmt.Errorf("post %d: %w: author %d", p.ID, ErrForeignKeyViolation, authorID.Int64)
			}
			p.Author = author
			author.Posts = append(author.Posts, p)
		}
		g.Posts = append(g.Posts, p)
		g.posts[p.ID] = p
	}
	return rows.Err()
}

func (s *Store) loadComments(ctx context.Context, g *Graph) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, body, post_id FROM comments ORDER BY id`)
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", ConvertDBError(err))
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c      = &Comment{}
			postID int64
		)
		if err := rows.Scan(&c.ID, &c.Body, &postID); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		post, ok := g.posts[postID]
		if !ok {
			return fmt.Errorf("comment %d: %w: post %d", c.ID, ErrForeignKeyViolation, postID)
		}
		c.Post = post
		post.Comments = append(post.Comments, c)
		g.Comments = append(g.Comments, c)
		g.comments[c.ID] = c
	}
	return rows.Err()
}
