package schema

import "time"

type testAuthor struct {
	ID    int64       `orm:"primary" json:"id"`
	Name  string      `json:"name"`
	Posts []*testPost `orm:"has_many,target=Post" json:"posts"`
}

type timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

type testPost struct {
	timestamps
	ID       int64       `orm:"primary"`
	Title    string      `json:"title,omitempty"`
	Secret   string      `json:"-"`
	Draft    bool        `orm:"-"`
	Author   *testAuthor `orm:"belongs_to,target=Author"`
	internal string
}
