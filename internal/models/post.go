package models

// DateLayout is how a post's creation date is stored and shown.
const DateLayout = "January 02, 2006"

type Post struct {
	ID       int64  `json:"id"`
	AuthorID int64  `json:"author_id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Body     string `json:"body"`
	ImgURL   string `json:"img_url"`
	Date     string `json:"date"`

	// Filled by reads that join users.
	Author *User `json:"author,omitempty"`
}

// PostFields holds the mutable part of a post.
type PostFields struct {
	Title    string
	Subtitle string
	Body     string
	ImgURL   string
}

type Comment struct {
	ID     int64  `json:"id"`
	Body   string `json:"body"`
	UserID int64  `json:"user_id"`
	PostID int64  `json:"post_id"`

	User *User `json:"user,omitempty"`
}
