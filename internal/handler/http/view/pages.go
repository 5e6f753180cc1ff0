package view

import (
	"strconv"

	"csflix/internal/domain/entity"
	artUC "csflix/internal/usecase/article"
)

// Layout is the data every page shares: the signed-in user and the sidebar.
type Layout struct {
	Title    string
	Username string
	Selected []*entity.Article
	Tags     []artUC.TagURL
}

// HomePage is the data of the home page.
type HomePage struct {
	Layout
	First *entity.Article
	Last  *entity.Article
}

// ListingPage is the data of one page of the movie listing.
type ListingPage struct {
	Layout
	Articles   []*entity.Article
	NoResults  bool
	Search     string
	Tag        string
	Page       int
	TotalPages int

	// ViewCommentsFor is the article whose comments are expanded, 0 for none.
	ViewCommentsFor int64

	// Navigation URLs.
	First, Prev, Next, Last string
}

// PageLabel is the 1-based page number shown to the user.
func (p ListingPage) PageLabel() string {
	if p.TotalPages <= 0 {
		return strconv.Itoa(p.Page + 1)
	}
	return strconv.Itoa(p.Page+1) + " of " + strconv.Itoa(p.TotalPages)
}

// CommentsURL links to the current page with the comments of article id expanded.
func (p ListingPage) CommentsURL(id int64) string {
	return ListingURL(p.Page, p.Search, p.Tag) + commentsQuery(p.Search, p.Tag) + "view_comments_for=" + strconv.FormatInt(id, 10) + "#comment-" + strconv.FormatInt(id, 10)
}

func commentsQuery(search, tag string) string {
	if search == "" && tag == "" {
		return "?"
	}
	return "&"
}

// CommentPage is the data of the comment form.
type CommentPage struct {
	Layout
	Article   *entity.Article
	ArticleID int64
	Comment   string
	Errors    map[string][]string
	FormError string
}

// AuthPage is the data of the login and registration forms.
type AuthPage struct {
	Layout
	Heading   string
	Action    string
	Register  bool
	Username  string
	Next      string
	Errors    map[string][]string
	FormError string
}
