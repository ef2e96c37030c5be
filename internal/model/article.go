package model

// Source identifies the publication an article came from.
type Source struct {
	ID   *string `json:"id"`
	Name string  `json:"name"`
}

// Article is a headline as returned by the news API.
// URL is the identity of the article: bookmarks are unique by it.
type Article struct {
	Source      Source  `json:"source"`
	Author      *string `json:"author"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	URLToImage  *string `json:"urlToImage"`
	PublishedAt string  `json:"publishedAt"`
	Content     *string `json:"content"`
}

// Clone returns a deep copy, so optional fields never alias the original.
func (a Article) Clone() Article {
	out := a
	out.Source.ID = cloneString(a.Source.ID)
	out.Author = cloneString(a.Author)
	out.Description = cloneString(a.Description)
	out.URLToImage = cloneString(a.URLToImage)
	out.Content = cloneString(a.Content)
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a helper for filling optional fields.
func StringPtr(s string) *string { return &s }

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Headlines is one page of the top-headlines feed.
type Headlines struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// ErrorHeadlines is the sentinel page returned when the feed could not be fetched.
func ErrorHeadlines() Headlines {
	return Headlines{Status: StatusError, TotalResults: 0, Articles: []Article{}}
}

// ReadableArticle is the extracted body of an article for the reader view.
type ReadableArticle struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}
