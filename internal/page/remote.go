package page

// RemoteDoc is the wire shape of a document returned by the hosting API.
type RemoteDoc struct {
	Slug            string `json:"slug"`
	Title           string `json:"title"`
	Excerpt         string `json:"excerpt"`
	Body            string `json:"body"`
	Hidden          bool   `json:"hidden"`
	Category        string `json:"category"`
	ParentDoc       string `json:"parentDoc,omitempty"`
	LastUpdatedHash string `json:"lastUpdatedHash,omitempty"`
}

// FromRemote constructs a Page from an API document. Headers are limited
// to the whitelist the local format carries: title, excerpt, hidden.
func FromRemote(d RemoteDoc) *Page {
	headers := NewHeaders()
	if d.Title != "" {
		headers.Set("title", d.Title)
	}
	if d.Excerpt != "" {
		headers.Set("excerpt", d.Excerpt)
	}
	if d.Hidden {
		headers.Set("hidden", "true")
	}
	return &Page{
		Category:   d.Category,
		ParentSlug: d.ParentDoc,
		Slug:       d.Slug,
		Headers:    headers,
		Content:    d.Body,
	}
}
