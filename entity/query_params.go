package entity

// Catalog sort keys.
const (
	SortLatest    = "latest"
	SortDownloads = "downloads"
)

// CatalogQuery holds the client-side view state: a free-text search, an exact
// framework filter and a sort key. All filtering happens in memory over the
// catalog snapshot.
type CatalogQuery struct {
	Search    string `form:"q"`
	Framework string `form:"framework"`
	Sort      string `form:"sort"` // latest|downloads, defaults to latest
}

// PageResult is the generic list response shape.
type PageResult struct {
	Total int64       `json:"total"`
	List  interface{} `json:"list"`
}
