// Package bookmark holds the bookmark domain: the stored record, the request
// payloads accepted by the API, the store adapter contract with its DynamoDB
// and embedded implementations, and the service used by the request handlers.
package bookmark

// Bookmark is one saved link. UserID is the partition key and BookmarkID the
// sort key; both are immutable once the record exists.
type Bookmark struct {
	UserID      string `json:"user_id" dynamodbav:"user_id"`
	BookmarkID  string `json:"bookmark_id" dynamodbav:"bookmark_id"`
	BookmarkURL string `json:"bookmark_url" dynamodbav:"bookmark_url"`
	Title       string `json:"title" dynamodbav:"title"`
}

// Table layout.
const (
	AttrUserID      = "user_id"
	AttrBookmarkID  = "bookmark_id"
	AttrBookmarkURL = "bookmark_url"
	AttrTitle       = "title"
)

// CreateRequest is the POST body. It has no bookmark_id on purpose: ids are
// always assigned by the server, so a client supplied one is dropped.
type CreateRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	BookmarkURL string `json:"bookmark_url" validate:"required"`
	Title       string `json:"title" validate:"required"`
}

// ListRequest carries the GET query string.
type ListRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// UpdateRequest is the PUT body.
type UpdateRequest struct {
	UserID      string `json:"user_id" validate:"required"`
	BookmarkID  string `json:"bookmark_id" validate:"required"`
	BookmarkURL string `json:"bookmark_url" validate:"required"`
	Title       string `json:"title" validate:"required"`
}

// DeleteRequest is the DELETE body.
type DeleteRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	BookmarkID string `json:"bookmark_id" validate:"required"`
}
