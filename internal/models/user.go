package models

// User represents an account managed by the identity provider.
// The core never creates or updates users; it only reads them to
// attach author information to comments.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// UserInfo is the public author shape embedded in comment responses
type UserInfo struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}
