// Package model defines the records the CMS API serves.
//
// The collection controller treats everything except the ID as opaque;
// only the configured filters read domain fields.
package model

import "time"

// Role is a user role as the server reports it.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleModerator     Role = "Moderator"
	RolePublisher     Role = "Publisher"
)

// News lifecycle statuses owned by the server.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusArchived = "Archived"
)

// Attachment is an uploaded file referenced by a news item.
type Attachment struct {
	FileName string `json:"fileName"`
}

// NewsItem is one article in any lifecycle bucket.
// Zero time values mean the field is absent.
type NewsItem struct {
	ID            string       `json:"newsID"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	PublisherNick string       `json:"publisher_nick"`
	Status        string       `json:"status"`
	EventStart    time.Time    `json:"event_start"`
	CreateDate    time.Time    `json:"create_date"`
	PublishDate   time.Time    `json:"publish_date"`
	DeleteDate    time.Time    `json:"delete_date"`
	Files         []Attachment `json:"files,omitempty"`
}

// Published reports whether the item is live on the public list.
func (n NewsItem) Published() bool {
	return n.Status == StatusApproved && n.DeleteDate.IsZero()
}

// User is an account record from the admin users endpoint.
type User struct {
	ID               string    `json:"userID"`
	Nick             string    `json:"nick"`
	Role             Role      `json:"user_role"`
	RegistrationDate time.Time `json:"registration_date"`
}

// Category groups published news.
type Category struct {
	ID          string    `json:"categoryID"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Counts are the badge numbers shown on the admin tabs.
type Counts struct {
	Pending int
	Trash   int
	Archive int
}

// CountResponse is the body of the /count endpoints.
type CountResponse struct {
	Count int `json:"count"`
}
