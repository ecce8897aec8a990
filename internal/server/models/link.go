package models

import "time"

// Link is a submitted URL. PostedByID is nil for links whose author was
// removed; PostedBy is filled by reads that join the author.
type Link struct {
	ID          int64       `json:"id"`
	Description string      `json:"description"`
	URL         string      `json:"url"`
	CreatedAt   time.Time   `json:"createdAt"`
	PostedByID  *int64      `json:"-"`
	PostedBy    *PublicUser `json:"postedBy"`
}

// LinkFields are the mutable parts of a link.
type LinkFields struct {
	Description string
	URL         string
}

// Vote records that a user voted for a link. A (UserID, LinkID) pair is
// stored at most once.
type Vote struct {
	LinkID    int64     `json:"linkId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Feed is one page of links plus the number of links matching the filter
// regardless of the page window.
type Feed struct {
	Links []*Link `json:"links"`
	Count int     `json:"count"`
}
