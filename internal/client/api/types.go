package api

import "time"

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Link struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
	PostedBy    *User     `json:"postedBy"`
}

type Feed struct {
	Links []Link `json:"links"`
	Count int    `json:"count"`
}

type Vote struct {
	LinkID    int64     `json:"linkId"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedParams selects a feed page. Nil fields are not sent.
type FeedParams struct {
	Filter  *string
	Skip    *int
	Take    *int
	OrderBy []string
}
