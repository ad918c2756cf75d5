package models

import (
	"fmt"
	"time"
)

// ReferenceKind is the relationship a post has with another post it references.
// Kinds the API adds later are kept as-is and never consulted.
type ReferenceKind string

const (
	RepliedTo ReferenceKind = "replied_to"
	Quoted    ReferenceKind = "quoted"
	Retweeted ReferenceKind = "retweeted"
)

func (k ReferenceKind) Known() bool {
	switch k {
	case RepliedTo, Quoted, Retweeted:
		return true
	}
	return false
}

// PublicMetrics are the engagement counters X reports for a post.
type PublicMetrics struct {
	RetweetCount    int `json:"retweet_count"`
	ReplyCount      int `json:"reply_count"`
	LikeCount       int `json:"like_count"`
	QuoteCount      int `json:"quote_count"`
	BookmarkCount   int `json:"bookmark_count"`
	ImpressionCount int `json:"impression_count"`
}

type Reference struct {
	Kind ReferenceKind `json:"type"`
	ID   string        `json:"id"`
}

type Post struct {
	ID                string        `json:"id"`
	Text              string        `json:"text"`
	AuthorID          string        `json:"author_id"`
	CreatedAt         time.Time     `json:"created_at"`
	ConversationID    string        `json:"conversation_id"`
	InReplyToAuthorID string        `json:"in_reply_to_user_id,omitempty"`
	References        []Reference   `json:"referenced_tweets,omitempty"`
	Metrics           PublicMetrics `json:"public_metrics"`
}

// ReplyTargetID returns the id of the post this one directly replies to.
func (p Post) ReplyTargetID() (string, bool) {
	for _, ref := range p.References {
		if ref.Kind == RepliedTo && ref.ID != "" {
			return ref.ID, true
		}
	}
	return "", false
}

// RepliesToOtherAuthor reports whether the post answers someone other than authorID.
func (p Post) RepliesToOtherAuthor(authorID string) bool {
	return p.InReplyToAuthorID != "" && p.InReplyToAuthorID != authorID
}

// Before orders posts by creation time, falling back to id so ties are stable.
func (p Post) Before(other Post) bool {
	if !p.CreatedAt.Equal(other.CreatedAt) {
		return p.CreatedAt.Before(other.CreatedAt)
	}
	return p.ID < other.ID
}

type Author struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"name"`
}

func (a Author) Handle() string {
	return fmt.Sprintf("%s (@%s)", a.DisplayName, a.Username)
}

// Thread is everything fetched for one extraction request. RootID is the id of the
// conversation's first post, which may differ from the seed the caller asked for.
type Thread struct {
	SeedID         string
	RootID         string
	ConversationID string
	Author         Author
	Posts          []Post
}
