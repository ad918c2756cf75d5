package models

import (
	"log/slog"
	"time"
)

// Wire shapes of the X API v2 endpoints the fetcher calls.

type XTweet struct {
	ID                string         `json:"id"`
	Text              string         `json:"text"`
	AuthorID          string         `json:"author_id"`
	CreatedAt         time.Time      `json:"created_at"`
	ConversationID    string         `json:"conversation_id"`
	InReplyToUserID   string         `json:"in_reply_to_user_id"`
	ReferencedTweets  []Reference    `json:"referenced_tweets"`
	EditHistoryTweets []string       `json:"edit_history_tweet_ids,omitempty"`
	PublicMetrics     *PublicMetrics `json:"public_metrics,omitempty"`
}

type XUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

type XAPIError struct {
	Title        string `json:"title"`
	Detail       string `json:"detail"`
	Type         string `json:"type"`
	ResourceID   string `json:"resource_id,omitempty"`
	ResourceType string `json:"resource_type,omitempty"`
}

type XTweetResponse struct {
	Data   *XTweet     `json:"data"`
	Errors []XAPIError `json:"errors,omitempty"`
}

type XUserResponse struct {
	Data   *XUser      `json:"data"`
	Errors []XAPIError `json:"errors,omitempty"`
}

type XSearchResponse struct {
	Data   []XTweet    `json:"data"`
	Meta   XSearchMeta `json:"meta"`
	Errors []XAPIError `json:"errors,omitempty"`
}

type XSearchMeta struct {
	ResultCount int    `json:"result_count"`
	NewestID    string `json:"newest_id,omitempty"`
	OldestID    string `json:"oldest_id,omitempty"`
	NextToken   string `json:"next_token,omitempty"`
}

func (t XTweet) ToPost() Post {
	for _, ref := range t.ReferencedTweets {
		if !ref.Kind.Known() {
			slog.Debug("[Models] Ignoring unknown reference kind",
				slog.String("tweet_id", t.ID),
				slog.String("kind", string(ref.Kind)))
		}
	}

	var metrics PublicMetrics
	if t.PublicMetrics != nil {
		metrics = *t.PublicMetrics
	}

	return Post{
		ID:                t.ID,
		Text:              t.Text,
		AuthorID:          t.AuthorID,
		CreatedAt:         t.CreatedAt,
		ConversationID:    t.ConversationID,
		InReplyToAuthorID: t.InReplyToUserID,
		References:        append([]Reference(nil), t.ReferencedTweets...),
		Metrics:           metrics,
	}
}

func (u XUser) ToAuthor() Author {
	return Author{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.Name,
	}
}
