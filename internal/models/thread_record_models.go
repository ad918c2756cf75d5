package models

import "time"

// ThreadRecord is the serialized projection of one extraction.
//   - Learnings stays nil when the summarizing step was skipped so the field is dropped,
//     and is an empty slice when it ran but nothing could be parsed.
type ThreadRecord struct {
	ThreadID             string        `json:"thread_id" yaml:"thread_id"`
	ConversationID       string        `json:"conversation_id" yaml:"conversation_id"`
	Author               AuthorRecord  `json:"author" yaml:"author"`
	MainThread           []PostRecord  `json:"main_thread" yaml:"main_thread"`
	TotalTweetsInThread  int           `json:"total_tweets_in_thread" yaml:"total_tweets_in_thread"`
	Learnings            LearningItems `json:"learnings,omitzero" yaml:"learnings,omitempty"`
	LearningsGeneratedAt time.Time     `json:"learnings_generated_at,omitzero" yaml:"learnings_generated_at,omitempty"`
}

// LearningItems is omitted from output only when nil; an empty list is still written.
type LearningItems []string

func (l LearningItems) IsZero() bool {
	return l == nil
}

type AuthorRecord struct {
	ID       string `json:"id" yaml:"id"`
	Username string `json:"username" yaml:"username"`
	Name     string `json:"name" yaml:"name"`
}

type PostRecord struct {
	ID        string    `json:"id" yaml:"id"`
	Text      string    `json:"text" yaml:"text"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

func NewThreadRecord(thread Thread, chain []Post) *ThreadRecord {
	posts := make([]PostRecord, 0, len(chain))
	for _, p := range chain {
		posts = append(posts, PostRecord{
			ID:        p.ID,
			Text:      p.Text,
			CreatedAt: p.CreatedAt,
		})
	}

	threadID := thread.RootID
	if threadID == "" {
		threadID = thread.SeedID
	}

	return &ThreadRecord{
		ThreadID:       threadID,
		ConversationID: thread.ConversationID,
		Author: AuthorRecord{
			ID:       thread.Author.ID,
			Username: thread.Author.Username,
			Name:     thread.Author.DisplayName,
		},
		MainThread:          posts,
		TotalTweetsInThread: len(posts),
	}
}

// AttachLearnings copies l onto the record; Items is never left nil so the field is emitted.
func (r *ThreadRecord) AttachLearnings(l Learnings) {
	items := l.Items
	if items == nil {
		items = []string{}
	}
	r.Learnings = items
	r.LearningsGeneratedAt = l.GeneratedAt
}

func (r *ThreadRecord) HasLearnings() bool {
	return r.Learnings != nil
}
