// Package thread recovers an author's main chain of posts from an unordered
// conversation.
package thread

import (
	"sort"

	"github.com/spacesedan/threadscribe/internal/models"
)

// Mode selects how the main chain is derived from a conversation.
type Mode int

const (
	// ModeChain walks the author's reply chain from the earliest eligible post.
	ModeChain Mode = iota
	// ModeLegacy keeps the author's posts that are not replies at all.
	ModeLegacy
)

func (m Mode) String() string {
	switch m {
	case ModeLegacy:
		return "legacy"
	default:
		return "chain"
	}
}

func (m Mode) Apply(posts []models.Post, author models.Author) []models.Post {
	if m == ModeLegacy {
		return FilterTopLevel(posts, author)
	}
	return Reconstruct(posts, author)
}

// Reconstruct returns the author's main chain, root first. Every next link is the
// earliest remaining candidate that replies to the current tail; branches that never
// connect to the tail are left out. Inputs are not modified.
func Reconstruct(posts []models.Post, author models.Author) []models.Post {
	pool := candidates(posts, author)
	if len(pool) == 0 {
		return []models.Post{}
	}

	rootIdx := earliest(pool)
	chain := []models.Post{pool[rootIdx]}
	replies := indexReplies(without(pool, rootIdx))

	for {
		tail := chain[len(chain)-1]
		next, ok := takeEarliest(replies, tail.ID)
		if !ok {
			break
		}
		chain = append(chain, next)
	}

	return chain
}

// FilterTopLevel is the older filter-only rendition: the author's posts that neither
// reply to another author nor carry a replied_to reference, oldest first.
func FilterTopLevel(posts []models.Post, author models.Author) []models.Post {
	var kept []models.Post
	for _, p := range dedupe(posts) {
		if p.AuthorID != author.ID || p.RepliesToOtherAuthor(author.ID) {
			continue
		}
		if _, ok := p.ReplyTargetID(); ok {
			continue
		}
		kept = append(kept, p)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Before(kept[j]) })
	if kept == nil {
		return []models.Post{}
	}
	return kept
}

// candidates keeps the author's posts that are not answers to somebody else.
func candidates(posts []models.Post, author models.Author) []models.Post {
	var out []models.Post
	for _, p := range dedupe(posts) {
		if p.AuthorID != author.ID {
			continue
		}
		if p.RepliesToOtherAuthor(author.ID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// dedupe drops repeated ids, keeping the first occurrence.
func dedupe(posts []models.Post) []models.Post {
	seen := make(map[string]struct{}, len(posts))
	out := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if _, exists := seen[p.ID]; exists {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}

// indexReplies groups pool by the id each post replies to. Posts that reply to nothing
// can never extend a chain and are not indexed.
func indexReplies(pool []models.Post) map[string][]models.Post {
	byParent := make(map[string][]models.Post)
	for _, p := range pool {
		if target, ok := p.ReplyTargetID(); ok {
			byParent[target] = append(byParent[target], p)
		}
	}
	return byParent
}

// takeEarliest removes and returns the earliest reply to parentID. The other replies
// stay indexed.
func takeEarliest(byParent map[string][]models.Post, parentID string) (models.Post, bool) {
	replies := byParent[parentID]
	if len(replies) == 0 {
		return models.Post{}, false
	}
	idx := earliest(replies)
	next := replies[idx]
	byParent[parentID] = without(replies, idx)
	return next, true
}

// earliest returns the index of the first post by (CreatedAt, ID). posts must not be empty.
func earliest(posts []models.Post) int {
	best := 0
	for i := 1; i < len(posts); i++ {
		if posts[i].Before(posts[best]) {
			best = i
		}
	}
	return best
}

// without returns a new slice holding every post except pool[idx].
func without(pool []models.Post, idx int) []models.Post {
	rest := make([]models.Post, 0, len(pool)-1)
	rest = append(rest, pool[:idx]...)
	return append(rest, pool[idx+1:]...)
}
