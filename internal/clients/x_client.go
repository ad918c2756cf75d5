package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/threadscribe/internal/models"
	"golang.org/x/oauth2"
)

const (
	X_TWEET_FIELDS     = "author_id,conversation_id,created_at,in_reply_to_user_id,referenced_tweets,public_metrics"
	X_SEARCH_PAGE_SIZE = 100
	X_MAX_PAGES        = 20
	xRequestTimeout    = 30 * time.Second
)

var (
	ErrNotFound     = errors.New("[XClient] not found")
	ErrUnauthorized = errors.New("[XClient] credentials rejected")
)

type XClient struct {
	BaseURL        string
	Client         *http.Client
	InitialBackoff time.Duration
}

// NewXClient returns a client that authenticates every request with bearerToken.
// ctx only selects the base transport (see oauth2.HTTPClient); it is not retained.
func NewXClient(ctx context.Context, baseURL, bearerToken string) *XClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: bearerToken,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = xRequestTimeout

	return &XClient{
		BaseURL:        strings.TrimSuffix(baseURL, "/"),
		Client:         httpClient,
		InitialBackoff: INITIAL_BACKOFF,
	}
}

// FetchThread collects everything the reconstructor needs for the conversation seedID
// belongs to: the seed, the conversation root, every post found in the conversation
// and the author of the root.
func (c *XClient) FetchThread(ctx context.Context, seedID string) (models.Thread, error) {
	start := time.Now()
	slog.Info("[XClient] Fetching thread", slog.String("tweet_id", seedID))

	seed, err := c.GetTweet(ctx, seedID)
	if err != nil {
		return models.Thread{}, fmt.Errorf("[XClient] fetch seed post %s: %w", seedID, err)
	}

	conversationID := seed.ConversationID
	if conversationID == "" {
		conversationID = seed.ID
	}

	posts := []models.Post{seed}
	root := seed
	if conversationID != seed.ID && len(seed.References) > 0 {
		r, err := c.GetTweet(ctx, conversationID)
		switch {
		case err == nil:
			root = r
			posts = append(posts, r)
		case errors.Is(err, ErrNotFound):
			slog.Warn("[XClient] Conversation root is unavailable, continuing from the seed",
				slog.String("conversation_id", conversationID))
		default:
			return models.Thread{}, fmt.Errorf("[XClient] fetch conversation root %s: %w", conversationID, err)
		}
	}

	conversation, err := c.SearchConversation(ctx, conversationID)
	if err != nil {
		return models.Thread{}, fmt.Errorf("[XClient] search conversation %s: %w", conversationID, err)
	}

	author, err := c.GetUser(ctx, root.AuthorID)
	if err != nil {
		return models.Thread{}, fmt.Errorf("[XClient] fetch author %s: %w", root.AuthorID, err)
	}

	merged := mergePosts(conversation, posts)
	slog.Info("[XClient] Thread fetched",
		slog.String("conversation_id", conversationID),
		slog.Int("posts", len(merged)),
		slog.Duration("elapsed", time.Since(start)))

	return models.Thread{
		SeedID:         seedID,
		RootID:         conversationID,
		ConversationID: conversationID,
		Author:         author,
		Posts:          merged,
	}, nil
}

func (c *XClient) GetTweet(ctx context.Context, id string) (models.Post, error) {
	query := url.Values{}
	query.Set("tweet.fields", X_TWEET_FIELDS)

	var resp models.XTweetResponse
	if err := c.getJSON(ctx, "/tweets/"+url.PathEscape(id), query, &resp); err != nil {
		return models.Post{}, err
	}
	if resp.Data == nil {
		return models.Post{}, apiErr(resp.Errors)
	}
	return resp.Data.ToPost(), nil
}

func (c *XClient) GetUser(ctx context.Context, id string) (models.Author, error) {
	var resp models.XUserResponse
	if err := c.getJSON(ctx, "/users/"+url.PathEscape(id), nil, &resp); err != nil {
		return models.Author{}, err
	}
	if resp.Data == nil {
		return models.Author{}, apiErr(resp.Errors)
	}
	return resp.Data.ToAuthor(), nil
}

// SearchConversation pages through every post the search endpoint returns for conversationID.
func (c *XClient) SearchConversation(ctx context.Context, conversationID string) ([]models.Post, error) {
	var posts []models.Post
	nextToken := ""

	for page := 1; page <= X_MAX_PAGES; page++ {
		query := url.Values{}
		query.Set("query", "conversation_id:"+conversationID)
		query.Set("max_results", fmt.Sprint(X_SEARCH_PAGE_SIZE))
		query.Set("tweet.fields", X_TWEET_FIELDS)
		if nextToken != "" {
			query.Set("next_token", nextToken)
		}

		var resp models.XSearchResponse
		if err := c.getJSON(ctx, "/tweets/search/recent", query, &resp); err != nil {
			return nil, err
		}
		for _, t := range resp.Data {
			posts = append(posts, t.ToPost())
		}

		slog.Debug("[XClient] Conversation page fetched",
			slog.Int("page", page),
			slog.Int("result_count", resp.Meta.ResultCount))

		// stop paginating when there are no more results
		if resp.Meta.NextToken == "" {
			return posts, nil
		}
		nextToken = resp.Meta.NextToken
	}

	slog.Warn("[XClient] Stopped paginating at page limit",
		slog.String("conversation_id", conversationID),
		slog.Int("max_pages", X_MAX_PAGES))
	return posts, nil
}

func (c *XClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var lastErr error
	backoff := c.InitialBackoff

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("[XClient] failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := c.Client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("[XClient] Request failed, will retry",
				slog.String("path", path),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			lastErr = err
		} else {
			retry, err := handleResponse(res, path, out)
			if !retry {
				return err
			}
			slog.Warn("[XClient] Retryable response",
				slog.String("path", path),
				slog.Int("statusCode", res.StatusCode),
				slog.Duration("backoff", backoff),
				slog.Int("attempt", attempt))
			lastErr = err
		}

		if attempt == MAX_RETRIES {
			break
		}
		if err := sleepCtx(ctx, backoff); err != nil {
			return err
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	return fmt.Errorf("[XClient] failed after %d attempts: %w", MAX_RETRIES, lastErr)
}

// handleResponse consumes res and reports whether the request is worth retrying.
func handleResponse(res *http.Response, path string, out any) (bool, error) {
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusOK:
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return false, fmt.Errorf("[XClient] failed to read response: %w", err)
		}
		if err := json.Unmarshal(body, out); err != nil {
			slog.Error("[XClient] Failed to parse JSON response",
				slog.String("path", path),
				slog.String("error", err.Error()),
				getPreview(body))
			return false, fmt.Errorf("[XClient] malformed response from %s: %w", path, err)
		}
		return false, nil
	case res.StatusCode == http.StatusNotFound:
		return false, fmt.Errorf("%w: %s", ErrNotFound, path)
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		slog.Error("[XClient] Bearer token rejected, check credentials",
			slog.Int("statusCode", res.StatusCode))
		return false, fmt.Errorf("%w: status %d", ErrUnauthorized, res.StatusCode)
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500:
		_, _ = io.Copy(io.Discard, res.Body)
		return true, fmt.Errorf("[XClient] status code %d", res.StatusCode)
	default:
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return false, fmt.Errorf("[XClient] unexpected status code %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
}

func apiErr(errs []models.XAPIError) error {
	if len(errs) == 0 {
		return fmt.Errorf("%w: empty response", ErrNotFound)
	}
	e := errs[0]
	detail := e.Detail
	if detail == "" {
		detail = e.Title
	}
	return fmt.Errorf("%w: %s", ErrNotFound, detail)
}

// mergePosts appends the extras the search did not return, keeping the first copy of every id.
func mergePosts(conversation, extras []models.Post) []models.Post {
	seen := make(map[string]struct{}, len(conversation)+len(extras))
	merged := make([]models.Post, 0, len(conversation)+len(extras))
	for _, p := range append(append([]models.Post(nil), conversation...), extras...) {
		if _, exists := seen[p.ID]; exists {
			continue
		}
		seen[p.ID] = struct{}{}
		merged = append(merged, p)
	}
	return merged
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
