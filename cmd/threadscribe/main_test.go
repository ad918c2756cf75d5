package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"X_BEARER_TOKEN", "X_API_BASE_URL", "SUMMARY_PROVIDER", "SUMMARY_MODEL",
		"OPENROUTER_API_KEY", "OPENROUTER_BASE_URL", "GEMINI_API_KEY", "GEMINI_BASE_URL", "GOOGLE_API_KEY", "APP_ENV"} {
		t.Setenv(key, "")
	}
	t.Setenv("LOG_LEVEL", "error")
}

func xAPI(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/tweets/search/recent", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"data":[
			{"id":"2","text":"2/ next","author_id":"u1","created_at":"2025-03-01T12:01:00Z","conversation_id":"1","in_reply_to_user_id":"u1","referenced_tweets":[{"type":"replied_to","id":"1"}]},
			{"id":"3","text":"great thread","author_id":"u9","created_at":"2025-03-01T12:02:00Z","conversation_id":"1","in_reply_to_user_id":"u1","referenced_tweets":[{"type":"replied_to","id":"2"}]},
			{"id":"4","text":"3/ end","author_id":"u1","created_at":"2025-03-01T12:03:00Z","conversation_id":"1","in_reply_to_user_id":"u1","referenced_tweets":[{"type":"replied_to","id":"2"}]}
		],"meta":{"result_count":3}}`)
	})
	mux.HandleFunc("/tweets/1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"data":{"id":"1","text":"1/ start","author_id":"u1","created_at":"2025-03-01T12:00:00Z","conversation_id":"1"}}`)
	})
	mux.HandleFunc("/users/u1", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"data":{"id":"u1","username":"owner","name":"Owner"}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_SkippedLearnings(t *testing.T) {
	isolateEnv(t)
	var calls atomic.Int32
	srv := xAPI(t, &calls)
	t.Setenv("X_API_BASE_URL", srv.URL)

	out := filepath.Join(t.TempDir(), "thread.json")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-tweet-id", "1", "-x-token", "tok", "-output", out, "-no-learnings"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := rec["learnings"]; ok {
		t.Fatalf("learnings present:\n%s", data)
	}
	main := rec["main_thread"].([]any)
	if len(main) != 3 || rec["total_tweets_in_thread"] != float64(len(main)) {
		t.Fatalf("main_thread=%d total=%v, want 3", len(main), rec["total_tweets_in_thread"])
	}
	if !strings.Contains(stdout.String(), "Owner (@owner)") {
		t.Fatalf("summary missing author:\n%s", stdout.String())
	}
}

func TestRun_MissingSummaryKeyDowngrades(t *testing.T) {
	isolateEnv(t)
	var calls atomic.Int32
	srv := xAPI(t, &calls)
	t.Setenv("X_API_BASE_URL", srv.URL)
	t.Setenv("X_BEARER_TOKEN", "tok")

	dir := t.TempDir()
	out := filepath.Join(dir, "thread.yaml")
	report := filepath.Join(dir, "thread.html")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-tweet-id", "1", "-output", out, "-html", report}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit=%d stderr=%s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if strings.Contains(string(data), "learnings") {
		t.Fatalf("learnings written without a key:\n%s", data)
	}
	if _, err := os.Stat(report); err != nil {
		t.Fatalf("html report: %v", err)
	}
}

func TestRun_FetchFailureWritesNothing(t *testing.T) {
	isolateEnv(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	t.Setenv("X_API_BASE_URL", srv.URL)

	out := filepath.Join(t.TempDir(), "thread.json")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-tweet-id", "1", "-x-token", "tok", "-output", out, "-no-learnings", "-timeout", "300ms"}, &stdout, &stderr)
	if code == 0 {
		t.Fatal("exit=0, want failure")
	}
	if !strings.Contains(stderr.String(), "Error:") {
		t.Fatalf("stderr=%q, want an error message", stderr.String())
	}
	if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("output file exists after failed fetch: %v", err)
	}
}

func TestRun_MissingTokenFailsBeforeNetwork(t *testing.T) {
	isolateEnv(t)
	var calls atomic.Int32
	srv := xAPI(t, &calls)
	t.Setenv("X_API_BASE_URL", srv.URL)

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-tweet-id", "1", "-output", filepath.Join(t.TempDir(), "x.json")}, &stdout, &stderr)
	if code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
	if calls.Load() != 0 {
		t.Fatalf("calls=%d, want no requests", calls.Load())
	}
	if !strings.Contains(stderr.String(), "bearer token") {
		t.Fatalf("stderr=%q", stderr.String())
	}
}

func TestRun_MissingTweetID(t *testing.T) {
	isolateEnv(t)
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-x-token", "tok"}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit=%d, want 1", code)
	}
}
