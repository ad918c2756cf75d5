package models

import "time"

type Learnings struct {
	ThreadID    string    `json:"thread_id"`
	Author      string    `json:"author"`
	Items       []string  `json:"learnings"`
	GeneratedAt time.Time `json:"generated_at"`
}
