package model

import "time"

// AiVideoStatus mirrors the lifecycle the generation backend exposes:
// assets stay downloadable for seven days after generation.
type AiVideoStatus string

const (
	AiVideoStatusReady   AiVideoStatus = "ready"
	AiVideoStatusExpired AiVideoStatus = "expired"
)

// AiVideo is a generated asset listed from the video API library.
type AiVideo struct {
	ID           string        `json:"id"`
	CreatorID    string        `json:"creator_id"`
	GeneratedAt  time.Time     `json:"generated_at"`
	ExpiresAt    time.Time     `json:"expires_at"`
	VideoURL     string        `json:"video_url,omitempty"`
	ThumbnailURL string        `json:"thumbnail_url,omitempty"`
	Tags         []string      `json:"tags"`
	Status       AiVideoStatus `json:"status"`
}
