package dto

import "encoding/json"

// AiVideoLibraryItem is one entry from the video API's library listing.
// The backend has shipped several shapes for the same fields (video vs
// video_url, tag vs tags, tag as a comma-joined string); the loose types
// here absorb all of them so the usecase can normalize once.
type AiVideoLibraryItem struct {
	ID            string          `json:"id"`
	CreatorID     string          `json:"creator_id"`
	GeneratedTime string          `json:"generated_time,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
	Video         string          `json:"video,omitempty"`
	VideoURL      string          `json:"video_url,omitempty"`
	ThumbnailURL  string          `json:"thumbnail_url,omitempty"`
	Tag           json.RawMessage `json:"tag,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
}

// GenerateVideoRequest is the validated multipart input of the generate
// proxy. File payloads are streamed through untouched.
type GenerateVideoRequest struct {
	CreatorID string
	Prompt    string

	VoiceSampleName    string
	VoiceSample        []byte
	ReferenceImageName string
	ReferenceImage     []byte
}

// GenerateVideoResponse passes the enqueue acknowledgement through from
// the video API.
type GenerateVideoResponse struct {
	JobID   string `json:"job_id,omitempty"`
	Message string `json:"message,omitempty"`
	Detail  string `json:"detail,omitempty"`
}
