package videoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"creator-hub/domain/dto"
	"creator-hub/domain/repository"
	"creator-hub/infrastructure/logger"
)

// Client talks to the Python video service that renders AI videos and
// relays uploads to TikTok. Generation jobs can run for minutes, so the
// client carries a long timeout.
type Client struct {
	host       string
	httpClient *http.Client
}

func NewClient(host string) repository.IVideoAPI {
	return &Client{
		host:       strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) UploadVideos(ctx context.Context, req *dto.UploadRequest) (*dto.UploadResponse, error) {
	var out dto.UploadResponse
	if err := c.postJSON(ctx, "/tiktok/upload-ai-video", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PublishStatus(ctx context.Context, req *dto.PublishStatusRequest) (*dto.PublishStatusResponse, error) {
	var out dto.PublishStatusResponse
	if err := c.postJSON(ctx, "/tiktok/publish-status", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Generate(ctx context.Context, req *dto.GenerateVideoRequest) (*dto.GenerateVideoResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("creator_id", req.CreatorID); err != nil {
		return nil, err
	}
	if err := writer.WriteField("prompt", req.Prompt); err != nil {
		return nil, err
	}
	if len(req.VoiceSample) > 0 {
		part, err := writer.CreateFormFile("voice_sample", req.VoiceSampleName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(req.VoiceSample); err != nil {
			return nil, err
		}
	}
	if len(req.ReferenceImage) > 0 {
		part, err := writer.CreateFormFile("reference_image", req.ReferenceImageName)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(req.ReferenceImage); err != nil {
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/ai-videos/generate", &buf)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var out dto.GenerateVideoResponse
	if err := json.Unmarshal(body, &out); err != nil && resp.StatusCode == http.StatusOK {
		return nil, fmt.Errorf("video api generate parse: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("video api generate failed")
		if out.Detail != "" {
			return nil, fmt.Errorf("video api generate failed: %s", out.Detail)
		}
		return nil, fmt.Errorf("video api generate failed: status %d", resp.StatusCode)
	}
	return &out, nil
}

func (c *Client) Library(ctx context.Context, creatorID string) ([]dto.AiVideoLibraryItem, error) {
	u := fmt.Sprintf("%s/ai-videos/library?creator_id=%s", c.host, url.QueryEscape(creatorID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	// A creator with no generated videos is not an error.
	if resp.StatusCode == http.StatusNotFound {
		return []dto.AiVideoLibraryItem{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"body":   string(body),
		}).Error("video api library failed")
		return nil, fmt.Errorf("video api library failed: status %d", resp.StatusCode)
	}

	// Accept both a bare array and a {"videos": [...]} envelope.
	var items []dto.AiVideoLibraryItem
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var envelope struct {
		Videos []dto.AiVideoLibraryItem `json:"videos"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("video api library parse: %w", err)
	}
	return envelope.Videos, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in interface{}, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		logger.GetLogger().WithFields(map[string]interface{}{
			"status": resp.StatusCode,
			"path":   path,
			"body":   string(body),
		}).Error("video api request failed")
		return fmt.Errorf("video api %s failed: status %d", path, resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("video api %s parse: %w", path, err)
	}
	return nil
}
