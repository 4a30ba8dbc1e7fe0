package seen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultDropboxContentURL is the Dropbox content API root.
const DefaultDropboxContentURL = "https://content.dropboxapi.com/2"

// DropboxMirror transfers the blob through the Dropbox content API with a
// long-lived access token. Token refresh is left to whoever issues the token.
type DropboxMirror struct {
	client     *http.Client
	token      string
	contentURL string
}

// NewDropboxMirror creates a mirror. An empty contentURL selects
// DefaultDropboxContentURL; a nil client gets a 60 second timeout.
func NewDropboxMirror(client *http.Client, token, contentURL string) *DropboxMirror {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if contentURL == "" {
		contentURL = DefaultDropboxContentURL
	}
	return &DropboxMirror{
		client:     client,
		token:      token,
		contentURL: strings.TrimRight(contentURL, "/"),
	}
}

type dropboxArg struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
	Mute bool   `json:"mute,omitempty"`
}

type dropboxError struct {
	ErrorSummary string `json:"error_summary"`
}

// Download fetches the file at path. A path/not_found error is ErrNotFound.
func (d *DropboxMirror) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := d.call(ctx, "/files/download", dropboxArg{Path: path}, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read download: %w", err)
	}

	if resp.StatusCode == http.StatusConflict && isNotFound(body) {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, body)
	}

	return body, nil
}

// Upload writes data to path in overwrite mode.
func (d *DropboxMirror) Upload(ctx context.Context, path string, data []byte) error {
	arg := dropboxArg{Path: path, Mode: "overwrite", Mute: true}
	resp, err := d.call(ctx, "/files/upload", arg, data)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return apiError(resp.StatusCode, body)
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// call issues one content-API request with the argument in the
// Dropbox-API-Arg header.
func (d *DropboxMirror) call(ctx context.Context, endpoint string, arg dropboxArg, payload []byte) (*http.Response, error) {
	header, err := json.Marshal(arg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode API argument: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.contentURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+d.token)
	req.Header.Set("Dropbox-API-Arg", string(header))
	if payload != nil {
		req.Header.Set("Content-Type", "application/octet-stream")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call dropbox: %w", err)
	}
	return resp, nil
}

func isNotFound(body []byte) bool {
	var e dropboxError
	if err := json.Unmarshal(body, &e); err != nil {
		return false
	}
	return strings.HasPrefix(e.ErrorSummary, "path/not_found")
}

func apiError(status int, body []byte) error {
	var e dropboxError
	if err := json.Unmarshal(body, &e); err == nil && e.ErrorSummary != "" {
		return fmt.Errorf("dropbox API error %d: %s", status, e.ErrorSummary)
	}
	return fmt.Errorf("dropbox API error %d: %s", status, strings.TrimSpace(string(body)))
}
