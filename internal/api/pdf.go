package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// UploadResult is the backend's response to a successful conversion.
type UploadResult struct {
	AudioID string `json:"audio_id"`
}

// UploadPDF submits one PDF for conversion and returns the generated audio ID.
//
// Filenames without a .pdf extension are rejected locally, matching the
// backend's own filter; everything else is deferred to the API.
func (c *Client) UploadPDF(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return nil, fmt.Errorf("%w: %s", shared.ErrNotPDF, filename)
	}

	token, err := c.token()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if err := writer.WriteField("token", token); err != nil {
		return nil, fmt.Errorf("failed to write token field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pdf/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := c.do(req, &result); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %v", shared.ErrTimeout, c.timeout)
		}
		return nil, err
	}

	return &result, nil
}
