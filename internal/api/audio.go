package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/lysn-labs/lysn-cli/internal/models"
	"github.com/lysn-labs/lysn-cli/internal/shared"
)

// ListAudios fetches the user's audio records in server order.
func (c *Client) ListAudios(ctx context.Context) ([]models.AudioRecord, error) {
	token, err := c.token()
	if err != nil {
		return nil, err
	}

	var payload struct {
		Audios []models.AudioRecord `json:"audios"`
	}
	if err := c.postForm(ctx, "/audio/list", url.Values{"token": {token}}, &payload); err != nil {
		return nil, err
	}

	return payload.Audios, nil
}

// AudioURL returns the playable resource URL for an audio ID.
func (c *Client) AudioURL(audioID string) string {
	return c.baseURL + "/audio/" + url.PathEscape(audioID)
}

// DeleteAudio removes an audio record. Callers re-fetch the list afterward
// rather than splicing locally so the displayed set matches server state.
func (c *Client) DeleteAudio(ctx context.Context, audioID string) error {
	token, err := c.token()
	if err != nil {
		return err
	}

	form := url.Values{"token": {token}, "audio_id": {audioID}}
	return c.postForm(ctx, "/audio/delete", form, nil)
}

// DownloadAudio streams the audio resource into w, returning the byte count.
func (c *Client) DownloadAudio(ctx context.Context, audioID string, w io.Writer) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AudioURL(audioID), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return 0, fmt.Errorf("%w after %v", shared.ErrTimeout, c.timeout)
		}
		return 0, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, fmt.Errorf("%w: %s", shared.ErrAudioNotFound, audioID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, decodeError(resp)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("failed to stream audio: %w", err)
	}

	return n, nil
}
