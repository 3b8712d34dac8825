package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/amankumarsingh77/video-transcriber/internal/config"
	"github.com/pkg/errors"
)

// CloudflareEngine calls a Workers AI whisper model. It only returns
// coarse text.
type CloudflareEngine struct {
	accountID  string
	apiToken   string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewCloudflareEngine(cfg config.CloudflareConfig, httpClient *http.Client) *CloudflareEngine {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &CloudflareEngine{
		accountID:  strings.TrimSpace(cfg.AccountID),
		apiToken:   strings.TrimSpace(cfg.APIToken),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

type cloudflareResponse struct {
	Success bool `json:"success"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Result json.RawMessage `json:"result"`
}

type cloudflareWhisperResult struct {
	Text string `json:"text"`
}

func (c *CloudflareEngine) Name() string {
	return "cloudflare"
}

func (c *CloudflareEngine) Transcribe(ctx context.Context, audioPath, _ string) (RawResult, error) {
	if c.accountID == "" || c.apiToken == "" {
		return nil, errors.New("Cloudflare account id or API token not configured")
	}

	body, contentType, err := multipartAudio(audioPath, nil)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare: build request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "cloudflare: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("cloudflare http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var cr cloudflareResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, errors.Wrap(err, "cloudflare: decode response")
	}
	if !cr.Success {
		msgs := make([]string, 0, len(cr.Errors))
		for _, e := range cr.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("cloudflare response not successful: %s", strings.Join(msgs, "; "))
	}

	var wr cloudflareWhisperResult
	if err := json.Unmarshal(cr.Result, &wr); err != nil {
		return nil, errors.Wrap(err, "cloudflare: unexpected result")
	}
	return PlainText{Text: wr.Text}, nil
}
