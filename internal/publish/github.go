package publish

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"rssrelay/internal/shared/logger"
	"rssrelay/internal/shared/types"
)

const commitMessage = "Update RSS feed"

// Result reports how a publish ended.
type Result int

const (
	// ResultCreated means no prior revision existed and the file was created.
	ResultCreated Result = iota

	// ResultUpdated means the prior revision was replaced.
	ResultUpdated

	// ResultRejected means the store refused the write because the revision
	// changed between read and write. The stored content is untouched and
	// the publish is not retried.
	ResultRejected
)

func (r Result) String() string {
	switch r {
	case ResultCreated:
		return "created"
	case ResultUpdated:
		return "updated"
	default:
		return "rejected"
	}
}

// Client publishes content to a repository path through the GitHub contents
// API: read the current revision id, then PUT conditioned on it.
type Client struct {
	client *http.Client
	apiURL string
	owner  string
	repo   string
	path   string
	branch string
	token  string
}

// NewClient creates a publish client from the [publish] config section.
func NewClient(cfg types.PublishConf) *Client {
	return &Client{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: cfg.APIURL,
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		path:   cfg.Path,
		branch: cfg.Branch,
		token:  cfg.Token,
	}
}

type contentsInfo struct {
	SHA string `json:"sha"`
}

type putPayload struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// Publish writes content at the configured path, replacing whatever is
// there. A prior revision id, when one exists, is sent along so the store
// can reject a write that races another committer.
func (c *Client) Publish(ctx context.Context, content string) (Result, error) {
	l := logger.WithComponent("Publisher")

	sha, err := c.currentSHA(ctx)
	if err != nil {
		return ResultRejected, fmt.Errorf("failed to read current revision: %w", err)
	}
	if sha == "" {
		l.Info().Str("path", c.path).Msg("File does not exist; will create a new one.")
	} else {
		l.Info().Str("path", c.path).Str("sha", sha).Msg("File exists; will update it.")
	}

	payload := putPayload{
		Message: commitMessage,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  c.branch,
		SHA:     sha,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return ResultRejected, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.contentsURL(), bytes.NewReader(body))
	if err != nil {
		return ResultRejected, err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return ResultRejected, fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return ResultCreated, nil
	case http.StatusOK:
		return ResultUpdated, nil
	case http.StatusConflict, http.StatusUnprocessableEntity:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		l.Warn().Int("status_code", resp.StatusCode).Str("response", string(msg)).Msg("Store rejected the write.")
		return ResultRejected, nil
	default:
		return ResultRejected, fmt.Errorf("publish failed with status code %d", resp.StatusCode)
	}
}

// currentSHA fetches the revision id of the stored file, or "" if the file
// does not exist yet.
func (c *Client) currentSHA(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s?ref=%s", c.contentsURL(), c.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var info contentsInfo
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return "", fmt.Errorf("failed to decode contents response: %w", err)
		}
		return info.SHA, nil
	case http.StatusNotFound:
		return "", nil
	default:
		return "", fmt.Errorf("contents lookup failed with status code %d", resp.StatusCode)
	}
}

func (c *Client) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiURL, c.owner, c.repo, c.path)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
}
