// Package confluence fetches documentation trees from the Confluence REST
// API and reduces storage-format HTML to plain text the rest of the
// pipeline can work with.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Page is one fetched Confluence page with its HTML already reduced to
// plain text.
type Page struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

// HasContent reports whether the page carries enough text to be worth
// processing into an episode.
func (p *Page) HasContent() bool {
	return strings.TrimSpace(p.Content) != "" && len(p.Content) >= 20
}

// Client talks to one Confluence site with basic auth credentials.
type Client struct {
	baseURL  string
	username string
	apiToken string
	maxPages int
	http     *http.Client
	logger   *logging.Logger
}

// NewClient builds a client from the confluence section of the
// configuration. Base URL and credentials are required.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	ccfg := cfg.Confluence
	if ccfg.BaseURL == "" {
		return nil, errors.New(errors.KindConfig, "confluence.new", "confluence base url is required")
	}
	if ccfg.Username == "" || ccfg.APIToken == "" {
		return nil, errors.New(errors.KindConfig, "confluence.new", "confluence credentials are required")
	}

	maxPages := ccfg.MaxPages
	if maxPages <= 0 {
		maxPages = 50
	}
	timeout := time.Duration(ccfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(ccfg.BaseURL, "/"),
		username: ccfg.Username,
		apiToken: ccfg.APIToken,
		maxPages: maxPages,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

type pageResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Links struct {
		WebUI string `json:"webui"`
	} `json:"_links"`
}

type childListResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// GetPage fetches a single page by ID with its storage body expanded.
func (c *Client) GetPage(ctx context.Context, pageID string) (*Page, error) {
	endpoint := fmt.Sprintf("%s/wiki/rest/api/content/%s?expand=body.storage,children.page",
		c.baseURL, url.PathEscape(pageID))

	var data pageResponse
	if err := c.getJSON(ctx, "confluence.page", endpoint, &data); err != nil {
		return nil, err
	}

	return &Page{
		ID:      data.ID,
		Title:   data.Title,
		Content: ExtractText(data.Body.Storage.Value),
		URL:     c.baseURL + "/wiki" + data.Links.WebUI,
	}, nil
}

// ChildPageIDs lists the direct child page IDs of a page.
func (c *Client) ChildPageIDs(ctx context.Context, pageID string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/wiki/rest/api/content/%s/child/page",
		c.baseURL, url.PathEscape(pageID))

	var data childListResponse
	if err := c.getJSON(ctx, "confluence.children", endpoint, &data); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(data.Results))
	for _, result := range data.Results {
		ids = append(ids, result.ID)
	}
	return ids, nil
}

// TraversePages walks the page tree breadth-first from the root page,
// bounded by the configured page limit. Pages that fail to fetch are
// logged and skipped so one broken page cannot sink the whole run.
func (c *Client) TraversePages(ctx context.Context, rootPageID string) ([]Page, error) {
	op := "confluence.traverse"
	if strings.TrimSpace(rootPageID) == "" {
		return nil, errors.New(errors.KindConfig, op, "root page id is required")
	}

	var pages []Page
	visited := make(map[string]bool)
	queue := []string{rootPageID}

	for len(queue) > 0 && len(pages) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.KindTimeout, op, "traversal canceled", err)
		}

		pageID := queue[0]
		queue = queue[1:]
		if visited[pageID] {
			continue
		}
		visited[pageID] = true

		page, err := c.GetPage(ctx, pageID)
		if err != nil {
			c.logger.WarnTag("CONTENT", "skipping page %s: %v", pageID, err)
			continue
		}
		pages = append(pages, *page)
		c.logger.InfoTag("CONTENT", "fetched page %q, %d chars", page.Title, len(page.Content))

		children, err := c.ChildPageIDs(ctx, pageID)
		if err != nil {
			c.logger.WarnTag("CONTENT", "listing children of %s failed: %v", pageID, err)
			continue
		}
		for _, childID := range children {
			if !visited[childID] {
				queue = append(queue, childID)
			}
		}
	}

	c.logger.InfoTag("CONTENT", "traversal finished with %d pages", len(pages))
	return pages, nil
}

func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(errors.KindTransport, op, "build request", err)
	}
	req.SetBasicAuth(c.username, c.apiToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(errors.KindTransport, op, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.KindTransport, op, fmt.Sprintf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.KindTransport, op, "decode response", err)
	}
	return nil
}
