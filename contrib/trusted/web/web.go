package web

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/sweetpotato0/questflow/pkg/logging"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/trusted"
)

// Source is one fetchable page of trusted material for a category.
type Source struct {
	Name       string
	URL        string
	Confidence trusted.Confidence
}

// Retriever fetches trusted pages over HTTP and extracts excerpts from
// their headings and paragraphs. It satisfies trusted.Retriever; an
// unreachable source is skipped, not fatal, so the static corpus and the
// web corpus degrade the same way.
type Retriever struct {
	client      *http.Client
	sources     map[quest.Category][]Source
	maxExcerpts int
	logger      *slog.Logger
}

var _ trusted.Retriever = (*Retriever)(nil)

// Option configures the retriever.
type Option func(*Retriever)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Retriever) { r.client = client }
}

// WithMaxExcerpts caps how many excerpts a search returns.
func WithMaxExcerpts(n int) Option {
	return func(r *Retriever) { r.maxExcerpts = n }
}

// New creates a web retriever over the given per-category sources.
func New(sources map[quest.Category][]Source, opts ...Option) *Retriever {
	r := &Retriever{
		client:      &http.Client{Timeout: 15 * time.Second},
		sources:     sources,
		maxExcerpts: 4,
		logger:      logging.WithComponent("trusted_web"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Search implements trusted.Retriever
func (r *Retriever) Search(ctx context.Context, query string, category quest.Category) ([]trusted.Excerpt, error) {
	excerpts := make([]trusted.Excerpt, 0, r.maxExcerpts)
	for _, source := range r.sources[category] {
		if len(excerpts) >= r.maxExcerpts {
			break
		}
		html, err := r.fetch(ctx, source.URL)
		if err != nil {
			r.logger.Warn("trusted source unreachable, skipping",
				"source", source.Name,
				"error", err)
			continue
		}
		parsed, err := ParseExcerpts(html, source)
		if err != nil {
			r.logger.Warn("trusted source unparsable, skipping",
				"source", source.Name,
				"error", err)
			continue
		}
		excerpts = append(excerpts, rank(parsed, query)...)
	}
	if len(excerpts) > r.maxExcerpts {
		excerpts = excerpts[:r.maxExcerpts]
	}
	return excerpts, nil
}

func (r *Retriever) fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ParseExcerpts extracts heading/paragraph pairs from an HTML page. Each
// heading becomes an excerpt title and the following paragraphs its content.
func ParseExcerpts(html string, source Source) ([]trusted.Excerpt, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source.Name, err)
	}

	var excerpts []trusted.Excerpt
	doc.Find("h1,h2,h3").Each(func(_ int, heading *goquery.Selection) {
		title := strings.TrimSpace(heading.Text())
		if title == "" {
			return
		}
		var paragraphs []string
		heading.NextFilteredUntil("p,li", "h1,h2,h3").Each(func(_ int, p *goquery.Selection) {
			if text := strings.TrimSpace(p.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) == 0 {
			return
		}
		excerpts = append(excerpts, trusted.Excerpt{
			Title:      title,
			Content:    strings.Join(paragraphs, " "),
			Source:     source.Name,
			Confidence: source.Confidence,
		})
	})
	return excerpts, nil
}

// rank orders excerpts so those sharing terms with the query come first.
func rank(excerpts []trusted.Excerpt, query string) []trusted.Excerpt {
	terms := strings.Fields(strings.ToLower(query))
	matched := make([]trusted.Excerpt, 0, len(excerpts))
	rest := make([]trusted.Excerpt, 0, len(excerpts))
	for _, ex := range excerpts {
		text := strings.ToLower(ex.Title + " " + ex.Content)
		hit := false
		for _, term := range terms {
			if strings.Contains(text, term) {
				hit = true
				break
			}
		}
		if hit {
			matched = append(matched, ex)
		} else {
			rest = append(rest, ex)
		}
	}
	return append(matched, rest...)
}
