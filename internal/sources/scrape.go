package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"herald/internal/domain/news"
	"herald/pkg/errors"
)

// selectorSet is one site's CSS selectors for its article cards.
type selectorSet struct {
	card    string
	title   string
	link    string
	summary string
}

// SiteScraper is the HTML-scrape adapter variant, parameterized per site.
type SiteScraper struct {
	site       string
	urlPattern string // fmt pattern taking the topic slug
	linkPrefix string // prepended to relative hrefs
	selectors  selectorSet
	max        int
	client     *http.Client
}

// NewTheBlockScraper scrapes The Block topic pages.
func NewTheBlockScraper(client *http.Client) *SiteScraper {
	return &SiteScraper{
		site:       "theblock",
		urlPattern: "https://www.theblock.co/topic/%s",
		linkPrefix: "https://www.theblock.co",
		selectors: selectorSet{
			card:    "article.article-card",
			title:   "h3.article-card__title",
			link:    "a.article-card__link",
			summary: "p.article-card__description",
		},
		max:    10,
		client: client,
	}
}

// NewDecryptScraper scrapes Decrypt topic pages.
func NewDecryptScraper(client *http.Client) *SiteScraper {
	return &SiteScraper{
		site:       "decrypt",
		urlPattern: "https://decrypt.co/topic/%s",
		selectors: selectorSet{
			card:    "article.post-card",
			title:   "h3.post-card__title",
			link:    "a.post-card__link",
			summary: "p.post-card__excerpt",
		},
		max:    5,
		client: client,
	}
}

// NewCryptoSlateScraper scrapes CryptoSlate category pages.
func NewCryptoSlateScraper(client *http.Client) *SiteScraper {
	return &SiteScraper{
		site:       "cryptoslate",
		urlPattern: "https://cryptoslate.com/category/%s/",
		selectors: selectorSet{
			card:    "article.post",
			title:   "h2.post-title",
			link:    "a.post-title-link",
			summary: "div.post-excerpt",
		},
		max:    5,
		client: client,
	}
}

// Name identifies the source in logs and metrics.
func (s *SiteScraper) Name() string {
	return s.site
}

// Fetch downloads the site's topic page and extracts article cards.
// Cards missing a title or link are skipped. A topic the site does not
// cover yields an empty result, not an error.
func (s *SiteScraper) Fetch(ctx context.Context, topic news.Topic) ([]news.Article, error) {
	slug, ok := news.ScrapeSlug(topic, s.site)
	if !ok {
		return nil, nil
	}

	pageURL := fmt.Sprintf(s.urlPattern, slug)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "%s: %v", s.site, err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "%s: %v", s.site, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "%s returned status %d", s.site, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrFetchFailed, "%s: parse: %v", s.site, err)
	}

	articles := make([]news.Article, 0, s.max)
	doc.Find(s.selectors.card).EachWithBreak(func(_ int, card *goquery.Selection) bool {
		title := strings.TrimSpace(card.Find(s.selectors.title).First().Text())
		href, hasHref := card.Find(s.selectors.link).First().Attr("href")
		if title == "" || !hasHref || href == "" {
			return true
		}

		link := href
		if s.linkPrefix != "" && strings.HasPrefix(href, "/") {
			link = s.linkPrefix + href
		}

		articles = append(articles, news.Article{
			Title:   title,
			Summary: strings.TrimSpace(card.Find(s.selectors.summary).First().Text()),
			Link:    link,
			Source:  s.site,
		})
		return len(articles) < s.max
	})

	return articles, nil
}
