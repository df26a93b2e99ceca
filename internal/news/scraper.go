package news

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"invest-sentinel/internal/api"
	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/types"
)

// Scraper collects finance headlines. Sources are tried in order; the
// first one that yields anything wins. With AllowTemplates set, a scrape
// that comes back empty degrades to canned headlines so a demo run always
// has something to score.
type Scraper struct {
	timeout        time.Duration
	allowTemplates bool
}

var _ interfaces.NewsSource = (*Scraper)(nil)

func NewScraper(timeout time.Duration, allowTemplates bool) *Scraper {
	return &Scraper{timeout: timeout, allowTemplates: allowTemplates}
}

// Headlines fetches up to max finance headlines for a ticker.
func (s *Scraper) Headlines(ctx context.Context, ticker string, max int) ([]types.Headline, error) {
	if max <= 0 {
		max = 8
	}
	timer := logger.StartOperation(ctx, "news.scrape", "ticker", ticker)

	headlines, err := s.scrapeChinanews(ctx, max)
	if err != nil {
		logger.Warn(ctx, "Primary news source failed", "source", "chinanews", "error", err)
	}

	if len(headlines) == 0 {
		headlines, err = s.scrapeSinaRoll(ctx, max)
		if err != nil {
			logger.Warn(ctx, "Fallback news source failed", "source", "sina", "error", err)
		}
	}

	if len(headlines) == 0 && s.allowTemplates {
		logger.Warn(ctx, "No headlines scraped, using template headlines", "ticker", ticker)
		headlines = templateHeadlines(ticker)
	}

	timer.End("headlines", len(headlines))
	logger.Info(ctx, "News scraping completed", "ticker", ticker, "headlines", len(headlines))
	return headlines, nil
}

// scrapeChinanews walks the chinanews finance index list.
func (s *Scraper) scrapeChinanews(ctx context.Context, max int) ([]types.Headline, error) {
	c := colly.NewCollector(
		colly.AllowedDomains("www.chinanews.com.cn"),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		for k, v := range api.BrowserHeaders() {
			r.Headers.Set(k, v)
		}
	})

	var headlines []types.Headline
	c.OnHTML("div.content_list ul li a", func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		title := strings.TrimSpace(e.Text)
		href := e.Attr("href")
		if len([]rune(title)) <= 8 || !strings.Contains(href, "http") {
			return
		}
		headlines = append(headlines, types.Headline{
			Title:  title,
			URL:    e.Request.AbsoluteURL(href),
			Source: "chinanews",
		})
	})

	if err := c.Visit("https://www.chinanews.com.cn/finance/index.shtml"); err != nil {
		return nil, fmt.Errorf("visit chinanews: %w", err)
	}
	c.Wait()
	return headlines, nil
}

// scrapeSinaRoll parses the Sina Finance roll page with goquery.
func (s *Scraper) scrapeSinaRoll(ctx context.Context, max int) ([]types.Headline, error) {
	url := "https://finance.sina.com.cn/roll/index.d.html?cid=100872"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range api.BrowserHeaders() {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch sina roll: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sina roll http %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse sina roll: %w", err)
	}

	var headlines []types.Headline
	doc.Find("ul.list_009 li a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Text())
		if len([]rune(title)) > 5 {
			href, _ := sel.Attr("href")
			headlines = append(headlines, types.Headline{Title: title, URL: href, Source: "sina"})
		}
		return len(headlines) < max
	})
	return headlines, nil
}

// templateHeadlines produces canned headlines mentioning the ticker, the
// demo-mode fallback when no source is reachable.
func templateHeadlines(ticker string) []types.Headline {
	templates := []string{
		"%s公司发布最新财报，业绩表现亮眼",
		"分析师上调%s目标价，建议买入",
		"%s面临市场竞争压力，股价承压",
		"机构投资者增配%s股票，看好长期发展",
		"%s宣布重大合作伙伴关系，市场反应积极",
	}
	out := make([]types.Headline, len(templates))
	for i, tpl := range templates {
		out[i] = types.Headline{Title: fmt.Sprintf(tpl, ticker), Source: "template"}
	}
	return out
}
