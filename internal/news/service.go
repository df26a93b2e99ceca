package news

import (
	"context"
	"sync"
	"time"

	"invest-sentinel/internal/logger"
	"invest-sentinel/internal/types"
)

// Service provides headline sentiment with caching, so the watch mode does
// not re-scrape the same ticker every cycle.
type Service struct {
	scraper  *Scraper
	analyzer *Analyzer
	cache    *sentimentCache
	cfg      *ServiceConfig
}

// ServiceConfig configures the news sentiment service.
type ServiceConfig struct {
	MaxHeadlines   int
	CacheDuration  time.Duration
	ScraperTimeout time.Duration
	AllowTemplates bool
}

// DefaultServiceConfig returns the default configuration.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		MaxHeadlines:   8,
		CacheDuration:  1 * time.Hour,
		ScraperTimeout: 10 * time.Second,
		AllowTemplates: true,
	}
}

// sentimentCache stores sentiment reports temporarily.
type sentimentCache struct {
	mu   sync.RWMutex
	data map[string]*cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	report    types.SentimentReport
	timestamp time.Time
}

func newSentimentCache(ttl time.Duration) *sentimentCache {
	return &sentimentCache{
		data: make(map[string]*cacheEntry),
		ttl:  ttl,
	}
}

func (c *sentimentCache) get(ticker string) (types.SentimentReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.data[ticker]
	if !exists || time.Since(entry.timestamp) > c.ttl {
		return types.SentimentReport{}, false
	}
	return entry.report, true
}

func (c *sentimentCache) set(ticker string, report types.SentimentReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[ticker] = &cacheEntry{report: report, timestamp: time.Now()}
}

// NewService creates a news sentiment service.
func NewService(cfg *ServiceConfig) *Service {
	if cfg == nil {
		cfg = DefaultServiceConfig()
	}
	return &Service{
		scraper:  NewScraper(cfg.ScraperTimeout, cfg.AllowTemplates),
		analyzer: NewAnalyzer(),
		cache:    newSentimentCache(cfg.CacheDuration),
		cfg:      cfg,
	}
}

// GetSentiment returns the aggregated headline sentiment for a ticker,
// cached or fresh. Scrape failures are not errors: a ticker with no
// reachable news scores neutral.
func (s *Service) GetSentiment(ctx context.Context, ticker string) types.SentimentReport {
	if cached, ok := s.cache.get(ticker); ok {
		logger.Debug(ctx, "Using cached sentiment", "ticker", ticker)
		return cached
	}

	headlines, err := s.scraper.Headlines(ctx, ticker, s.cfg.MaxHeadlines)
	if err != nil {
		logger.Warn(ctx, "Headline scraping failed, scoring neutral", "ticker", ticker, "error", err)
	}

	report := s.analyzer.Report(ctx, headlines)
	s.cache.set(ticker, report)

	logger.Info(ctx, "Sentiment computed", "ticker", ticker,
		"score", report.Score, "label", report.Label, "headlines", len(headlines))
	return report
}

// ClearCache drops all cached sentiment.
func (s *Service) ClearCache() {
	s.cache.mu.Lock()
	defer s.cache.mu.Unlock()
	s.cache.data = make(map[string]*cacheEntry)
}
