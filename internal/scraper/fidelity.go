package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mfalcone/fund-tracker/internal/config"
	"github.com/mfalcone/fund-tracker/internal/models"
	"github.com/mfalcone/fund-tracker/internal/ratelimit"
)

// Page element selectors on the price-and-performance page.
const (
	priceDateSelector = ".AG_price_date"
	fundSelector      = ".fund"
	fundNameSelector  = ".fund_name"
	numericSelector   = ".numeric"
)

// datePollInterval is how often Open re-reads the page while waiting for the
// as-of date to render.
const datePollInterval = time.Second

// Fidelity drives the Fidelity price-and-performance page.
type Fidelity struct {
	cfg     config.SourceConfig
	limiter *ratelimit.Limiter
	logger  *zap.Logger
}

// NewFidelity creates a Source for the configured price page. All sessions
// opened from it share the given limiter.
func NewFidelity(cfg config.SourceConfig, limiter *ratelimit.Limiter, logger *zap.Logger) *Fidelity {
	return &Fidelity{
		cfg:     cfg,
		limiter: limiter,
		logger:  logger,
	}
}

// Open fetches the price page, waits for the as-of date to render within the
// configured budget, and validates it against expectedDate.
func (s *Fidelity) Open(ctx context.Context, expectedDate string) (Session, error) {
	deadline := time.Now().Add(s.cfg.DateWait)

	var raw string
	for {
		var err error
		raw, err = s.readPriceDate()
		if err != nil {
			s.logger.Warn("Failed to read price page", zap.Error(err))
		}
		if raw != "" {
			break
		}
		if time.Now().After(deadline) {
			return nil, &CannotFindDateError{URL: s.cfg.URL}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(datePollInterval):
		}
	}

	asOf, err := SourceDateToISO(raw)
	if err != nil {
		s.logger.Warn("Unparseable price date", zap.String("raw", raw), zap.Error(err))
		return nil, &CannotFindDateError{URL: s.cfg.URL}
	}
	if asOf != expectedDate {
		return nil, &DifferentDateError{SourceDate: asOf, ExpectedDate: expectedDate}
	}

	s.logger.Info("Source session established", zap.String("as_of_date", asOf))
	return &fidelitySession{src: s, asOf: asOf}, nil
}

func (s *Fidelity) readPriceDate() (string, error) {
	c := s.newCollector()
	var date string
	c.OnHTML(priceDateSelector, func(e *colly.HTMLElement) {
		if date == "" {
			date = strings.TrimSpace(e.Text)
		}
	})
	if err := c.Visit(s.cfg.URL); err != nil {
		return "", fmt.Errorf("failed to fetch price page: %w", err)
	}
	return date, nil
}

// search submits a lookup code to the listing search and reads back the
// first result's displayed name and numeric fields.
func (s *Fidelity) search(lookup string) (name string, numerics []string, err error) {
	c := s.newCollector()
	c.OnHTML(fundSelector, func(e *colly.HTMLElement) {
		if name != "" {
			return
		}
		// the name cell stacks the fund name above its category; keep the first line
		name = strings.TrimSpace(strings.SplitN(e.ChildText(fundNameSelector), "\n", 2)[0])
		e.ForEach(numericSelector, func(_ int, n *colly.HTMLElement) {
			numerics = append(numerics, strings.TrimSpace(n.Text))
		})
	})

	u := s.cfg.URL + "?search=" + url.QueryEscape(lookup)
	if err := c.Visit(u); err != nil {
		return "", nil, fmt.Errorf("failed to search fund %s: %w", lookup, err)
	}
	return name, numerics, nil
}

func (s *Fidelity) newCollector() *colly.Collector {
	return colly.NewCollector(colly.UserAgent(s.cfg.UserAgent))
}

type fidelitySession struct {
	src    *Fidelity
	asOf   string
	closed bool
}

func (se *fidelitySession) AsOfDate() string { return se.asOf }

// FetchDelta is rate-limited through the shared limiter. When the result row
// has not rendered yet, one settle delay is granted before the read is
// declared failed.
func (se *fidelitySession) FetchDelta(fundName, lookup string) (int64, error) {
	var delta int64
	err := se.src.limiter.Do(func() error {
		name, numerics, err := se.src.search(lookup)
		if err != nil {
			return err
		}
		if name == "" && len(numerics) == 0 {
			time.Sleep(se.src.cfg.SettleDelay)
			name, numerics, err = se.src.search(lookup)
			if err != nil {
				return err
			}
		}
		if name == "" && len(numerics) == 0 {
			// nothing rendered at all; not an identity mismatch, so the
			// caller must not treat this fund as merely unmatched
			return fmt.Errorf("no search result rendered for %s", lookup)
		}
		if name != fundName {
			return &CannotMatchFundError{FundName: fundName, Lookup: lookup, FoundName: name}
		}
		if len(numerics) < 2 {
			return fmt.Errorf("fund %s: expected at least 2 numeric fields, got %d", lookup, len(numerics))
		}
		d, err := decimal.NewFromString(numerics[1])
		if err != nil {
			return fmt.Errorf("failed to parse dollar change %q for %s: %w", numerics[1], lookup, err)
		}
		delta = models.ScaleDelta(d)
		return nil
	})
	return delta, err
}

func (se *fidelitySession) Close() error {
	if se.closed {
		return nil
	}
	se.closed = true
	se.src.logger.Info("Source session closed")
	return nil
}
