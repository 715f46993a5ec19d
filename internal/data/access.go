// Package data is the single entry point to market data. Structured
// resources come from the provider; filings and news are cached per ticker.
package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"velocity/internal/cache"
	"velocity/internal/filing"
	"velocity/pkg/news"
)

// ErrFilingUnavailable wraps any failure to obtain a filing's markup.
var ErrFilingUnavailable = errors.New("filing unavailable")

const (
	gdpPoints          = 12
	unemploymentPoints = 12
	inflationPoints    = 10
	retailSalesPoints  = 36
	vehicleSalesPoints = 36
	mortgageStride     = 4
	mortgagePoints     = 24
	pricePoints        = 251
	priceTargetPoints  = 25
	earningsPoints     = 16
)

// Provider returns raw JSON for a resource path such as "v3/quote/AAPL".
type Provider interface {
	Fetch(ctx context.Context, resource string, params url.Values) (json.RawMessage, error)
}

type FilingSource interface {
	LatestFiling(ctx context.Context, ticker, form string) (string, error)
}

// Cache is satisfied by *cache.Cache.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Put(ctx context.Context, key string, v any) error
}

type Options struct {
	Provider    Provider
	Filings     FilingSource
	News        news.Client
	FilingCache Cache
	NewsCache   Cache
}

type Access struct {
	provider    Provider
	filings     FilingSource
	news        news.Client
	filingCache Cache
	newsCache   Cache
}

func New(opts Options) *Access {
	return &Access{
		provider:    opts.Provider,
		filings:     opts.Filings,
		news:        opts.News,
		filingCache: opts.FilingCache,
		newsCache:   opts.NewsCache,
	}
}

// fetchList decodes a JSON array resource into dst.
func (a *Access) fetchList(ctx context.Context, resource string, params url.Values, dst any) error {
	raw, err := a.provider.Fetch(ctx, resource, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", resource, err)
	}
	return nil
}

func (a *Access) CompanyInformation(ctx context.Context, ticker string) (CompanyProfile, error) {
	var profiles []CompanyProfile
	if err := a.fetchList(ctx, "v3/profile/"+ticker, nil, &profiles); err != nil {
		return CompanyProfile{}, err
	}
	if len(profiles) == 0 {
		slog.Warn("no company information", "ticker", ticker)
		return CompanyProfile{}, nil
	}
	return profiles[0], nil
}

func (a *Access) economic(ctx context.Context, name string, limit int) ([]EconomicPoint, error) {
	var points []EconomicPoint
	if err := a.fetchList(ctx, "v4/economic", url.Values{"name": {name}}, &points); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		slog.Warn("no economic data", "series", name)
	}
	return head(points, limit), nil
}

func (a *Access) GDPGrowthRate(ctx context.Context) ([]EconomicPoint, error) {
	return a.economic(ctx, "GDP", gdpPoints)
}

func (a *Access) UnemploymentRate(ctx context.Context) ([]EconomicPoint, error) {
	return a.economic(ctx, "unemploymentRate", unemploymentPoints)
}

func (a *Access) InflationRate(ctx context.Context) ([]EconomicPoint, error) {
	return a.economic(ctx, "inflation", inflationPoints)
}

func (a *Access) RetailSales(ctx context.Context) ([]EconomicPoint, error) {
	return a.economic(ctx, "retailSales", retailSalesPoints)
}

func (a *Access) TotalVehicleSales(ctx context.Context) ([]EconomicPoint, error) {
	return a.economic(ctx, "totalVehicleSales", vehicleSalesPoints)
}

// MortgageRates samples the weekly series every fourth point.
func (a *Access) MortgageRates(ctx context.Context) ([]EconomicPoint, error) {
	points, err := a.economic(ctx, "30YearFixedRateMortgageAverage", -1)
	if err != nil {
		return nil, err
	}

	sampled := make([]EconomicPoint, 0, len(points)/mortgageStride+1)
	for i := 0; i < len(points); i += mortgageStride {
		sampled = append(sampled, points[i])
	}
	return head(sampled, mortgagePoints), nil
}

func (a *Access) quote(ctx context.Context, ticker string) (quote, error) {
	var quotes []quote
	if err := a.fetchList(ctx, "v3/quote/"+ticker, nil, &quotes); err != nil {
		return quote{}, err
	}
	if len(quotes) == 0 {
		slog.Warn("no quote", "ticker", ticker)
		return quote{}, nil
	}
	return quotes[0], nil
}

func (a *Access) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	q, err := a.quote(ctx, ticker)
	return q.Price, err
}

func (a *Access) PERatio(ctx context.Context, ticker string) (float64, error) {
	q, err := a.quote(ctx, ticker)
	return q.PE, err
}

func (a *Access) MarketCap(ctx context.Context, ticker string) (float64, error) {
	q, err := a.quote(ctx, ticker)
	return q.MarketCap, err
}

func (a *Access) EPS(ctx context.Context, ticker string) (float64, error) {
	q, err := a.quote(ctx, ticker)
	return q.EPS, err
}

// HistoricalPrices returns the latest daily bars, newest first.
func (a *Access) HistoricalPrices(ctx context.Context, ticker string) ([]PriceBar, error) {
	resource := "v3/historical-price-full/" + ticker
	raw, err := a.provider.Fetch(ctx, resource, nil)
	if err != nil {
		return nil, err
	}

	var series struct {
		Historical []PriceBar `json:"historical"`
	}
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, fmt.Errorf("decode %s: %w", resource, err)
	}
	if len(series.Historical) == 0 {
		slog.Warn("no price history", "ticker", ticker)
	}
	return head(series.Historical, pricePoints), nil
}

func (a *Access) AnalystPriceTargets(ctx context.Context, ticker string) ([]PriceTarget, error) {
	var targets []PriceTarget
	if err := a.fetchList(ctx, "v4/price-target", url.Values{"symbol": {ticker}}, &targets); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		slog.Warn("no price targets", "ticker", ticker)
	}
	return head(targets, priceTargetPoints), nil
}

// HistoricalEarnings returns the latest quarters with a reported EPS.
func (a *Access) HistoricalEarnings(ctx context.Context, ticker string) ([]Earnings, error) {
	var all []Earnings
	if err := a.fetchList(ctx, "v3/historical/earning_calendar/"+ticker, nil, &all); err != nil {
		return nil, err
	}

	reported := make([]Earnings, 0, earningsPoints)
	for _, e := range all {
		if e.EPS != nil {
			reported = append(reported, e)
		}
	}
	if len(reported) == 0 {
		slog.Warn("no reported earnings", "ticker", ticker)
	}
	return head(reported, earningsPoints), nil
}

func (a *Access) InsiderTrades(ctx context.Context, ticker string) ([]InsiderTrade, error) {
	var trades []InsiderTrade
	params := url.Values{"symbol": {ticker}, "page": {"0"}}
	if err := a.fetchList(ctx, "v4/insider-trading", params, &trades); err != nil {
		return nil, err
	}
	if len(trades) == 0 {
		slog.Warn("no insider trades", "ticker", ticker)
	}

	purchased, sold := InsiderTotals(trades)
	slog.Debug("insider totals", "ticker", ticker, "purchased", purchased, "sold", sold)

	return trades, nil
}

// InsiderTotals sums shares bought and sold. Other transaction types are
// ignored.
func InsiderTotals(trades []InsiderTrade) (purchased, sold float64) {
	for _, t := range trades {
		switch t.TransactionType {
		case TransactionPurchase:
			purchased += t.SecuritiesTransacted
		case TransactionSale:
			sold += t.SecuritiesTransacted
		}
	}
	return purchased, sold
}

// InstitutionalOwnership keeps only the holders reported on the most recent
// report date.
func (a *Access) InstitutionalOwnership(ctx context.Context, ticker string) ([]InstitutionalHolder, error) {
	var holders []InstitutionalHolder
	if err := a.fetchList(ctx, "v3/institutional-holder/"+ticker, nil, &holders); err != nil {
		return nil, err
	}
	if len(holders) == 0 {
		slog.Warn("no institutional holders", "ticker", ticker)
		return nil, nil
	}

	latest := holders[0].DateReported
	current := make([]InstitutionalHolder, 0, len(holders))
	for _, h := range holders {
		if h.DateReported == latest {
			current = append(current, h)
		}
	}
	return current, nil
}

func (a *Access) StockPeers(ctx context.Context, ticker string) ([]string, error) {
	var list []peers
	if err := a.fetchList(ctx, "v4/stock_peers", url.Values{"symbol": {ticker}}, &list); err != nil {
		return nil, err
	}
	if len(list) == 0 || list[0].PeersList == nil {
		slog.Warn("no stock peers", "ticker", ticker)
		return []string{}, nil
	}
	return list[0].PeersList, nil
}

// EarningsTranscript returns the text of the most recent earnings call.
func (a *Access) EarningsTranscript(ctx context.Context, ticker string) (string, error) {
	var dates [][]any
	if err := a.fetchList(ctx, "v4/earning_call_transcript", url.Values{"symbol": {ticker}}, &dates); err != nil {
		return "", err
	}
	if len(dates) == 0 || len(dates[0]) < 2 {
		slog.Warn("no earnings transcript", "ticker", ticker)
		return "", nil
	}

	// each entry is [quarter, year, date]
	quarter, year := fmt.Sprint(dates[0][0]), fmt.Sprint(dates[0][1])

	var transcripts []transcript
	params := url.Values{"year": {year}, "quarter": {quarter}}
	if err := a.fetchList(ctx, "v3/earning_call_transcript/"+ticker, params, &transcripts); err != nil {
		return "", err
	}
	if len(transcripts) == 0 || transcripts[0].Content == "" {
		slog.Warn("no transcript content", "ticker", ticker, "year", year, "quarter", quarter)
		return "", nil
	}
	return transcripts[0].Content, nil
}

// News returns the ticker's news corpus, served from cache while valid.
func (a *Access) News(ctx context.Context, ticker string) ([]news.Article, error) {
	key := cache.NewsKey(ticker)

	var articles []news.Article
	ok, err := a.newsCache.Get(ctx, key, &articles)
	if err != nil {
		return nil, err
	}
	if ok {
		return articles, nil
	}

	slog.Info("fetching news", "ticker", ticker, "provider", a.news.Name())
	articles, err = a.news.CompanyNews(ctx, ticker)
	if err != nil {
		return nil, err
	}

	if err := a.newsCache.Put(ctx, key, articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Filing returns the parsed section map of the latest filing of form. The
// whole map is cached; sub-section lookups all read the same entry.
func (a *Access) Filing(ctx context.Context, ticker, form string) (map[string]string, error) {
	key := cache.FilingKey(ticker, form)

	var sections map[string]string
	ok, err := a.filingCache.Get(ctx, key, &sections)
	if err != nil {
		return nil, err
	}
	if ok {
		return sections, nil
	}

	slog.Info("fetching filing", "ticker", ticker, "form", form)
	markup, err := a.filings.LatestFiling(ctx, ticker, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrFilingUnavailable, ticker, form, err)
	}

	sections = filing.Parse(markup)
	if err := a.filingCache.Put(ctx, key, sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// Section returns one filing sub-section, or "" when the filing does not
// contain it.
func (a *Access) Section(ctx context.Context, ticker string, s Section) (string, error) {
	sections, err := a.Filing(ctx, ticker, s.Form)
	if err != nil {
		return "", err
	}

	for _, k := range s.Keys {
		if content, ok := sections[k]; ok {
			return content, nil
		}
	}

	slog.Warn("section not found", "ticker", ticker, "section", s.Name)
	return "", nil
}

func head[T any](items []T, n int) []T {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
