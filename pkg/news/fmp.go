package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	fmpMaxPages = 25
	fmpPageSize = 50
)

// PageFetcher is satisfied by *fmp.Client.
type PageFetcher interface {
	Fetch(ctx context.Context, resource string, params url.Values) (json.RawMessage, error)
}

type FMPClient struct {
	fetcher PageFetcher
}

func NewFMPClient(fetcher PageFetcher) *FMPClient {
	return &FMPClient{fetcher: fetcher}
}

func (c *FMPClient) Name() string {
	return "FMP"
}

// CompanyNews walks stock_news pages until a page comes back empty or the
// page limit is reached.
func (c *FMPClient) CompanyNews(ctx context.Context, ticker string) ([]Article, error) {
	var articles []Article

	for page := 0; page < fmpMaxPages; page++ {
		raw, err := c.fetcher.Fetch(ctx, "v3/stock_news", url.Values{
			"tickers": {ticker},
			"page":    {strconv.Itoa(page)},
			"limit":   {strconv.Itoa(fmpPageSize)},
		})
		if err != nil {
			return nil, err
		}

		var items []fmpNewsItem
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("fmp news decode: %w", err)
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			publishedAt, err := time.Parse(time.DateTime, item.PublishedDate)
			if err != nil {
				publishedAt = time.Time{}
			}

			var symbols []string
			if item.Symbol != "" {
				symbols = []string{item.Symbol}
			}

			articles = append(articles, Article{
				ExternalID:  generateExternalID(item.URL),
				Headline:    item.Title,
				Detail:      item.Text,
				URL:         item.URL,
				Publisher:   item.Site,
				PublishedAt: publishedAt,
				Symbols:     symbols,
				Source:      c.Name(),
			})
		}
	}

	return articles, nil
}

type fmpNewsItem struct {
	Symbol        string `json:"symbol"`
	PublishedDate string `json:"publishedDate"`
	Title         string `json:"title"`
	Text          string `json:"text"`
	Site          string `json:"site"`
	URL           string `json:"url"`
}
