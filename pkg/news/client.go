// Package news fetches company news from the configured provider.
package news

import (
	"context"
	"time"
)

type Article struct {
	ExternalID  string    `json:"external_id"`
	Headline    string    `json:"headline"`
	Detail      string    `json:"detail"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
	Symbols     []string  `json:"symbols"`
	Publisher   string    `json:"publisher"`
}

// Client returns the recent news corpus for one ticker.
type Client interface {
	CompanyNews(ctx context.Context, ticker string) ([]Article, error)
	Name() string
}
