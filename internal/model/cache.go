package model

import "time"

const (
	NamespaceFilings  = "filings"
	NamespaceNews     = "news"
	NamespaceInsights = "insights"
)

type CacheEntry struct {
	Payload   []byte
	WrittenAt time.Time
}
