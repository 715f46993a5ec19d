// Package edgar downloads the latest primary document of a company's SEC
// filing from EDGAR.
package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

var ErrNoFiling = errors.New("edgar: no filing found")

const (
	defaultWWWBase  = "https://www.sec.gov"
	defaultDataBase = "https://data.sec.gov"
)

// Client talks to EDGAR. SEC requires a declared User-Agent with contact
// details on every request.
type Client struct {
	userAgent  string
	wwwBase    string
	dataBase   string
	httpClient *http.Client

	mu   sync.Mutex
	ciks map[string]int64
}

func NewClient(userAgent string) *Client {
	return &Client{
		userAgent:  userAgent,
		wwwBase:    defaultWWWBase,
		dataBase:   defaultDataBase,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// LatestFiling returns the markup of the most recent filing of form (e.g.
// "10-K") for ticker.
func (c *Client) LatestFiling(ctx context.Context, ticker, form string) (string, error) {
	cik, err := c.lookupCIK(ctx, ticker)
	if err != nil {
		return "", err
	}

	var subs submissions
	if err := c.getJSON(ctx, fmt.Sprintf("%s/submissions/CIK%010d.json", c.dataBase, cik), &subs); err != nil {
		return "", err
	}

	recent := subs.Filings.Recent
	for i, f := range recent.Form {
		if f != form || i >= len(recent.AccessionNumber) || i >= len(recent.PrimaryDocument) {
			continue
		}
		accession := strings.ReplaceAll(recent.AccessionNumber[i], "-", "")
		docURL := fmt.Sprintf("%s/Archives/edgar/data/%d/%s/%s", c.wwwBase, cik, accession, recent.PrimaryDocument[i])

		body, err := c.get(ctx, docURL)
		if err != nil {
			return "", err
		}
		return string(body), nil
	}

	return "", fmt.Errorf("%w: %s %s", ErrNoFiling, ticker, form)
}

func (c *Client) lookupCIK(ctx context.Context, ticker string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ciks == nil {
		var raw map[string]companyTicker
		if err := c.getJSON(ctx, c.wwwBase+"/files/company_tickers.json", &raw); err != nil {
			return 0, err
		}
		ciks := make(map[string]int64, len(raw))
		for _, ct := range raw {
			ciks[strings.ToUpper(ct.Ticker)] = ct.CIK
		}
		c.ciks = ciks
	}

	cik, ok := c.ciks[strings.ToUpper(ticker)]
	if !ok {
		return 0, fmt.Errorf("%w: unknown ticker %s", ErrNoFiling, ticker)
	}
	return cik, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst any) error {
	body, err := c.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("edgar decode: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("edgar request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Encoding", "identity")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("edgar fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("edgar fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("edgar read: %w", err)
	}
	return body, nil
}

type companyTicker struct {
	CIK    int64  `json:"cik_str"`
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

type submissions struct {
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			Form            []string `json:"form"`
			FilingDate      []string `json:"filingDate"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}
