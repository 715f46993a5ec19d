// Package market exposes the data layer to generated programs as the
// interpreted package "velocity/market".
package market

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"velocity/internal/data"

	"github.com/traefik/yaegi/interp"
)

// ImportPath is what generated programs import.
const ImportPath = "velocity/market"

// Function documents one exported call for the code-writing prompt.
type Function struct {
	Name        string
	Signature   string
	Description string
}

var Catalog = []Function{
	{"CompanyInformation", "func(ticker string) (CompanyProfile, error)",
		"Company profile: Symbol, CompanyName, Exchange, Industry, Sector, Country, CEO, Website, Description, FullTimeEmployees, Price, MarketCap, Beta, LastDividend. Zero value when unknown."},
	{"GDPGrowthRate", "func() ([]EconomicPoint, error)",
		"US GDP, last 12 quarters, newest first. EconomicPoint has Date (YYYY-MM-DD) and Value."},
	{"UnemploymentRate", "func() ([]EconomicPoint, error)",
		"US unemployment rate, last 12 months, newest first."},
	{"InflationRate", "func() ([]EconomicPoint, error)",
		"US inflation rate, last 10 years, newest first."},
	{"RetailSales", "func() ([]EconomicPoint, error)",
		"US retail sales, last 36 months, newest first."},
	{"TotalVehicleSales", "func() ([]EconomicPoint, error)",
		"US total vehicle sales, last 36 months, newest first."},
	{"MortgageRates", "func() ([]EconomicPoint, error)",
		"US 30-year fixed mortgage average, last 24 months, newest first."},
	{"CurrentPrice", "func(ticker string) (float64, error)",
		"Latest trade price. 0 when unknown."},
	{"PERatio", "func(ticker string) (float64, error)",
		"Trailing price/earnings ratio. 0 when unknown."},
	{"MarketCap", "func(ticker string) (float64, error)",
		"Market capitalization in USD. 0 when unknown."},
	{"EPS", "func(ticker string) (float64, error)",
		"Trailing earnings per share. 0 when unknown."},
	{"HistoricalPrices", "func(ticker string) ([]PriceBar, error)",
		"Daily bars for the last 251 trading days, newest first. PriceBar has Date, Open, High, Low, Close, Volume."},
	{"AnalystPriceTargets", "func(ticker string) ([]PriceTarget, error)",
		"Latest 25 analyst targets: Symbol, AnalystName, PublishedDate, PriceTarget, PriceWhenPosted, AnalystCompany."},
	{"HistoricalEarnings", "func(ticker string) ([]Earnings, error)",
		"Last 16 reported quarters: Date, EPS, EPSEstimated, Revenue, RevenueEstimated. All numbers are *float64 and may be nil except EPS."},
	{"InsiderTrades", "func(ticker string) ([]InsiderTrade, error)",
		"Recent insider trades: TransactionDate, Symbol, TransactionType, SecuritiesTransacted, Price, TypeOfOwner, ReportingName. TransactionType \"P-Purchase\" or \"S-Sale\"; ignore other types."},
	{"InstitutionalOwnership", "func(ticker string) ([]InstitutionalHolder, error)",
		"Holders on the latest report date: Holder, Shares, DateReported, Change (shares versus previous quarter)."},
	{"StockPeers", "func(ticker string) ([]string, error)",
		"Peer tickers such as [\"MSFT\", \"GOOGL\"]. Empty when unknown."},
}

// Exports binds the catalog to a. Calls made by the interpreted program run
// under ctx.
func Exports(ctx context.Context, a *data.Access) interp.Exports {
	symbols := map[string]reflect.Value{
		"CompanyInformation": reflect.ValueOf(func(ticker string) (data.CompanyProfile, error) {
			return a.CompanyInformation(ctx, ticker)
		}),
		"GDPGrowthRate": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.GDPGrowthRate(ctx)
		}),
		"UnemploymentRate": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.UnemploymentRate(ctx)
		}),
		"InflationRate": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.InflationRate(ctx)
		}),
		"RetailSales": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.RetailSales(ctx)
		}),
		"TotalVehicleSales": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.TotalVehicleSales(ctx)
		}),
		"MortgageRates": reflect.ValueOf(func() ([]data.EconomicPoint, error) {
			return a.MortgageRates(ctx)
		}),
		"CurrentPrice": reflect.ValueOf(func(ticker string) (float64, error) {
			return a.CurrentPrice(ctx, ticker)
		}),
		"PERatio": reflect.ValueOf(func(ticker string) (float64, error) {
			return a.PERatio(ctx, ticker)
		}),
		"MarketCap": reflect.ValueOf(func(ticker string) (float64, error) {
			return a.MarketCap(ctx, ticker)
		}),
		"EPS": reflect.ValueOf(func(ticker string) (float64, error) {
			return a.EPS(ctx, ticker)
		}),
		"HistoricalPrices": reflect.ValueOf(func(ticker string) ([]data.PriceBar, error) {
			return a.HistoricalPrices(ctx, ticker)
		}),
		"AnalystPriceTargets": reflect.ValueOf(func(ticker string) ([]data.PriceTarget, error) {
			return a.AnalystPriceTargets(ctx, ticker)
		}),
		"HistoricalEarnings": reflect.ValueOf(func(ticker string) ([]data.Earnings, error) {
			return a.HistoricalEarnings(ctx, ticker)
		}),
		"InsiderTrades": reflect.ValueOf(func(ticker string) ([]data.InsiderTrade, error) {
			return a.InsiderTrades(ctx, ticker)
		}),
		"InstitutionalOwnership": reflect.ValueOf(func(ticker string) ([]data.InstitutionalHolder, error) {
			return a.InstitutionalOwnership(ctx, ticker)
		}),
		"StockPeers": reflect.ValueOf(func(ticker string) ([]string, error) {
			return a.StockPeers(ctx, ticker)
		}),

		"CompanyProfile":      reflect.ValueOf((*data.CompanyProfile)(nil)),
		"EconomicPoint":       reflect.ValueOf((*data.EconomicPoint)(nil)),
		"PriceBar":            reflect.ValueOf((*data.PriceBar)(nil)),
		"PriceTarget":         reflect.ValueOf((*data.PriceTarget)(nil)),
		"Earnings":            reflect.ValueOf((*data.Earnings)(nil)),
		"InsiderTrade":        reflect.ValueOf((*data.InsiderTrade)(nil)),
		"InstitutionalHolder": reflect.ValueOf((*data.InstitutionalHolder)(nil)),
	}

	return interp.Exports{ImportPath + "/market": symbols}
}

// Describe renders the catalog as a Go-style listing for prompts.
func Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "import %q\n\n", ImportPath)
	for _, f := range Catalog {
		fmt.Fprintf(&sb, "// %s\nmarket.%s%s\n\n", f.Description, f.Name, strings.TrimPrefix(f.Signature, "func"))
	}
	return sb.String()
}
