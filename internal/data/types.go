package data

type CompanyProfile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Exchange          string  `json:"exchangeShortName"`
	Industry          string  `json:"industry"`
	Sector            string  `json:"sector"`
	Country           string  `json:"country"`
	CEO               string  `json:"ceo"`
	Website           string  `json:"website"`
	Description       string  `json:"description"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	Price             float64 `json:"price"`
	MarketCap         float64 `json:"mktCap"`
	Beta              float64 `json:"beta"`
	LastDividend      float64 `json:"lastDiv"`
}

// EconomicPoint is one observation of a macro indicator series.
type EconomicPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

type PriceBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type PriceTarget struct {
	Symbol          string  `json:"symbol"`
	AnalystName     string  `json:"analystName"`
	PublishedDate   string  `json:"publishedDate"`
	PriceTarget     float64 `json:"priceTarget"`
	PriceWhenPosted float64 `json:"priceWhenPosted"`
	AnalystCompany  string  `json:"analystCompany"`
}

// Earnings is one quarter of the earnings calendar. Estimates and revenue
// may be unknown.
type Earnings struct {
	Date             string   `json:"date"`
	EPS              *float64 `json:"eps"`
	EPSEstimated     *float64 `json:"epsEstimated"`
	Revenue          *float64 `json:"revenue"`
	RevenueEstimated *float64 `json:"revenueEstimated"`
}

const (
	TransactionPurchase = "P-Purchase"
	TransactionSale     = "S-Sale"
)

type InsiderTrade struct {
	TransactionDate      string  `json:"transactionDate"`
	Symbol               string  `json:"symbol"`
	TransactionType      string  `json:"transactionType"`
	SecuritiesTransacted float64 `json:"securitiesTransacted"`
	Price                float64 `json:"price"`
	TypeOfOwner          string  `json:"typeOfOwner"`
	ReportingName        string  `json:"reportingName"`
}

type InstitutionalHolder struct {
	Holder       string  `json:"holder"`
	Shares       float64 `json:"shares"`
	DateReported string  `json:"dateReported"`
	Change       float64 `json:"change"`
}

type quote struct {
	Price     float64 `json:"price"`
	PE        float64 `json:"pe"`
	MarketCap float64 `json:"marketCap"`
	EPS       float64 `json:"eps"`
}

type peers struct {
	Symbol    string   `json:"symbol"`
	PeersList []string `json:"peersList"`
}

type transcript struct {
	Symbol  string `json:"symbol"`
	Quarter int    `json:"quarter"`
	Year    int    `json:"year"`
	Content string `json:"content"`
}
