package agent

// Persona frames a single insight attempt.
type Persona string

var CodingPersonas = []Persona{
	"Monte Carlo Price Estimator",
	"Monte Carlo Earnings Estimator",
	"MACD Crossover Detector",
	"Insider Sentiment Evaluator",
	"Institutional Ownership Trend Spotter",
	"Earnings Surprise Predictor",
	"Analyst Target Price Consensus Tracker",
	"Peer Performance Comparator",
	"Value vs Growth Classifier",
	"Dividend Stability Assessor",
	"Volume Trend Analyzer",
	"Price Support/Resistance Identifier",
	"Macroeconomic Sensitivity Estimator",
	"Management Effectiveness Scorer",
	"Sector Rotation Alignment Checker",
	"Short Interest Trend Analyzer",
	"Option Volume Unusual Activity Detector",
	"Technical Breakout Pattern Recognizer",
	"Fundamental-Technical Divergence Spotter",
	"Insider-Analyst Sentiment Aligner",
	"Price Momentum Strength Evaluator",
	"Volatility Analyst",
	"Correlation Expert Analyst",
	"Historical Earnings Analyst",
	"Economics Analyst",
	"Employment Analyst",
	"Macro Analyst",
	"Industry Peers Analyst",
	"Technical Analyst",
	"Growth Analyst",
	"Risk Analyst",
	"PhD in Financial Statistics Analyst",
	"S&P Performance Comparison Analyst",
}

var NewsPersonas = []Persona{
	"Sentiment Trend Analyzer",
	"Keyword Frequency Tracker",
	"Comparative Analyst",
	"Crisis Detection Specialist",
	"Product Launch Impact Assessor",
	"Management Change Evaluator",
	"Regulatory Impact Predictor",
	"Supply Chain Disruption Detector",
	"Merger and Acquisition Rumor Tracker",
	"Competitive Landscape Mapper",
	"Innovation Pipeline Monitor",
	"Environmental, Social, Governance (ESG) Scorer",
	"Market Expansion Opportunity Identifier",
	"Legal Risk Assessor",
	"Brand Perception Tracker",
	"Industry Trend Correlator",
	"Executive Statement Analyzer",
	"Financial Performance Expectation Setter",
	"Social Media Buzz Quantifier",
	"Geopolitical Risk Evaluator",
}

// Picker draws an index in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

func pick[T any](p Picker, items []T) T {
	return items[p.IntN(len(items))]
}
