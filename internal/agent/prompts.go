package agent

import (
	"fmt"
	"strings"
	"velocity/internal/market"
	"velocity/internal/sandbox"
	"velocity/pkg/news"
)

const insightFormat = `Return one paragraph of insight. Put a heading on the first line that states the finding itself; "ABC's next support is at 138" beats "ABC's support levels".
Start directly with the insight: no preamble, no closing remarks. Use numbers and statistics wherever the data allows.`

const codePromptTemplate = `You are a quantitative programmer at a large hedge fund working as a %s. Write a self-contained Go program that computes statistics which would matter to that role.

The company under analysis is %s. You may also focus purely on the macroeconomic series when that suits the role better.

The package below is already implemented. Import it and call its functions directly; do not reimplement them. Every call returns a value and an error; check the error.

%s
Besides %q you may import only these standard library packages: %s.

Rules:
- Write package main with a func main that prints its results as plain text. No charts, no files, no network.
- Stay on a single topic.
- The first line is a comment explaining how the analysis reflects the role of a %s.
- End with comments on how to read the printed numbers: what high or low values imply and how an analyst would use them in a research report.
- Guard every division, slice index and nil pointer.
- Return only Go source code. No prose before or after it.`

const codeInsightTemplate = `You are a senior analyst turning a junior analyst's work into research that hedge funds pay for.

The junior analyst was given this program to run:
%s

It printed:
%s

Extract the single most useful insight from these results, the way a quantitative analyst at a top fund would.
` + insightFormat

const filingPromptTemplate = `You are an expert financial analyst reading SEC filings for %s and drawing conclusions only a PhD-level quant would draw.
Below is the "%s" section of the latest %s. Read it carefully and extract one unique insight that would inform a buy, hold or sell rating.
Be technical, quantitative and creative.

Section text:
%s

` + insightFormat

const newsPromptTemplate = `You are an expert financial analyst reading the news about %s and drawing conclusions only a PhD-level quant would draw.
You act as a %s: your analysis must revolve around that theme.
Read the news below carefully and extract one unique insight that would inform a buy, hold or sell rating.

News from the last six months:
%s

` + insightFormat

const transcriptPromptTemplate = `You are an expert financial analyst reading the latest earnings call of %s and drawing conclusions only a PhD-level quant would draw.
Read the transcript below and extract one unique insight that would inform a buy, hold or sell rating. Cover both risks and strengths.

Transcript:
%s

Return two paragraphs, risks then strengths. Put a heading on the first line that states the finding itself.
Start directly with the insight: no preamble, no closing remarks. Use numbers and statistics wherever the data allows.`

func codePrompt(ticker string, persona Persona) string {
	return fmt.Sprintf(codePromptTemplate,
		persona,
		ticker,
		market.Describe(),
		market.ImportPath,
		strings.Join(sandbox.AllowedPackages, ", "),
		persona,
	)
}

func codeInsightPrompt(source, output string) string {
	return fmt.Sprintf(codeInsightTemplate, source, output)
}

func filingPrompt(ticker, section, form, content string) string {
	return fmt.Sprintf(filingPromptTemplate, ticker, section, form, content)
}

func newsPrompt(ticker string, persona Persona, corpus string) string {
	return fmt.Sprintf(newsPromptTemplate, ticker, persona, corpus)
}

func transcriptPrompt(ticker, transcript string) string {
	return fmt.Sprintf(transcriptPromptTemplate, ticker, transcript)
}

// renderNews concatenates articles as "headline\ndetail\n\n" blocks.
func renderNews(articles []news.Article) string {
	var sb strings.Builder
	for _, a := range articles {
		sb.WriteString(a.Headline)
		sb.WriteString("\n")
		sb.WriteString(a.Detail)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
