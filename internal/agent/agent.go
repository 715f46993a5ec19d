// Package agent implements the insight agents. Each agent makes a fixed
// number of sequential attempts and turns each successful attempt into one
// model.Insight.
package agent

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"velocity/internal/data"
	"velocity/internal/model"
	"velocity/pkg/llm"
	"velocity/pkg/news"
)

const DefaultCount = 10

type Agent interface {
	Name() string
	Run(ctx context.Context, ticker string) ([]model.Insight, error)
}

// Options sets the attempt count and the generation parameters of one agent.
type Options struct {
	Count       int
	Model       string
	Temperature float64
}

func (o Options) count() int {
	if o.Count <= 0 {
		return DefaultCount
	}
	return o.Count
}

type Executor interface {
	Execute(ctx context.Context, source string) (string, bool)
}

type SectionReader interface {
	Section(ctx context.Context, ticker string, s data.Section) (string, error)
}

type NewsReader interface {
	News(ctx context.Context, ticker string) ([]news.Article, error)
}

type TranscriptReader interface {
	EarningsTranscript(ctx context.Context, ticker string) (string, error)
}

// CodeAgent asks the model for an analysis program, runs it in the sandbox
// and asks the model to interpret the output. Attempts whose program fails
// or prints nothing are skipped.
type CodeAgent struct {
	gen    llm.Generator
	exec   Executor
	picker Picker
	opts   Options
}

func NewCodeAgent(gen llm.Generator, exec Executor, picker Picker, opts Options) *CodeAgent {
	return &CodeAgent{gen: gen, exec: exec, picker: picker, opts: opts}
}

func (a *CodeAgent) Name() string { return model.AgentCode }

func (a *CodeAgent) Run(ctx context.Context, ticker string) ([]model.Insight, error) {
	n := a.opts.count()
	slog.Info("running agent", "agent", a.Name(), "ticker", ticker, "attempts", n)

	insights := make([]model.Insight, 0, n)
	for i := 0; i < n; i++ {
		persona := pick(a.picker, CodingPersonas)

		raw, err := a.gen.Generate(ctx, codePrompt(ticker, persona), a.opts.Temperature, a.opts.Model)
		if err != nil {
			return nil, err
		}
		source := llm.StripCodeFences(raw)

		output, ok := a.exec.Execute(ctx, source)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !ok || strings.TrimSpace(output) == "" {
			slog.Info("skipping attempt without output", "agent", a.Name(), "ticker", ticker, "persona", persona, "attempt", i)
			continue
		}

		text, err := a.gen.Generate(ctx, codeInsightPrompt(source, output), a.opts.Temperature, a.opts.Model)
		if err != nil {
			return nil, err
		}
		insights = append(insights, model.ParseInsight(a.Name(), string(persona), text))
	}

	slog.Info("agent finished", "agent", a.Name(), "ticker", ticker, "insights", len(insights))
	return insights, nil
}

// FilingAgent draws a filing section per attempt. A filing that cannot be
// fetched reads as an empty section.
type FilingAgent struct {
	gen    llm.Generator
	data   SectionReader
	picker Picker
	opts   Options
}

func NewFilingAgent(gen llm.Generator, d SectionReader, picker Picker, opts Options) *FilingAgent {
	return &FilingAgent{gen: gen, data: d, picker: picker, opts: opts}
}

func (a *FilingAgent) Name() string { return model.AgentFiling }

func (a *FilingAgent) Run(ctx context.Context, ticker string) ([]model.Insight, error) {
	n := a.opts.count()
	slog.Info("running agent", "agent", a.Name(), "ticker", ticker, "attempts", n)

	insights := make([]model.Insight, 0, n)
	for i := 0; i < n; i++ {
		section := pick(a.picker, data.AgentSections)

		content, err := a.data.Section(ctx, ticker, section)
		if errors.Is(err, data.ErrFilingUnavailable) {
			slog.Warn("filing unavailable", "ticker", ticker, "section", section.Name, "error", err)
			content = ""
		} else if err != nil {
			return nil, err
		}

		title := strings.ReplaceAll(section.Keys[0], "_", " ")
		text, err := a.gen.Generate(ctx, filingPrompt(ticker, title, section.Form, content), a.opts.Temperature, a.opts.Model)
		if err != nil {
			return nil, err
		}
		insights = append(insights, model.ParseInsight(a.Name(), section.Name, text))
	}

	slog.Info("agent finished", "agent", a.Name(), "ticker", ticker, "insights", len(insights))
	return insights, nil
}

// NewsAgent reads the news corpus once and reuses it for every attempt.
type NewsAgent struct {
	gen    llm.Generator
	data   NewsReader
	picker Picker
	opts   Options
}

func NewNewsAgent(gen llm.Generator, d NewsReader, picker Picker, opts Options) *NewsAgent {
	return &NewsAgent{gen: gen, data: d, picker: picker, opts: opts}
}

func (a *NewsAgent) Name() string { return model.AgentNews }

func (a *NewsAgent) Run(ctx context.Context, ticker string) ([]model.Insight, error) {
	n := a.opts.count()
	slog.Info("running agent", "agent", a.Name(), "ticker", ticker, "attempts", n)

	articles, err := a.data.News(ctx, ticker)
	if err != nil {
		return nil, err
	}
	corpus := renderNews(articles)

	insights := make([]model.Insight, 0, n)
	for i := 0; i < n; i++ {
		persona := pick(a.picker, NewsPersonas)

		text, err := a.gen.Generate(ctx, newsPrompt(ticker, persona, corpus), a.opts.Temperature, a.opts.Model)
		if err != nil {
			return nil, err
		}
		insights = append(insights, model.ParseInsight(a.Name(), string(persona), text))
	}

	slog.Info("agent finished", "agent", a.Name(), "ticker", ticker, "insights", len(insights), "articles", len(articles))
	return insights, nil
}

// TranscriptAgent reads the latest earnings call once per run.
type TranscriptAgent struct {
	gen  llm.Generator
	data TranscriptReader
	opts Options
}

func NewTranscriptAgent(gen llm.Generator, d TranscriptReader, opts Options) *TranscriptAgent {
	return &TranscriptAgent{gen: gen, data: d, opts: opts}
}

func (a *TranscriptAgent) Name() string { return model.AgentTranscript }

func (a *TranscriptAgent) Run(ctx context.Context, ticker string) ([]model.Insight, error) {
	n := a.opts.count()
	slog.Info("running agent", "agent", a.Name(), "ticker", ticker, "attempts", n)

	transcript, err := a.data.EarningsTranscript(ctx, ticker)
	if err != nil {
		return nil, err
	}

	insights := make([]model.Insight, 0, n)
	for i := 0; i < n; i++ {
		text, err := a.gen.Generate(ctx, transcriptPrompt(ticker, transcript), a.opts.Temperature, a.opts.Model)
		if err != nil {
			return nil, err
		}
		insights = append(insights, model.ParseInsight(a.Name(), "", text))
	}

	slog.Info("agent finished", "agent", a.Name(), "ticker", ticker, "insights", len(insights))
	return insights, nil
}
