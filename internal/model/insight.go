package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	AgentFiling     = "filing"
	AgentCode       = "code"
	AgentNews       = "news"
	AgentTranscript = "transcript"
)

type Insight struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Agent   string `json:"agent"`
	Persona string `json:"persona,omitempty"`
}

// ParseInsight splits generated text into a heading line and a body.
func ParseInsight(agent, persona, text string) Insight {
	text = strings.TrimSpace(text)
	heading, body, _ := strings.Cut(text, "\n")

	heading = strings.TrimSpace(heading)
	heading = strings.TrimLeft(heading, "# ")
	heading = strings.Trim(heading, "*`")
	heading = strings.TrimSpace(heading)

	return Insight{
		Heading: heading,
		Body:    strings.TrimSpace(body),
		Agent:   agent,
		Persona: persona,
	}
}

func (i Insight) String() string {
	if i.Body == "" {
		return i.Heading
	}
	return i.Heading + "\n" + i.Body
}

type InsightSet struct {
	Agent    string    `json:"agent"`
	Insights []Insight `json:"insights"`
}

type Batch struct {
	ID        uuid.UUID    `json:"id"`
	Ticker    string       `json:"ticker"`
	CreatedAt time.Time    `json:"created_at"`
	Sets      []InsightSet `json:"sets"`
}

func NewBatch(ticker string, createdAt time.Time, sets []InsightSet) *Batch {
	return &Batch{
		ID:        uuid.New(),
		Ticker:    ticker,
		CreatedAt: createdAt,
		Sets:      sets,
	}
}

func (b *Batch) Count() int {
	n := 0
	for _, s := range b.Sets {
		n += len(s.Insights)
	}
	return n
}

// Digest renders every insight, in batch order, as blank-line separated
// text blocks for prompt embedding.
func (b *Batch) Digest() string {
	var sb strings.Builder
	for _, s := range b.Sets {
		for _, i := range s.Insights {
			sb.WriteString(i.String())
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
