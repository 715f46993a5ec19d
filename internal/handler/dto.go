package handler

type InsightResponse struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
	Persona string `json:"persona,omitempty"`
}

type InsightSetResponse struct {
	Agent    string            `json:"agent"`
	Insights []InsightResponse `json:"insights"`
}

type BatchResponse struct {
	ID        string               `json:"id"`
	Ticker    string               `json:"ticker"`
	CreatedAt string               `json:"created_at"`
	Total     int                  `json:"total"`
	Sets      []InsightSetResponse `json:"sets"`
}

type HistoryResponse struct {
	Batches []BatchResponse `json:"batches"`
	Total   int             `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}
