package models

// Chat roles as they appear on the completion-service wire.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// FarmRecord is one validated row of the uploaded financial data.
type FarmRecord struct {
	FarmID       string  `json:"tambak"`
	ProductionKg float64 `json:"produksi_kg"`
	Cost         float64 `json:"biaya"`
	Revenue      float64 `json:"pendapatan"`
}

// FarmSummary is the aggregated result for one farm. A slice of these is
// always ordered by NetProfit descending; the first element is the best
// performer and the last is the worst.
type FarmSummary struct {
	FarmID          string  `json:"tambak"`
	TotalProduction float64 `json:"total_produksi"`
	TotalCost       float64 `json:"total_biaya"`
	TotalRevenue    float64 `json:"total_pendapatan"`
	NetProfit       float64 `json:"laba_bersih"`
}

// ChatTurn is one entry of a session transcript.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChartEntry is one bar of the net-profit chart: the farm identifier and
// its net profit. Rendering is owned by the frontend.
type ChartEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// UploadResponse is the full render of one successful upload.
type UploadResponse struct {
	SessionID    string        `json:"session_id"`
	Preview      [][]string    `json:"preview"`
	RowCount     int           `json:"row_count"`
	SkippedRows  int           `json:"skipped_rows,omitempty"`
	Summary      []FarmSummary `json:"summary"`
	Chart        []ChartEntry  `json:"chart"`
	Insight      string        `json:"insight"`
	AICommentary string        `json:"ai_commentary"`
	ChatActive   bool          `json:"chat_active"`
}

// ChatRequest represents an incoming chat message for a session.
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse represents the outcome of one chat round. Exactly one of
// Reply, Warning and Error is set.
type ChatResponse struct {
	SessionID  string `json:"session_id"`
	Reply      string `json:"reply,omitempty"`
	Warning    string `json:"warning,omitempty"`
	Error      string `json:"error,omitempty"`
	TurnCount  int    `json:"turn_count"`
	ChatActive bool   `json:"chat_active"`
}
