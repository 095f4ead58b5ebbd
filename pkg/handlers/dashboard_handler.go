package handlers

import (
	"log"
	"net/http"

	"tambak-dashboard-api/pkg/models"
	"tambak-dashboard-api/pkg/services"

	"github.com/gin-gonic/gin"
)

// previewRows is how many data rows the upload response echoes back.
const previewRows = 5

// schemaWarning mirrors the dashboard's column requirement message.
const schemaWarning = "⚠️ Pastikan kolom data Anda berisi: Tambak, Produksi_kg, Biaya, Pendapatan"

// DashboardHandler runs the upload pipeline: validate, aggregate, chart,
// narrate, and seed the chat session.
type DashboardHandler struct {
	datasetService *services.DatasetService
	summaryService *services.SummaryService
	aiService      *services.AIService
	sessionService *services.SessionService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dataset *services.DatasetService, summaries *services.SummaryService, ai *services.AIService, sessions *services.SessionService) *DashboardHandler {
	return &DashboardHandler{
		datasetService: dataset,
		summaryService: summaries,
		aiService:      ai,
		sessionService: sessions,
	}
}

// UploadFile handles POST /dashboard/upload. A schema failure halts the
// whole render cycle for this upload; nothing downstream runs. Every new
// upload starts a fresh session with a fresh transcript.
func (h *DashboardHandler) UploadFile(c *gin.Context) {
	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file tidak ditemukan (field 'file')"})
		return
	}
	defer file.Close()

	rows, err := h.datasetService.ReadRows(file, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file kosong; tidak ada baris yang bisa dibaca"})
		return
	}

	if missing := h.datasetService.MissingColumns(rows[0]); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":           schemaWarning,
			"missing_columns": missing,
		})
		return
	}

	records, skipped := h.datasetService.ParseRecords(rows)
	if skipped > 0 {
		log.Printf("upload %s: %d baris dilewati karena nilai tidak valid", fileHeader.Filename, skipped)
	}

	summary := h.summaryService.Aggregate(records)
	insight := h.summaryService.Insight(summary)
	commentary := h.aiService.Commentary(c.Request.Context(), summary)

	sess := h.sessionService.Create(summary)
	if len(summary) > 0 && commentary != "" {
		h.sessionService.Seed(sess, commentary)
	}

	log.Printf("upload %s: %d baris, %d tambak, session %s", fileHeader.Filename, len(records), len(summary), sess.ID)

	c.JSON(http.StatusOK, models.UploadResponse{
		SessionID:    sess.ID,
		Preview:      h.datasetService.Preview(rows, previewRows),
		RowCount:     len(records),
		SkippedRows:  skipped,
		Summary:      summary,
		Chart:        h.summaryService.ChartData(summary),
		Insight:      insight,
		AICommentary: commentary,
		ChatActive:   h.aiService.Enabled(),
	})
}

// GetSummary handles GET /dashboard/:sessionID/summary.
func (h *DashboardHandler) GetSummary(c *gin.Context) {
	sess, ok := h.sessionService.Get(c.Param("sessionID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sesi tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"summary":    sess.Summary,
		"insight":    h.summaryService.Insight(sess.Summary),
	})
}

// GetChart handles GET /dashboard/:sessionID/chart.
func (h *DashboardHandler) GetChart(c *gin.Context) {
	sess, ok := h.sessionService.Get(c.Param("sessionID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sesi tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"title":      "Laba Bersih per Tambak",
		"chart":      h.summaryService.ChartData(sess.Summary),
	})
}
