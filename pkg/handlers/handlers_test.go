package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tambak-dashboard-api/pkg/models"
	"tambak-dashboard-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const sampleCSV = "Tambak,Produksi_kg,Biaya,Pendapatan\nA,100,50,200\nB,80,60,90\n"

// fakeCompletion answers every request with a canned reply.
type fakeCompletion struct {
	reply string
	calls int
}

func (f *fakeCompletion) Complete(ctx context.Context, turns []models.ChatTurn, temperature float32) (string, error) {
	f.calls++
	return f.reply, nil
}

// setupRouter wires the API the way the server does, with the completion
// service controlled by the test.
func setupRouter(completion services.CompletionService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	datasetService := services.NewDatasetService()
	summaryService := services.NewSummaryService()
	aiService := services.NewAIService(completion, summaryService)
	sessionService := services.NewSessionService()

	dashboardHandler := NewDashboardHandler(datasetService, summaryService, aiService, sessionService)
	chatHandler := NewChatHandler(sessionService, aiService)

	r := gin.New()
	r.GET("/health", HealthCheck)
	v1 := r.Group("/api/v1")
	{
		dashboard := v1.Group("/dashboard")
		{
			dashboard.POST("/upload", dashboardHandler.UploadFile)
			dashboard.GET("/:sessionID/summary", dashboardHandler.GetSummary)
			dashboard.GET("/:sessionID/chart", dashboardHandler.GetChart)
		}
		chat := v1.Group("/chat")
		{
			chat.POST("", chatHandler.SendMessage)
			chat.GET("/:sessionID/history", chatHandler.GetHistory)
		}
	}
	return r
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestHealthCheck(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

func TestUploadCSVWithAIDisabled(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.csv", sampleCSV))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.UploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, 2, resp.RowCount)
	assert.Zero(t, resp.SkippedRows)
	assert.Len(t, resp.Preview, 3)

	assert.Len(t, resp.Summary, 2)
	assert.Equal(t, "A", resp.Summary[0].FarmID)
	assert.Equal(t, 150.0, resp.Summary[0].NetProfit)
	assert.Equal(t, "B", resp.Summary[1].FarmID)
	assert.Equal(t, 30.0, resp.Summary[1].NetProfit)

	assert.Equal(t, []models.ChartEntry{{Label: "A", Value: 150}, {Label: "B", Value: 30}}, resp.Chart)
	assert.Contains(t, resp.Insight, "Tambak paling menguntungkan: **A**")
	assert.Equal(t, services.InactiveNotice, resp.AICommentary)
	assert.False(t, resp.ChatActive)
}

func TestUploadMissingColumn(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.csv", "Tambak,Produksi_kg,Biaya\nA,100,50\n"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Pastikan kolom data Anda berisi")
	assert.Contains(t, w.Body.String(), "Pendapatan")
}

func TestUploadUnsupportedFormat(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.txt", "bukan tabel"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "format file tidak didukung")
}

func TestUploadWithoutFileField(t *testing.T) {
	r := setupRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dashboard/upload", strings.NewReader(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSummaryAndChartBySession(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.csv", sampleCSV))
	var upload models.UploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/"+upload.SessionID+"/summary", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "laba_bersih")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/"+upload.SessionID+"/chart", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Laba Bersih per Tambak")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/tidak-ada/summary", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatUnknownSession(t *testing.T) {
	r := setupRouter(nil)

	body, _ := json.Marshal(models.ChatRequest{SessionID: "tidak-ada", Message: "halo"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "sesi tidak ditemukan")
}

func TestChatInvalidRequestBody(t *testing.T) {
	r := setupRouter(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader(`{"session_id": ""}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatRoundDisabledAI(t *testing.T) {
	r := setupRouter(nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.csv", sampleCSV))
	var upload models.UploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))

	body, _ := json.Marshal(models.ChatRequest{SessionID: upload.SessionID, Message: "Tambak mana yang terbaik?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, services.ChatInactiveWarning, resp.Warning)
	assert.Empty(t, resp.Reply)
	assert.False(t, resp.ChatActive)
	assert.Equal(t, 3, resp.TurnCount)

	// The transcript was seeded from the inactive notice, then grew by the
	// user turn.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/chat/"+upload.SessionID+"/history", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var history struct {
		SessionID  string            `json:"session_id"`
		Transcript []models.ChatTurn `json:"transcript"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Len(t, history.Transcript, 3)
	assert.Equal(t, models.RoleSystem, history.Transcript[0].Role)
	assert.Equal(t, services.InactiveNotice, history.Transcript[1].Content)
	assert.Equal(t, models.RoleUser, history.Transcript[2].Role)
}

func TestUploadAndChatWithEnabledAI(t *testing.T) {
	fake := &fakeCompletion{reply: "Tambak A paling efisien."}
	r := setupRouter(fake)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, uploadRequest(t, "data.csv", sampleCSV))
	assert.Equal(t, http.StatusOK, w.Code)

	var upload models.UploadResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &upload))
	assert.Equal(t, "Tambak A paling efisien.", upload.AICommentary)
	assert.True(t, upload.ChatActive)
	assert.Equal(t, 1, fake.calls)

	body, _ := json.Marshal(models.ChatRequest{SessionID: upload.SessionID, Message: "Kenapa?"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ChatResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Tambak A paling efisien.", resp.Reply)
	assert.Equal(t, 4, resp.TurnCount)
	assert.Equal(t, 2, fake.calls)
}
