package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/scribalabs/scriba-api/internal/dto"
	"github.com/scribalabs/scriba-api/internal/handler"
	"github.com/scribalabs/scriba-api/internal/service"
)

type mockScoringService struct {
	lastPayload dto.ScoreRequest
	response    dto.ScoreResponse
	summaries   []dto.ScoreSummaryResponse
	total       int64
	err         error
}

func (m *mockScoringService) Score(_ context.Context, payload dto.ScoreRequest) (dto.ScoreResponse, error) {
	m.lastPayload = payload
	if m.err != nil {
		return dto.ScoreResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockScoringService) ScoreUpload(_ context.Context, _ *multipart.FileHeader) (dto.ScoreResponse, error) {
	if m.err != nil {
		return dto.ScoreResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockScoringService) List(_ context.Context, page, pageSize int) ([]dto.ScoreSummaryResponse, int64, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	return m.summaries, m.total, nil
}

func (m *mockScoringService) Get(_ context.Context, id uint) (dto.ScoreResponse, error) {
	if m.err != nil {
		return dto.ScoreResponse{}, m.err
	}
	return m.response, nil
}

func newScoringApp(svc service.ScoringService) *fiber.App {
	app := fiber.New()
	handler.NewScoringHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/scores"))
	return app
}

func TestScoringHandler_ScoreSuccess(t *testing.T) {
	svc := &mockScoringService{response: dto.ScoreResponse{ID: 1, OverallScore: 92.0, WordCount: 9}}
	app := newScoringApp(svc)

	body, err := json.Marshal(dto.ScoreRequest{Transcript: "Hello, my name is X."})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scores", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool              `json:"success"`
		Data    dto.ScoreResponse `json:"data"`
		Message string            `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "transcript scored", response.Message)
	require.Equal(t, 92.0, response.Data.OverallScore)
	require.Equal(t, "Hello, my name is X.", svc.lastPayload.Transcript)
}

func TestScoringHandler_EmptyTranscriptRejected(t *testing.T) {
	svc := &mockScoringService{err: service.ErrEmptyTranscript}
	app := newScoringApp(svc)

	body, err := json.Marshal(dto.ScoreRequest{Transcript: "   "})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scores", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScoringHandler_NoActiveRubrics(t *testing.T) {
	svc := &mockScoringService{err: service.ErrNoActiveRubrics}
	app := newScoringApp(svc)

	body, err := json.Marshal(dto.ScoreRequest{Transcript: "a transcript"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scores", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestScoringHandler_UploadRequiresFile(t *testing.T) {
	app := newScoringApp(&mockScoringService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scores/upload", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScoringHandler_ListWithPagination(t *testing.T) {
	svc := &mockScoringService{
		summaries: []dto.ScoreSummaryResponse{{ID: 2, OverallScore: 88.5, WordCount: 42}},
		total:     7,
	}
	app := newScoringApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scores?page=1&page_size=1", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                       `json:"success"`
		Data    []dto.ScoreSummaryResponse `json:"data"`
		Meta    struct {
			Page     int   `json:"page"`
			PageSize int   `json:"page_size"`
			Total    int64 `json:"total"`
		} `json:"meta"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Len(t, response.Data, 1)
	require.Equal(t, int64(7), response.Meta.Total)
	require.Equal(t, 1, response.Meta.Page)
}

func TestScoringHandler_GetInvalidID(t *testing.T) {
	app := newScoringApp(&mockScoringService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scores/abc", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestScoringHandler_GetNotFound(t *testing.T) {
	app := newScoringApp(&mockScoringService{err: service.ErrScoreNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scores/123", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
