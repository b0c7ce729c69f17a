package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
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

type mockRubricService struct {
	lastCreate dto.RubricCreateRequest
	response   dto.RubricResponse
	list       []dto.RubricResponse
	err        error
}

func (m *mockRubricService) List(_ context.Context) ([]dto.RubricResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

func (m *mockRubricService) Get(_ context.Context, id uint) (dto.RubricResponse, error) {
	if m.err != nil {
		return dto.RubricResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockRubricService) Create(_ context.Context, payload dto.RubricCreateRequest) (dto.RubricResponse, error) {
	m.lastCreate = payload
	if m.err != nil {
		return dto.RubricResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockRubricService) Update(_ context.Context, id uint, payload dto.RubricUpdateRequest) (dto.RubricResponse, error) {
	if m.err != nil {
		return dto.RubricResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockRubricService) Delete(_ context.Context, id uint) error {
	return m.err
}

func newRubricApp(svc service.RubricService) *fiber.App {
	app := fiber.New()
	handler.NewRubricHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/rubrics"))
	return app
}

func TestRubricHandler_CreateSuccess(t *testing.T) {
	svc := &mockRubricService{response: dto.RubricResponse{ID: 1, Name: "Clarity", Weight: 1, Active: true}}
	app := newRubricApp(svc)

	body, err := json.Marshal(dto.RubricCreateRequest{Name: "Clarity", Description: "Speaks clearly", Weight: 1})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rubrics", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, "Clarity", svc.lastCreate.Name)
}

func TestRubricHandler_CreateInvalidRange(t *testing.T) {
	svc := &mockRubricService{err: service.ErrInvalidWordRange}
	app := newRubricApp(svc)

	body, err := json.Marshal(dto.RubricCreateRequest{Name: "Clarity", Description: "Speaks clearly", MinWords: 50, MaxWords: 10})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/rubrics", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRubricHandler_GetNotFound(t *testing.T) {
	app := newRubricApp(&mockRubricService{err: service.ErrRubricNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rubrics/9", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRubricHandler_ListSuccess(t *testing.T) {
	svc := &mockRubricService{list: []dto.RubricResponse{{ID: 1, Name: "Accuracy"}, {ID: 2, Name: "Clarity"}}}
	app := newRubricApp(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/rubrics", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success bool                 `json:"success"`
		Data    []dto.RubricResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
}

func TestRubricHandler_DeleteInvalidID(t *testing.T) {
	app := newRubricApp(&mockRubricService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/rubrics/not-a-number", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
