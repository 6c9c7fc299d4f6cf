//go:build !integration

package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"billbridge/internal/application/dto"
	"billbridge/internal/application/use_cases"
	apperrors "billbridge/internal/shared_kernel/errors"
)

func TestHealthControllerGetHealth(t *testing.T) {
	controller := NewHealthController(use_cases.NewGetHealthUseCase(nil), discardLogger())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	controller.GetHealth(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid JSON body, got error: %v", err)
	}

	status, ok := payload["status"].(string)
	if !ok || status != "ok" {
		t.Fatalf("expected JSON field status=ok, got %v", payload["status"])
	}
}

type unreachableStore struct{}

func (unreachableStore) CheckReadiness(context.Context) *apperrors.AppError {
	return apperrors.New(apperrors.CodeStoreConnectionError, "connection refused", nil)
}

func (unreachableStore) RunMigrations(context.Context) *apperrors.AppError {
	return nil
}

func TestHealthControllerDegradedStoreReturns503(t *testing.T) {
	controller := NewHealthController(use_cases.NewGetHealthUseCase(unreachableStore{}), discardLogger())

	rec := httptest.NewRecorder()
	controller.GetHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rec.Code)
	}

	var payload dto.HealthOutput
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("expected valid JSON body, got error: %v", err)
	}
	if payload.Status != "degraded" || payload.StoreCode != apperrors.CodeStoreConnectionError {
		t.Fatalf("unexpected payload %+v", payload)
	}
}
