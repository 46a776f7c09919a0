package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/codestreak-ml/internal/model"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("test validation error", "field1")
	require.NotNil(t, err)

	assert.Equal(t, "[VALIDATION_ERROR] test validation error", err.Error())
	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, errbuilder.CodeInvalidArgument, err.ErrCode())
}

func TestToAppError(t *testing.T) {
	fitErr := fmt.Errorf("predict_time_accuracy: %w", &model.FitFailure{Model: "gradient_boosting_regressor", Reason: "stage fit failed"})

	tests := []struct {
		name             string
		err              error
		expectedCategory ErrorCategory
		expectedStatus   int
	}{
		{name: "model fit failure", err: fitErr, expectedCategory: CategoryModelFit, expectedStatus: http.StatusUnprocessableEntity},
		{name: "wrapped model fit failure", err: fmt.Errorf("build insights: %w", fitErr), expectedCategory: CategoryModelFit, expectedStatus: http.StatusUnprocessableEntity},
		{name: "existing app error", err: NewStorageError("db down", nil), expectedCategory: CategoryStorage, expectedStatus: http.StatusServiceUnavailable},
		{name: "wrapped app error", err: fmt.Errorf("save: %w", NewValidationError("bad")), expectedCategory: CategoryValidation, expectedStatus: http.StatusBadRequest},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), expectedCategory: CategoryNetwork, expectedStatus: http.StatusBadGateway},
		{name: "deadline", err: context.DeadlineExceeded, expectedCategory: CategoryTimeout, expectedStatus: http.StatusGatewayTimeout},
		{name: "cancelled", err: context.Canceled, expectedCategory: CategoryTimeout, expectedStatus: http.StatusGatewayTimeout},
		{name: "anything else", err: errors.New("standard error"), expectedCategory: CategoryInternal, expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.expectedCategory, appErr.Category)
			assert.Equal(t, tt.expectedStatus, appErr.HTTPStatus)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestToAppError_ModelFitKeepsCauseAndOperation(t *testing.T) {
	cause := fmt.Errorf("build insights: predict_time_accuracy: %w", &model.FitFailure{Model: "m", Reason: "r"})

	appErr := ToAppError(cause)
	assert.ErrorIs(t, appErr, model.ErrModelFit)
	assert.Equal(t, "[MODEL_FIT_ERROR] Model could not be fit on the activity log", appErr.Error())
	assert.Equal(t, "predict_time_accuracy", operationOf(cause))
	assert.Equal(t, "unknown", operationOf(errors.New("plain")))
}

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "network", err: NewNetworkError("connection failed", errors.New("connection refused")), expected: true},
		{name: "storage", err: NewStorageError("locked", nil), expected: true},
		{name: "validation", err: NewValidationError("bad input"), expected: false},
		{name: "model fit", err: &model.FitFailure{Model: "m", Reason: "r"}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsRetryableError(tt.err))
		})
	}
}

func TestGetRetryDelay(t *testing.T) {
	network := NewNetworkError("connection failed", nil)
	assert.Greater(t, GetRetryDelay(network, 2), GetRetryDelay(network, 1))
	assert.Positive(t, GetRetryDelay(NewValidationError("x"), 1))
}

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fit", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("predict_time_accuracy: %w", &model.FitFailure{Model: "m", Reason: "r"}))
	})
	r.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/fit", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, string(CategoryModelFit), body["category"])
	assert.Equal(t, "req-1", body["request_id"])

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecoveryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RecoveryHandler())
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), string(CategoryInternal))
}
