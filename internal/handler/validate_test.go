package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"mailbox-directory-api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockValidateService struct {
	mock.Mock
}

func (m *MockValidateService) ValidateCorpus(ctx context.Context) []repository.FileReport {
	args := m.Called(ctx)
	return args.Get(0).([]repository.FileReport)
}

func TestValidateHandler_Validate(t *testing.T) {
	reports := []repository.FileReport{
		{File: "data/us_states/us_state_new_york.json", Type: "US State", Exists: true, Valid: true, Errors: []string{}},
		{File: "data/international_multi/mexico_multi_locations.json", Type: "Intl Multi", Exists: false, Valid: false,
			Errors: []string{"file does not exist"}},
	}
	mockService := new(MockValidateService)
	mockService.On("ValidateCorpus", mock.Anything).Return(reports)

	h := NewValidateHandler(mockService)
	w := getRequest(t, h.Validate, "/api/validate")

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Results []repository.FileReport `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Results, 2)
	assert.True(t, body.Results[0].Valid)
	assert.False(t, body.Results[1].Valid)
	assert.Contains(t, body.Results[1].Errors, "file does not exist")
	mockService.AssertExpectations(t)
}

func TestValidateHandler_Validate_EmptyCorpus(t *testing.T) {
	mockService := new(MockValidateService)
	mockService.On("ValidateCorpus", mock.Anything).Return([]repository.FileReport{})

	h := NewValidateHandler(mockService)
	w := getRequest(t, h.Validate, "/api/validate")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results": []}`, w.Body.String())
}
