package explore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sathi-travel/sathi-api/internal/types"
)

// MockExploreService is a mock implementation of Service
type MockExploreService struct {
	mock.Mock
}

func (m *MockExploreService) Explore(ctx context.Context, req types.ExploreRequest) (*types.ExploreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.ExploreResult), args.Error(1)
}

func TestExploreHandler(t *testing.T) {
	mockService := new(MockExploreService)
	handler := NewExploreHandler(mockService, slog.Default())

	expected := &types.ExploreResult{
		Places:      []types.Place{{PlaceID: "qdrant-1", Name: "Patan Durbar Square"}},
		Hotels:      []types.Place{},
		Restaurants: []types.Place{},
		Source:      "qdrant",
	}
	mockService.On("Explore", mock.Anything, mock.MatchedBy(func(req types.ExploreRequest) bool {
		return req.Lat == 27.7172 && req.Lon == 85.324 && req.RadiusM == 10000 && req.Limit == 5 &&
			req.Category == types.CategoryPlace
	})).Return(expected, nil)

	r := httptest.NewRequest(http.MethodGet, "/api/v1/explore?lat=27.7172&lon=85.324&radius=10000&limit=5&category=place", nil)
	w := httptest.NewRecorder()
	handler.Explore(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var got types.ExploreResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "qdrant", got.Source)
	require.Len(t, got.Places, 1)
	assert.Equal(t, "Patan Durbar Square", got.Places[0].Name)
	mockService.AssertExpectations(t)
}

func TestExploreHandlerRejectsBadParams(t *testing.T) {
	mockService := new(MockExploreService)
	handler := NewExploreHandler(mockService, slog.Default())

	tests := []struct {
		name  string
		query string
	}{
		{"Missing lat", "lon=85.3"},
		{"Non-numeric lat", "lat=abc&lon=85.3"},
		{"Non-numeric radius", "lat=27.7&lon=85.3&radius=huge"},
		{"Non-numeric offset", "lat=27.7&lon=85.3&offset=x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/explore?"+tt.query, nil)
			w := httptest.NewRecorder()
			handler.Explore(w, r)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	mockService.AssertNotCalled(t, "Explore")
}

func TestExploreHandlerRejectsNonFiniteCoordinates(t *testing.T) {
	// strconv.ParseFloat accepts "NaN" and "Inf", so these reach the
	// service and must be caught by request validation there.
	mockService := new(MockExploreService)
	mockService.On("Explore", mock.Anything, mock.Anything).
		Return(nil, errors.New("invalid explore request: coordinates must be finite"))
	handler := NewExploreHandler(mockService, slog.Default())

	for _, query := range []string{"lat=NaN&lon=85.3", "lat=27.7&lon=Inf"} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/explore?"+query, nil)
		w := httptest.NewRecorder()
		handler.Explore(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code, query)
	}
}
