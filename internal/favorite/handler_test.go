package favorite

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yudhap/cinematch/common"
	"github.com/yudhap/cinematch/internal/mocks"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/middleware"
)

func newTestRouter(service *mocks.FavoriteServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())

	handler := NewHandler(service)
	r.POST("/favorites", handler.Create)
	r.GET("/favorites", handler.List)
	r.DELETE("/favorites/:id", handler.Delete)
	r.GET("/recommendations", handler.Recommendations)
	r.GET("/queue/:jobId", handler.QueueStatus)
	return r
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		userHeader     string
		setupMock      func(*mocks.FavoriteServiceMock)
		expectedStatus int
	}{
		{
			name:       "successful favorite creation",
			body:       `{"tmdbId":603}`,
			userHeader: "1",
			setupMock: func(m *mocks.FavoriteServiceMock) {
				m.On("AddFavorite", mock.Anything, uint(1), int64(603)).
					Return(&models.FavoriteMovie{ID: 5, UserID: 1, MovieID: 10}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing user header",
			body:           `{"tmdbId":603}`,
			userHeader:     "",
			setupMock:      func(m *mocks.FavoriteServiceMock) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "invalid request body JSON",
			body:           "{invalid json}",
			userHeader:     "1",
			setupMock:      func(m *mocks.FavoriteServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing tmdbId",
			body:           `{}`,
			userHeader:     "1",
			setupMock:      func(m *mocks.FavoriteServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:       "movie not in catalog",
			body:       `{"tmdbId":999999}`,
			userHeader: "1",
			setupMock: func(m *mocks.FavoriteServiceMock) {
				m.On("AddFavorite", mock.Anything, uint(1), int64(999999)).
					Return(nil, common.Errf(http.StatusNotFound, "Movie not found in our database"))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:       "duplicate favorite",
			body:       `{"tmdbId":603}`,
			userHeader: "1",
			setupMock: func(m *mocks.FavoriteServiceMock) {
				m.On("AddFavorite", mock.Anything, uint(1), int64(603)).
					Return(nil, common.Errf(http.StatusBadRequest, "Already added to your favorite"))
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mocks.FavoriteServiceMock)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodPost, "/favorites", bytes.NewReader([]byte(tt.body)))
			req.Header.Set("Content-Type", "application/json")
			if tt.userHeader != "" {
				req.Header.Set("X-User-ID", tt.userHeader)
			}

			w := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code, "Status code mismatch for test: %s", tt.name)
			service.AssertExpectations(t)
		})
	}
}

func TestHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		setupMock      func(*mocks.FavoriteServiceMock)
		expectedStatus int
	}{
		{
			name: "successful delete",
			path: "/favorites/5",
			setupMock: func(m *mocks.FavoriteServiceMock) {
				m.On("RemoveFavorite", mock.Anything, uint(1), uint(5)).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "invalid id",
			path:           "/favorites/abc",
			setupMock:      func(m *mocks.FavoriteServiceMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "favorite not found",
			path: "/favorites/5",
			setupMock: func(m *mocks.FavoriteServiceMock) {
				m.On("RemoveFavorite", mock.Anything, uint(1), uint(5)).
					Return(common.Errf(http.StatusNotFound, "Favorite not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := new(mocks.FavoriteServiceMock)
			tt.setupMock(service)

			req := httptest.NewRequest(http.MethodDelete, tt.path, nil)
			req.Header.Set("X-User-ID", "1")

			w := httptest.NewRecorder()
			newTestRouter(service).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			service.AssertExpectations(t)
		})
	}
}

func TestHandler_Recommendations(t *testing.T) {
	service := new(mocks.FavoriteServiceMock)
	service.On("ListRecommendations", mock.Anything, uint(1)).Return([]models.Recommendation{
		{ID: 1, UserID: 1, MovieID: 10, Reason: "similar theme"},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/recommendations", nil)
	req.Header.Set("X-User-ID", "1")

	w := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "similar theme")
}

func TestHandler_QueueStatus(t *testing.T) {
	service := new(mocks.FavoriteServiceMock)
	service.On("GetQueueStatus", mock.Anything, "job-abc").Return(&models.QueueStatusRecord{
		JobID: "job-abc", UserID: 1, Status: "done", ProcessingTime: 12,
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/queue/job-abc", nil)

	w := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"done"`)
	assert.Contains(t, w.Body.String(), `"processing_time":12`)
}
