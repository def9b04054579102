package favorite

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yudhap/cinematch/common"
	"github.com/yudhap/cinematch/internal/dto"
	"github.com/yudhap/cinematch/internal/models"
	"github.com/yudhap/cinematch/middleware"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

var _ HandlerInterface = (*Handler)(nil)

// userID reads the authenticated user from the X-User-ID header. Real
// authentication lives in front of this service.
func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.GetHeader("X-User-ID"), 10, 0)
	if err != nil || id < 1 {
		c.JSON(http.StatusUnauthorized, common.APIError{Message: "missing or invalid X-User-ID"})
		return 0, false
	}
	return uint(id), true
}

// Create handles POST /favorites. Materializes the movie if unseen,
// stores the favorite, and triggers a recommendation recalculation.
func (h *Handler) Create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req dto.CreateFavoriteRequest
	if !middleware.Bind(c, &req) {
		c.Abort()
		return
	}

	fav, err := h.service.AddFavorite(c.Request.Context(), uid, req.TMDBID)
	if err != nil {
		c.Error(err)
		c.Abort()
		return
	}

	c.JSON(http.StatusCreated, favoriteResponse(*fav))
}

// Delete handles DELETE /favorites/:id and triggers a recalculation.
func (h *Handler) Delete(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id < 1 {
		c.Error(common.Errf(http.StatusBadRequest, "invalid ID"))
		return
	}

	if err := h.service.RemoveFavorite(c.Request.Context(), uid, uint(id)); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List handles GET /favorites.
func (h *Handler) List(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	favorites, err := h.service.ListFavorites(c.Request.Context(), uid)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]dto.FavoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		out = append(out, favoriteResponse(fav))
	}
	c.JSON(http.StatusOK, out)
}

// Recommendations handles GET /recommendations.
func (h *Handler) Recommendations(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	recs, err := h.service.ListRecommendations(c.Request.Context(), uid)
	if err != nil {
		c.Error(err)
		return
	}

	out := make([]dto.RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, dto.RecommendationResponse{
			MovieID: rec.MovieID,
			Reason:  rec.Reason,
			Movie:   movieResponse(rec.Movie),
		})
	}
	c.JSON(http.StatusOK, out)
}

// QueueStatus handles GET /queue/:jobId.
func (h *Handler) QueueStatus(c *gin.Context) {
	rec, err := h.service.GetQueueStatus(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dto.QueueStatusResponse{
		JobID:          rec.JobID,
		UserID:         rec.UserID,
		Status:         rec.Status,
		ProcessingTime: rec.ProcessingTime,
	})
}

func movieResponse(m models.Movie) dto.MovieResponse {
	genres := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		genres = append(genres, g.Name)
	}
	resp := dto.MovieResponse{
		ID:         m.ID,
		TMDBID:     m.TMDBID,
		Title:      m.Title,
		Overview:   m.Overview,
		PosterPath: m.PosterPath,
		Genres:     genres,
	}
	if m.ReleaseDate != nil {
		resp.ReleaseDate = m.ReleaseDate.Format("2006-01-02")
	}
	return resp
}

func favoriteResponse(f models.FavoriteMovie) dto.FavoriteResponse {
	return dto.FavoriteResponse{
		ID:      f.ID,
		UserID:  f.UserID,
		MovieID: f.MovieID,
		Movie:   movieResponse(f.Movie),
	}
}
