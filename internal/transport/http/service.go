package httptransport

import (
	"context"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"convocast-go/internal/domain/podcast"
	"convocast-go/internal/domain/script"
	"convocast-go/internal/domain/voice"
	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
	"convocast-go/internal/platform/storage"
)

// Generator is the slice of the audio pipeline the API calls into.
type Generator interface {
	GenerateFromSegments(ctx context.Context, title string, segments []script.Segment) (*podcast.Result, error)
}

// Service implements the pipeline API: voice catalog, ad hoc synthesis
// and the episode ledger.
type Service struct {
	cfg     *config.Config
	logger  *logging.Logger
	gen     Generator
	voices  *voice.Registry
	records *storage.EpisodeRepository
}

// NewService wires the API service. records may be nil when no ledger is
// configured; the episodes endpoint then reports unavailable.
func NewService(cfg *config.Config, logger *logging.Logger, gen Generator, records *storage.EpisodeRepository) (*Service, error) {
	const op = "http.service"

	if cfg == nil {
		return nil, errors.New(errors.KindConfig, op, "config is required")
	}
	if logger == nil {
		return nil, errors.New(errors.KindConfig, op, "logger is required")
	}
	if gen == nil {
		return nil, errors.New(errors.KindConfig, op, "episode generator is required")
	}

	return &Service{
		cfg:     cfg,
		logger:  logger,
		gen:     gen,
		voices:  voice.NewRegistry(),
		records: records,
	}, nil
}

// Register hangs the service routes off the router.
func (s *Service) Register(ctx context.Context, router *Router) error {
	router.Engine.GET("/healthz", s.handleHealth)

	router.API.GET("/voices", s.handleVoices)
	router.API.POST("/synthesize", s.handleSynthesize)
	router.API.GET("/episodes", s.handleEpisodes)
	router.API.GET("/stats", s.handleStats)

	s.logger.InfoTag("HTTP", "api routes registered")
	return nil
}

func (s *Service) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// voiceEntry pairs a registry key with its profile for the catalog
// listing.
type voiceEntry struct {
	Key string `json:"key"`
	voice.Profile
}

func (s *Service) handleVoices(c *gin.Context) {
	profiles := s.voices.All()
	entries := make([]voiceEntry, 0, len(profiles))
	for _, key := range s.voices.Names() {
		entries = append(entries, voiceEntry{Key: key, Profile: profiles[key]})
	}
	RespondSuccess(c, http.StatusOK, entries, "")
}

type synthesizeRequest struct {
	Title    string           `json:"title"`
	Segments []script.Segment `json:"segments"`
}

type synthesizeResponse struct {
	Title           string  `json:"title"`
	AudioURL        string  `json:"audio_url"`
	OutputPath      string  `json:"output_path"`
	Engine          string  `json:"engine"`
	SegmentCount    int     `json:"segment_count"`
	DurationSeconds float64 `json:"duration_seconds"`
	SizeBytes       int64   `json:"size_bytes"`
}

func (s *Service) handleSynthesize(c *gin.Context) {
	var req synthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid JSON payload", nil)
		return
	}
	if len(req.Segments) == 0 {
		RespondError(c, http.StatusBadRequest, "segments are required", nil)
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "ad hoc synthesis"
	}
	// Repeated titles must not overwrite each other's artifacts.
	title = title + " " + uuid.NewString()[:8]

	result, err := s.gen.GenerateFromSegments(c.Request.Context(), title, req.Segments)
	if err != nil {
		s.logger.WarnTag("HTTP", "synthesis request failed: %v", err)
		RespondError(c, statusForError(err), err.Error(), nil)
		return
	}

	RespondSuccess(c, http.StatusOK, synthesizeResponse{
		Title:           title,
		AudioURL:        "/audio/" + filepath.Base(result.OutputPath),
		OutputPath:      result.OutputPath,
		Engine:          result.Engine,
		SegmentCount:    result.SegmentCount,
		DurationSeconds: result.DurationSeconds,
		SizeBytes:       result.SizeBytes,
	}, "synthesis complete")
}

func (s *Service) handleEpisodes(c *gin.Context) {
	if s.records == nil {
		RespondError(c, http.StatusServiceUnavailable, "episode ledger is not configured", nil)
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = v
	}

	records, err := s.records.ListRecent(c.Request.Context(), limit)
	if err != nil {
		s.logger.ErrorTag("HTTP", "episode listing failed: %v", err)
		RespondError(c, http.StatusInternalServerError, "cannot list episodes", nil)
		return
	}
	RespondSuccess(c, http.StatusOK, records, "")
}

// episodeStats summarizes the ledger by status.
type episodeStats struct {
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
	Failed    int64 `json:"failed"`
	Total     int64 `json:"total"`
}

func (s *Service) handleStats(c *gin.Context) {
	if s.records == nil {
		RespondError(c, http.StatusServiceUnavailable, "episode ledger is not configured", nil)
		return
	}

	ctx := c.Request.Context()
	var stats episodeStats
	for status, dst := range map[string]*int64{
		storage.EpisodeStatusPending:   &stats.Pending,
		storage.EpisodeStatusCompleted: &stats.Completed,
		storage.EpisodeStatusFailed:    &stats.Failed,
	} {
		count, err := s.records.CountByStatus(ctx, status)
		if err != nil {
			s.logger.ErrorTag("HTTP", "episode stats failed: %v", err)
			RespondError(c, http.StatusInternalServerError, "cannot count episodes", nil)
			return
		}
		*dst = count
	}
	stats.Total = stats.Pending + stats.Completed + stats.Failed
	RespondSuccess(c, http.StatusOK, stats, "")
}

// statusForError maps pipeline error kinds onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case errors.IsKind(err, errors.KindValidation), errors.IsKind(err, errors.KindContent):
		return http.StatusBadRequest
	case errors.IsKind(err, errors.KindTimeout):
		return http.StatusGatewayTimeout
	case errors.IsKind(err, errors.KindExhausted),
		errors.IsKind(err, errors.KindUnavailable),
		errors.IsKind(err, errors.KindEmptyOutput):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
