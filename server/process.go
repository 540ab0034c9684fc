package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/HugeFrog24/bankdesk/utils"
)

type QueryProcessor interface {
	ProcessFile(ctx context.Context, mediaFile string) (utils.QueryResult, error)
}

type processRequest struct {
	FileName string `json:"file_name"`
}

type ProcessHandler struct {
	processor   QueryProcessor
	uploadDir   string
	timeout     time.Duration
	checkFFmpeg func(ctx context.Context) (string, error)
}

type ProcessOptions struct {
	UploadDir      string
	RequestTimeout time.Duration
	CORSOrigins    []string
}

// NewProcessServer builds the query processing service.
func NewProcessServer(processor QueryProcessor, opts ProcessOptions) *gin.Engine {
	h := &ProcessHandler{
		processor:   processor,
		uploadDir:   opts.UploadDir,
		timeout:     opts.RequestTimeout,
		checkFFmpeg: utils.CheckFFmpeg,
	}
	return h.routes(opts.CORSOrigins)
}

func (h *ProcessHandler) routes(corsOrigins []string) *gin.Engine {
	router := newEngine("process", corsOrigins)
	router.POST("/process", h.Process)
	router.GET("/api/media/*name", h.Media)
	router.GET("/health", h.Health)
	return router
}

func (h *ProcessHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "No JSON data received")
		return
	}
	if req.FileName == "" {
		jsonError(c, http.StatusBadRequest, "No file_name provided")
		return
	}

	filePath, ok := h.resolve(req.FileName)
	if !ok {
		jsonError(c, http.StatusBadRequest, fmt.Sprintf("Invalid file_name: %s", req.FileName))
		return
	}
	if _, err := os.Stat(filePath); err != nil {
		log.Errorf("File not found: %s", filePath)
		jsonError(c, http.StatusNotFound, fmt.Sprintf("File not found: %s", filePath))
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.processor.ProcessFile(ctx, filePath)
	switch {
	case err == nil:
	case errors.Is(err, utils.ErrFileNotFound):
		jsonError(c, http.StatusNotFound, fmt.Sprintf("File not found: %s", filePath))
		return
	case errors.Is(err, utils.ErrNoAudio):
		jsonError(c, http.StatusUnprocessableEntity, fmt.Sprintf("Processing error: %v", err))
		return
	default:
		log.Errorf("Processing error: %v", err)
		jsonError(c, http.StatusInternalServerError, fmt.Sprintf("Processing error: %v", err))
		return
	}

	if result.Rejected {
		log.Infof("Request rejected due to filter: %s", result.RejectReason)
		c.JSON(http.StatusOK, gin.H{
			"file_id":       req.FileName,
			"error":         result.RejectReason,
			"transcription": result.Transcription,
		})
		return
	}

	var department any
	if result.Department != "" {
		department = result.Department
	}
	c.JSON(http.StatusOK, gin.H{
		"file_id":         req.FileName,
		"transcription":   result.Transcription,
		"translated_text": result.TranslatedText,
		"sentiment":       result.Sentiment,
		"confidence":      result.Confidence,
		"department":      department,
		"language":        result.Language,
		"file_path":       "/api/media/" + req.FileName,
	})
}

// Media serves an uploaded recording.
func (h *ProcessHandler) Media(c *gin.Context) {
	name := c.Param("name")
	if len(name) > 0 && name[0] == '/' {
		name = name[1:]
	}
	filePath, ok := h.resolve(name)
	if !ok {
		jsonError(c, http.StatusBadRequest, "Invalid media path")
		return
	}
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		jsonError(c, http.StatusNotFound, "Media not found")
		return
	}
	c.File(filePath)
}

func (h *ProcessHandler) Health(c *gin.Context) {
	version, err := h.checkFFmpeg(c.Request.Context())
	if err != nil {
		log.Errorf("ffmpeg check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "ffmpeg": version})
}

// resolve maps a client supplied name to a path inside the upload directory.
func (h *ProcessHandler) resolve(name string) (string, bool) {
	if name == "" || !filepath.IsLocal(name) {
		return "", false
	}
	return filepath.Join(h.uploadDir, name), true
}
