package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/HugeFrog24/bankdesk/face"
	"github.com/HugeFrog24/bankdesk/metrics"
)

type FaceVerifier interface {
	Verify(ctx context.Context, imageB64, referenceB64 string) (face.Result, error)
}

type verifyRequest struct {
	Image          string `json:"image"`
	ReferenceImage string `json:"referenceImage"`
}

type FaceHandler struct {
	verifier FaceVerifier
}

// NewFaceServer builds the face verification service.
func NewFaceServer(verifier FaceVerifier, corsOrigins []string) *gin.Engine {
	h := &FaceHandler{verifier: verifier}

	router := newEngine("face", corsOrigins)
	router.POST("/api/verify", h.Verify)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func (h *FaceHandler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" || req.ReferenceImage == "" {
		jsonError(c, http.StatusBadRequest, "Image and reference image are required")
		return
	}

	result, err := h.verifier.Verify(c.Request.Context(), req.Image, req.ReferenceImage)
	switch {
	case err == nil:
	case errors.Is(err, face.ErrInvalidImage):
		metrics.RecordFaceVerification("error")
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, face.ErrUnavailable):
		metrics.RecordFaceVerification("error")
		jsonError(c, http.StatusServiceUnavailable, err.Error())
		return
	case errors.Is(err, face.ErrDetection):
		metrics.RecordFaceVerification("error")
		log.Warnf("Face detection failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"verified": false,
			"error":    "Face detection error",
			"details":  err.Error(),
		})
		return
	default:
		metrics.RecordFaceVerification("error")
		log.Errorf("Face verification failed: %v", err)
		jsonError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if result.Verified {
		metrics.RecordFaceVerification("verified")
	} else {
		metrics.RecordFaceVerification("mismatch")
	}
	c.JSON(http.StatusOK, result)
}
