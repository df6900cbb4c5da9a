package controllers

import (
	"errors"
	"net/http"

	"portfolio/services"

	"github.com/gin-gonic/gin"
)

// respondError writes {error: msg}. Validation and captcha failures carry their
// own message; anything unexpected is logged and replaced with fallback.
func respondError(ctx *gin.Context, err error, fallback string) {
	var ve *services.ValidationError
	var ae *services.AbuseError
	switch {
	case errors.As(err, &ve):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ve.Message})
	case errors.As(err, &ae):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": ae.Message})
	case errors.Is(err, services.ErrNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
	default:
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

func badRequest(ctx *gin.Context, msg string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
