package controllers

import (
	"fmt"
	"net/http"
	"time"

	"portfolio/middlewares"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

type tokenIssuer interface {
	Issue(subject string) (string, time.Time, error)
}

type AdminController struct {
	Comments *services.CommentService
	Tokens   tokenIssuer
}

type UpdateStatusRequest struct {
	CommentID string `json:"commentId" binding:"required"`
	Status    string `json:"status" binding:"required"`
}

type DeleteCommentRequest struct {
	CommentID string `json:"commentId" binding:"required"`
}

// IssueToken trades already-verified basic credentials for a bearer token.
func (c *AdminController) IssueToken(ctx *gin.Context) {
	token, exp, err := c.Tokens.Issue(middlewares.AdminName(ctx))
	if err != nil {
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": exp})
}

func (c *AdminController) ListComments(ctx *gin.Context) {
	comments, err := c.Comments.ListForModeration(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		respondError(ctx, err, "Failed to fetch comments")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (c *AdminController) UpdateStatus(ctx *gin.Context) {
	var req UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Comment ID and status are required")
		return
	}

	comment, err := c.Comments.SetStatus(ctx.Request.Context(), req.CommentID, req.Status)
	if err != nil {
		respondError(ctx, err, "Failed to update comment status")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Comment %s successfully", comment.Status),
		"comment": comment,
	})
}

func (c *AdminController) DeleteComment(ctx *gin.Context) {
	var req DeleteCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Comment ID is required")
		return
	}

	if err := c.Comments.Remove(ctx.Request.Context(), req.CommentID); err != nil {
		respondError(ctx, err, "Failed to delete comment")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}
