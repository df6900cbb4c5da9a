package controllers

import (
	"net/http"

	"portfolio/middlewares"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	Comments *services.CommentService
}

type SubmitCommentRequest struct {
	Slug        string `json:"slug" binding:"required"`
	AuthorName  string `json:"authorName" binding:"required"`
	AuthorEmail string `json:"authorEmail" binding:"required"`
	Content     string `json:"content" binding:"required"`
	Captcha     string `json:"captcha" binding:"required"`
}

// List returns the approved comments of a post.
func (c *CommentController) List(ctx *gin.Context) {
	views, err := c.Comments.ListApproved(ctx.Request.Context(), ctx.Query("slug"), middlewares.Identity(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to fetch comments")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"comments": views})
}

// Create submits a comment for moderation.
func (c *CommentController) Create(ctx *gin.Context) {
	var req SubmitCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Missing required fields")
		return
	}

	comment, err := c.Comments.Submit(ctx.Request.Context(), services.SubmitCommentInput{
		Slug:        req.Slug,
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		Content:     req.Content,
		Captcha:     req.Captcha,
		Identity:    middlewares.Identity(ctx),
	})
	if err != nil {
		respondError(ctx, err, "Failed to submit comment")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Comment submitted successfully and is awaiting approval",
		"comment": gin.H{
			"id":         comment.ID,
			"content":    comment.Content,
			"authorName": comment.AuthorName,
			"createdAt":  comment.CreatedAt,
			"status":     comment.Status,
		},
	})
}
