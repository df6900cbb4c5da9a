package controllers

import (
	"net/http"
	"strconv"

	"portfolio/middlewares"
	"portfolio/services"

	"github.com/gin-gonic/gin"
)

type LikeController struct {
	Likes *services.LikeService
}

type ToggleCommentLikeRequest struct {
	CommentID string `json:"commentId" binding:"required"`
	Captcha   string `json:"captcha" binding:"required"`
}

type TogglePostLikeRequest struct {
	Slug string `json:"slug" binding:"required"`
}

// ToggleCommentLike likes or unlikes a comment for the caller.
func (c *LikeController) ToggleCommentLike(ctx *gin.Context) {
	var req ToggleCommentLikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Comment ID and captcha token are required")
		return
	}

	st, err := c.Likes.ToggleCommentLike(ctx.Request.Context(), req.CommentID, req.Captcha, middlewares.Identity(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to like comment")
		return
	}
	ctx.JSON(http.StatusOK, st)
}

// GetPostLikes returns a post's like count and whether the caller liked it.
func (c *LikeController) GetPostLikes(ctx *gin.Context) {
	st, err := c.Likes.PostLikes(ctx.Request.Context(), ctx.Query("slug"), middlewares.Identity(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to get like count")
		return
	}
	ctx.JSON(http.StatusOK, st)
}

// TogglePostLike likes or unlikes a post for the caller.
func (c *LikeController) TogglePostLike(ctx *gin.Context) {
	var req TogglePostLikeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Slug is required")
		return
	}

	st, err := c.Likes.TogglePostLike(ctx.Request.Context(), req.Slug, middlewares.Identity(ctx))
	if err != nil {
		respondError(ctx, err, "Failed to like post")
		return
	}
	ctx.JSON(http.StatusOK, st)
}

// GetTopPosts returns the most liked posts.
func (c *LikeController) GetTopPosts(ctx *gin.Context) {
	top, err := strconv.Atoi(ctx.DefaultQuery("top", "10"))
	if err != nil || top <= 0 {
		top = 10
	}

	list, err := c.Likes.TopPosts(ctx.Request.Context(), top)
	if err != nil {
		respondError(ctx, err, "Failed to get ranking")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"list": list})
}
