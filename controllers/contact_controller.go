package controllers

import (
	"net/http"

	"portfolio/services"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	Contact *services.ContactService
}

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
	Captcha string `json:"captcha" binding:"required"`
}

func (c *ContactController) Send(ctx *gin.Context) {
	var req ContactRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "Missing required fields")
		return
	}

	err := c.Contact.Send(ctx.Request.Context(), services.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Captcha: req.Captcha,
	})
	if err != nil {
		respondError(ctx, err, "Failed to process request")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true})
}
