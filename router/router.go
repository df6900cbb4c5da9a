package router

import (
	"portfolio/controllers"
	"portfolio/middlewares"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	Logger         *zap.Logger
	AllowOrigins   []string
	PlatformHeader string
	TrustedProxies []string

	Comments *controllers.CommentController
	Likes    *controllers.LikeController
	Contact  *controllers.ContactController
	Admin    *controllers.AdminController
	Health   *controllers.HealthController

	// AdminAuth guards the whole /api/admin prefix. Token issuance additionally
	// requires TokenAuth so a bearer token cannot mint its successor.
	AdminAuth middlewares.Authenticator
	TokenAuth middlewares.Authenticator
}

func SetupRouter(opts Options) (*gin.Engine, error) {
	r := gin.New()
	if err := middlewares.ConfigureClientIP(r, opts.PlatformHeader, opts.TrustedProxies); err != nil {
		return nil, err
	}

	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	r.Use(
		gin.Recovery(),
		middlewares.ResolveIdentity(),
		middlewares.AccessLog(log),
		middlewares.SecurityHeaders(),
		middlewares.CORS(opts.AllowOrigins),
	)

	r.GET("/healthz", opts.Health.Check)

	api := r.Group("/api")
	{
		api.GET("/comments", opts.Comments.List)
		api.POST("/comments", opts.Comments.Create)
		api.POST("/comments/like", opts.Likes.ToggleCommentLike)

		api.GET("/likes", opts.Likes.GetPostLikes)
		api.POST("/likes", opts.Likes.TogglePostLike)
		api.GET("/likes/top", opts.Likes.GetTopPosts)

		api.POST("/contact", opts.Contact.Send)
	}

	mountAdmin(api, opts)

	return r, nil
}

// mountAdmin registers the admin routes behind one authenticated group, so
// anything added under /api/admin is protected.
func mountAdmin(api *gin.RouterGroup, opts Options) *gin.RouterGroup {
	admin := api.Group("/admin", middlewares.RequireAdmin(opts.AdminAuth))
	admin.POST("/token", middlewares.RequireAdmin(opts.TokenAuth), opts.Admin.IssueToken)
	admin.GET("/comments", opts.Admin.ListComments)
	admin.PUT("/comments", opts.Admin.UpdateStatus)
	admin.DELETE("/comments", opts.Admin.DeleteComment)
	return admin
}
