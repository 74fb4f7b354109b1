package api

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"listaai/internal/api/controllers"
	"listaai/internal/config"
	"listaai/pkg/metrics"
	"listaai/pkg/middleware"
	"listaai/pkg/utils"
)

// Handlers collects every controller mounted by NewRouter.
type Handlers struct {
	fx.In

	Users     *controllers.UserController
	Lists     *controllers.ListController
	Items     *controllers.ItemController
	Payments  *controllers.PaymentController
	Checkouts *controllers.CheckoutController
}

func NewRouter(cfg *config.Config, jwt *utils.JWTManager, limiter *middleware.RateLimiter, logger *slog.Logger, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidators(v); err != nil {
			slog.Error("register validators", "error", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.MetricsMiddleware())

	r.GET("/", func(c *gin.Context) {
		c.String(200, "ListaAi API is running")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Storage.Driver == "local" && strings.HasPrefix(cfg.Storage.PublicURL, "/") {
		r.Static(cfg.Storage.PublicURL, cfg.Storage.LocalRoot)
	}

	RegisterRoutes(r, jwt, limiter, h)
	return r
}

func RegisterRoutes(r *gin.Engine, jwt *utils.JWTManager, limiter *middleware.RateLimiter, h Handlers) {
	auth := middleware.JWTAuthMiddleware(jwt)
	limited := middleware.RateLimitMiddleware(limiter)

	server := r.Group("/server")
	server.GET("/", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "")
	})

	server.POST("/users", h.Users.Register)
	server.POST("/login", h.Users.Login)
	server.POST("/users/login", h.Users.Login)
	server.GET("/me", auth, h.Users.Me)

	owned := server.Group("/users/:userId", auth, middleware.SameUserMiddleware("userId"))
	owned.GET("/lists", h.Lists.GetUserLists)
	owned.POST("/lists", h.Lists.CreateList)

	lists := server.Group("/lists/:listId")
	lists.GET("", h.Lists.GetList)
	lists.GET("/exists", h.Lists.ListExists)
	lists.PUT("", auth, h.Lists.UpdateList)
	lists.DELETE("", auth, h.Lists.DeleteList)
	lists.POST("/image", auth, h.Lists.UploadImage)

	lists.GET("/items", h.Items.GetItems)
	lists.POST("/items", auth, h.Items.CreateItem)
	lists.PUT("/items/:itemId", auth, h.Items.UpdateItem)
	lists.DELETE("/items/:itemId", auth, h.Items.DeleteItem)
	lists.POST("/items/:itemId/claim", limited, h.Items.ClaimItem)

	server.POST("/pix", limited, h.Payments.CreatePix)
	server.GET("/payments/:id", h.Payments.VerifyPayment)
	server.POST("/payments/webhook", h.Payments.HandleWebhook)
	server.GET("/plans", h.Payments.GetPlans)

	checkouts := server.Group("/checkouts", limited)
	checkouts.POST("", h.Checkouts.Start)
	checkouts.GET("/:id", h.Checkouts.Get)
	checkouts.POST("/:id/verify", h.Checkouts.Verify)
	checkouts.POST("/:id/pay", h.Checkouts.Pay)
	checkouts.POST("/:id/retry", h.Checkouts.Retry)
}
