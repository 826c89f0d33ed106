package server

import (
	"net/http"

	"marketplace/internal/auth"
	model "marketplace/internal/models"
	biddinghandler "marketplace/services/bidding/handler"
	notificationhandler "marketplace/services/notification/handler"
	reviewhandler "marketplace/services/review/handler"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP layer routes to
type Dependencies struct {
	Bidding       biddinghandler.BiddingServiceInterface
	Reviews       reviewhandler.ReviewServiceInterface
	Notifications notificationhandler.NotificationServiceInterface
	Verifier      *auth.TokenVerifier
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(TracingMiddleware)       // server spans
	router.Use(MetricsMiddleware)       // prometheus request metrics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/health", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, gin.H{"status": "ok"}, "healthy")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	biddingHandler := biddinghandler.NewBiddingHandler(deps.Bidding)
	reviewHandler := reviewhandler.NewReviewHandler(deps.Reviews)
	notificationHandler := notificationhandler.NewNotificationHandler(deps.Notifications)

	authenticated := AuthMiddleware(deps.Verifier)

	auctions := router.Group("/auctions")
	{
		auctions.GET("", biddingHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", biddingHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", biddingHandler.GetBidsByAuctionHandler)
		auctions.GET("/:auction_id/leading", biddingHandler.GetLeadingBidHandler)

		auctions.POST("", authenticated, RequireRole(model.RoleSeller, model.RoleAdmin), biddingHandler.OpenAuctionHandler)
		auctions.POST("/:auction_id/bids", authenticated, biddingHandler.PlaceBidHandler)
		auctions.POST("/:auction_id/end", authenticated, biddingHandler.EndAuctionHandler)
	}

	products := router.Group("/products")
	{
		products.GET("/:product_id/reviews", reviewHandler.ListReviewsHandler)
		products.GET("/:product_id/rating", reviewHandler.GetRatingHandler)
		products.POST("/:product_id/reviews", authenticated, reviewHandler.SubmitReviewHandler)
	}

	reviews := router.Group("/reviews", authenticated)
	{
		reviews.POST("/:review_id/reply", reviewHandler.ReplyHandler)
	}

	admin := router.Group("/admin", authenticated, RequireRole(model.RoleAdmin))
	{
		admin.GET("/reviews", reviewHandler.ModerationQueueHandler)
		admin.GET("/reviews/stats", reviewHandler.StatsHandler)
		admin.POST("/reviews/:review_id/approve", reviewHandler.ApproveReviewHandler)
		admin.POST("/reviews/:review_id/reject", reviewHandler.RejectReviewHandler)
	}

	users := router.Group("/users", authenticated)
	{
		users.GET("/me/auctions", biddingHandler.GetMyAuctionsHandler)
	}

	notifications := router.Group("/notifications", authenticated)
	{
		notifications.GET("", notificationHandler.ListHandler)
		notifications.POST("/read", notificationHandler.MarkReadHandler)
	}

	return router
}
