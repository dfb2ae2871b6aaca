package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riowonder/SoloManager-Backend/internal/auth"
	"github.com/riowonder/SoloManager-Backend/internal/config"
	"github.com/riowonder/SoloManager-Backend/internal/finance"
	"github.com/riowonder/SoloManager-Backend/internal/member"
	"github.com/riowonder/SoloManager-Backend/internal/owner"
	"github.com/riowonder/SoloManager-Backend/internal/subscription"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	ownerRepo := owner.NewRepository(db)
	memberRepo := member.NewRepository(db)
	subRepo := subscription.NewRepository(db)
	financeRepo := finance.NewRepository(db)

	subService := subscription.NewService(subRepo, memberRepo, financeRepo)
	memberService := member.NewService(memberRepo, subRepo)

	ownerHandler := owner.NewHandler(ownerRepo, cfg.JWTSecret)
	memberHandler := member.NewHandler(memberService)
	subHandler := subscription.NewHandler(subService)

	public := router.Group("/auth")
	{
		public.POST("/register", ownerHandler.Register)
		public.POST("/login", ownerHandler.Login)
	}

	staff := router.Group("/members")
	staff.Use(auth.Middleware(cfg.JWTSecret), auth.RequireStaff())
	{
		staff.POST("/add", memberHandler.Add)
		staff.GET("/get-members", memberHandler.List)
		staff.GET("/search", memberHandler.Search)
		staff.GET("/expired", memberHandler.Expired)
		staff.GET("/expiring-soon", memberHandler.ExpiringSoon)
		staff.GET("/:memberID", memberHandler.Get)
		staff.PUT("/:memberID", memberHandler.Update)
		staff.DELETE("/:memberID", memberHandler.Delete)

		staff.POST("/:memberID/subscription", subHandler.Create)
		staff.GET("/:memberID/subscriptions", subHandler.ListForMember)
		staff.PUT("/subscription/:subscriptionID", subHandler.Update)
		staff.DELETE("/subscription/:subscriptionID", subHandler.Delete)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
