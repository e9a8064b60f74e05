package server

import (
	"context"
	"net/http"

	"makerslot/internal/auth"
	"makerslot/internal/certification"
	"makerslot/internal/config"
	"makerslot/internal/notify"
	"makerslot/internal/people"
	"makerslot/internal/resource"
	"makerslot/internal/schedule"
	"makerslot/internal/training"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router   *gin.Engine
	http     *http.Server
	db       *sqlx.DB
	config   *config.Config
	schedule *schedule.Handler
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notify.Service) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	peopleHandler := people.NewHandler(db, cfg.JWTSecret)
	resourceHandler := resource.NewHandler(db)
	certHandler := certification.NewHandler(db)
	trainingHandler := training.NewHandler(db)

	var n schedule.Notifier
	if notifier != nil {
		n = notifier
	}
	scheduleHandler := schedule.NewHandler(db, n)

	public := router.Group("/auth")
	{
		public.POST("/register", peopleHandler.Register)
		public.POST("/login", peopleHandler.Login)
		public.POST("/refresh", peopleHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", peopleHandler.GetMe)
		protected.GET("/me/training", trainingHandler.MySummary)

		protected.GET("/resources", resourceHandler.ListResources)
		protected.GET("/resources/:resourceID", resourceHandler.GetResource)
		protected.GET("/resources/:resourceID/availability", scheduleHandler.Availability)
		protected.POST("/resources/:resourceID/book", scheduleHandler.Book)

		protected.GET("/reservations", scheduleHandler.ListMine)
		protected.POST("/reservations/:reservationID/cancel", scheduleHandler.Cancel)
		protected.POST("/reservations/:reservationID/reschedule", scheduleHandler.Reschedule)

		protected.GET("/certifications", certHandler.ListMine)
		protected.GET("/training/courses", trainingHandler.ListCourses)
	}

	staffMiddleware := auth.RequireRole(people.RoleStaff)
	admin := router.Group("/admin")
	admin.Use(authMiddleware, staffMiddleware)
	{
		admin.POST("/resources", resourceHandler.RegisterResource)
		admin.PUT("/resources/:resourceID/capacity", resourceHandler.UpdateCapacity)
		admin.PUT("/resources/:resourceID/certification", resourceHandler.SetCertificationRequired)
		admin.GET("/resources/:resourceID/reservations", scheduleHandler.ListForResource)

		admin.POST("/certifications", certHandler.Grant)
		admin.POST("/certifications/revoke", certHandler.Revoke)

		admin.POST("/reservations/:reservationID/cancel", scheduleHandler.CancelAny)

		admin.GET("/people", peopleHandler.List)
		admin.PUT("/people/:personID/role", peopleHandler.UpdateRole)

		admin.POST("/training/courses", trainingHandler.CreateCourse)
		admin.POST("/training/records", trainingHandler.RecordTraining)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router:   router,
		db:       db,
		config:   cfg,
		schedule: scheduleHandler,
	}
}

// RebuildIndex reloads the availability projection from the store; called
// once at startup before the server accepts bookings.
func (s *Server) RebuildIndex(ctx context.Context) error {
	return s.schedule.Service().RebuildIndex(ctx)
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
