package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/avilov/skybooker/api"
	"github.com/avilov/skybooker/config"
	"github.com/avilov/skybooker/internal/service/token"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers groups everything that mounts routes under /api.
type Handlers struct {
	Auth      *api.AuthHandler
	Users     *api.UserHandler
	Flights   *api.FlightHandler
	Bookings  *api.BookingHandler
	Analytics *api.AnalyticsHandler
	Providers *api.ProviderHandler
}

func NewRouter(cfg *config.Config, log zerolog.Logger, tokens token.TokenUseCase, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), api.RequestLogger(log))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authenticate := api.Authenticate(tokens)

	root := engine.Group("/api")
	h.Auth.Register(root.Group("/auth"))
	h.Users.Register(root, authenticate)
	h.Flights.Register(root, authenticate)
	h.Bookings.Register(root, authenticate)
	h.Analytics.Register(root, authenticate)
	h.Providers.Register(root)

	if cfg.HTTP.SwaggerDir != "" {
		engine.StaticFS("/swagger-spec", http.Dir(cfg.HTTP.SwaggerDir))
		engine.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger-spec/api.swagger.json"),
		)))
	}

	return engine
}

// Run serves the router and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info().Str("address", cfg.HTTP.Address).Msg("http server started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
