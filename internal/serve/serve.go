package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/meridianpay/wallet-platform-backend/db"
	"github.com/meridianpay/wallet-platform-backend/internal/crashtracker"
	"github.com/meridianpay/wallet-platform-backend/internal/custody"
	"github.com/meridianpay/wallet-platform-backend/internal/data"
	wpgraphql "github.com/meridianpay/wallet-platform-backend/internal/graphql"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/message"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/httperror"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/httphandler"
	"github.com/meridianpay/wallet-platform-backend/internal/serve/middleware"
	"github.com/meridianpay/wallet-platform-backend/internal/services"
	"github.com/meridianpay/wallet-platform-backend/internal/utils"
	"github.com/meridianpay/wallet-platform-backend/pkg/auth"
)

const ServiceID = "serve"

const (
	defaultRateLimit          = 100
	defaultRateLimitWindow    = time.Minute
	resetTokenExpirationHours = 24
)

// Config carries the settings for running an HTTP server with graceful
// shutdown.
type Config struct {
	ListenAddr          string
	Handler             http.Handler
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	ShutdownGracePeriod time.Duration
	OnStarting          func()
	OnStopping          func()
}

type HTTPServerInterface interface {
	Run(conf Config)
}

// HTTPServer runs an http.Server until SIGINT or SIGTERM, then drains
// in-flight requests within the shutdown grace period.
type HTTPServer struct{}

func (h *HTTPServer) Run(conf Config) {
	if conf.OnStarting != nil {
		conf.OnStarting()
	}

	srv := &http.Server{
		Addr:         conf.ListenAddr,
		Handler:      conf.Handler,
		ReadTimeout:  conf.ReadTimeout,
		WriteTimeout: conf.WriteTimeout,
		IdleTimeout:  conf.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L(context.Background()).Fatalf("running http server: %v", err)
		}
	case sig := <-stop:
		logging.L(context.Background()).Infof("received signal %q, shutting down", sig)

		gracePeriod := conf.ShutdownGracePeriod
		if gracePeriod == 0 {
			gracePeriod = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), gracePeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.L(context.Background()).Errorf("shutting down http server: %v", err)
		}
	}

	if conf.OnStopping != nil {
		conf.OnStopping()
	}
}

type ServeOptions struct {
	Environment        string
	GitCommit          string
	Version            string
	Port               int
	CorsAllowedOrigins []string

	DatabaseURL  string
	DatabaseName string

	EC256PublicKey         string
	EC256PrivateKey        string
	TokenExpirationMinutes int

	CustodyAPIKey      string
	CustodyEnvironment custody.Environment

	BaseURL          string
	OrganizationName string
	EnableOTP        bool

	RateLimit       int
	RateLimitWindow time.Duration

	MonitorService       monitor.MonitorServiceInterface
	CrashTrackerClient   crashtracker.CrashTrackerClient
	EmailMessengerClient message.MessengerClient
	SMSMessengerClient   message.MessengerClient
	Models               *data.Models
	AuthManager          auth.AuthManager
	CustodyClient        custody.ClientInterface
	MessageDispatcher    message.MessageDispatcherInterface

	mongoPool      *db.MongoPool
	walletService  *services.WalletService
	balanceService *services.BalanceService
	rateService    *services.RateService
}

// SetupDependencies uses the serve options to set up the dependencies for the
// server.
func (opts *ServeOptions) SetupDependencies(ctx context.Context) error {
	// Route unhandled errors through the crash tracker.
	httperror.SetDefaultReportErrorFunc(opts.CrashTrackerClient.LogAndReportErrors)

	mongoPool, err := db.OpenMongoPool(ctx, opts.DatabaseURL, opts.DatabaseName,
		db.WithCommandObserver(monitor.NewQueryObserver(opts.MonitorService)))
	if err != nil {
		return fmt.Errorf("error connecting to the database: %w", err)
	}
	opts.mongoPool = mongoPool

	opts.Models, err = data.NewModels(mongoPool)
	if err != nil {
		return fmt.Errorf("error creating models for Serve: %w", err)
	}
	if err = opts.Models.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("error ensuring model indexes: %w", err)
	}

	opts.AuthManager, err = createAuthManager(mongoPool, opts.EC256PublicKey, opts.EC256PrivateKey, opts.TokenExpirationMinutes)
	if err != nil {
		return fmt.Errorf("error creating auth manager: %w", err)
	}
	if err = auth.EnsureIndexes(ctx, mongoPool); err != nil {
		return fmt.Errorf("error ensuring auth indexes: %w", err)
	}

	if opts.CustodyClient == nil {
		opts.CustodyClient = custody.NewClient(opts.CustodyEnvironment, opts.CustodyAPIKey)
	}

	opts.walletService = services.NewWalletService(opts.CustodyClient, opts.Models, opts.MonitorService)
	opts.balanceService = services.NewBalanceService(opts.CustodyClient, opts.MonitorService)
	opts.rateService, err = services.NewRateService(opts.CustodyClient)
	if err != nil {
		return fmt.Errorf("error creating rate service: %w", err)
	}

	if opts.MessageDispatcher == nil {
		dispatcher := message.NewMessageDispatcher()
		if opts.EmailMessengerClient != nil {
			dispatcher.RegisterClient(ctx, message.MessageChannelEmail, opts.EmailMessengerClient)
		}
		if opts.SMSMessengerClient != nil {
			dispatcher.RegisterClient(ctx, message.MessageChannelSMS, opts.SMSMessengerClient)
		}
		opts.MessageDispatcher = dispatcher
	}

	return nil
}

func Serve(opts ServeOptions, httpServer HTTPServerInterface) error {
	ctx := context.Background()
	if err := opts.SetupDependencies(ctx); err != nil {
		return fmt.Errorf("error starting dependencies: %w", err)
	}

	mux, err := handleHTTP(opts)
	if err != nil {
		return fmt.Errorf("error building http handler: %w", err)
	}

	listenAddr := fmt.Sprintf(":%d", opts.Port)
	serverConfig := Config{
		ListenAddr:          listenAddr,
		Handler:             mux,
		ShutdownGracePeriod: time.Second * 50,
		ReadTimeout:         time.Second * 5,
		WriteTimeout:        time.Second * 35,
		IdleTimeout:         time.Minute * 2,
		OnStarting: func() {
			logging.L(ctx).Info("Starting Wallet Platform Server")
			logging.L(ctx).Infof("Listening on %s", listenAddr)
		},
		OnStopping: func() {
			logging.L(ctx).Info("Closing the database connection...")
			if err := opts.mongoPool.Close(ctx); err != nil {
				logging.L(ctx).Errorf("error closing database connection: %v", err)
			}
			opts.CrashTrackerClient.FlushEvents(2 * time.Second)

			logging.L(ctx).Info("Stopping Wallet Platform Server")
		},
	}
	httpServer.Run(serverConfig)
	return nil
}

func handleHTTP(o ServeOptions) (*chi.Mux, error) {
	resolver := &wpgraphql.Resolver{
		AuthManager:       o.AuthManager,
		Models:            o.Models,
		WalletService:     o.walletService,
		BalanceService:    o.balanceService,
		RateService:       o.rateService,
		MessageDispatcher: o.MessageDispatcher,
		CrashTracker:      o.CrashTrackerClient,
		BaseURL:           o.BaseURL,
		OrganizationName:  o.OrganizationName,
		OTPEnabled:        o.EnableOTP,
	}
	schema, err := wpgraphql.NewSchema(resolver)
	if err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	rateLimit := o.RateLimit
	if rateLimit <= 0 {
		rateLimit = defaultRateLimit
	}
	rateLimitWindow := o.RateLimitWindow
	if rateLimitWindow <= 0 {
		rateLimitWindow = defaultRateLimitWindow
	}

	mux := chi.NewMux()

	// Middleware
	mux.Use(middleware.CorsMiddleware(o.CorsAllowedOrigins))
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.RecoverHandler)
	mux.Use(middleware.MetricsRequestHandler(o.MonitorService))
	mux.Use(middleware.RateLimitMiddleware(rateLimit, rateLimitWindow))

	healthHandler := httphandler.HealthHandler{
		Version:       o.Version,
		ServiceID:     ServiceID,
		ReleaseID:     o.GitCommit,
		CustodyClient: o.CustodyClient,
	}
	if o.mongoPool != nil {
		healthHandler.MongoPool = o.mongoPool
	}
	mux.Get("/health", healthHandler.ServeHTTP)

	graphqlHandler := httphandler.GraphQLHandler{Schema: schema}
	mux.Group(func(r chi.Router) {
		r.Use(middleware.ResolveAuthMiddleware(o.AuthManager, o.Models.APIKeys))
		r.Post("/graphql", graphqlHandler.ServeHTTP)
	})
	mux.Get("/graphql", httphandler.PlaygroundHandler{GraphQLPath: "/graphql"}.ServeHTTP)

	return mux, nil
}

// createAuthManager builds the default AuthManager injected into the GraphQL
// resolvers.
func createAuthManager(mongoPool *db.MongoPool, ec256PublicKey, ec256PrivateKey string, tokenExpirationMinutes int) (auth.AuthManager, error) {
	if mongoPool == nil {
		return nil, fmt.Errorf("mongo pool cannot be nil")
	}

	if err := utils.ValidateStrongECKeyPair(ec256PublicKey, ec256PrivateKey); err != nil {
		return nil, fmt.Errorf("validating auth manager keys: %w", err)
	}

	if tokenExpirationMinutes < 1 {
		return nil, fmt.Errorf("token expiration minutes must be greater than 0")
	}

	passwordEncrypter := auth.NewDefaultPasswordEncrypter()
	authManager := auth.NewAuthManager(
		auth.WithDefaultAuthenticatorOption(mongoPool, passwordEncrypter, time.Hour*time.Duration(resetTokenExpirationHours)),
		auth.WithDefaultJWTManagerOption(ec256PublicKey, ec256PrivateKey),
		auth.WithDefaultRoleManagerOption(mongoPool, data.OwnerUserRole.String()),
		auth.WithDefaultOTPManagerOption(mongoPool),
		auth.WithExpirationTimeInMinutesOption(tokenExpirationMinutes),
	)

	return authManager, nil
}
