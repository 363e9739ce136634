package cmd

import (
	"context"
	"go/types"

	"github.com/spf13/cobra"

	cmdUtils "github.com/meridianpay/wallet-platform-backend/cmd/utils"
	"github.com/meridianpay/wallet-platform-backend/internal/crashtracker"
	"github.com/meridianpay/wallet-platform-backend/internal/logging"
	"github.com/meridianpay/wallet-platform-backend/internal/message"
	"github.com/meridianpay/wallet-platform-backend/internal/monitor"
	"github.com/meridianpay/wallet-platform-backend/internal/serve"
)

type ServeCommand struct{}

type ServerServiceInterface interface {
	StartServe(opts serve.ServeOptions, httpServer serve.HTTPServerInterface)
	StartMetricsServe(opts serve.MetricsServeOptions, httpServer serve.HTTPServerInterface)
}

type ServerService struct{}

// Making sure that ServerService implements ServerServiceInterface
var _ ServerServiceInterface = (*ServerService)(nil)

func (s *ServerService) StartServe(opts serve.ServeOptions, httpServer serve.HTTPServerInterface) {
	if err := serve.Serve(opts, httpServer); err != nil {
		logging.L(context.Background()).Fatalf("Error starting server: %v", err)
	}
}

func (s *ServerService) StartMetricsServe(opts serve.MetricsServeOptions, httpServer serve.HTTPServerInterface) {
	if err := serve.MetricsServe(opts, httpServer); err != nil {
		logging.L(context.Background()).Fatalf("Error starting metrics server: %v", err)
	}
}

func (c *ServeCommand) Command(serverService ServerServiceInterface, monitorService monitor.MonitorServiceInterface) *cobra.Command {
	serveOpts := serve.ServeOptions{}
	metricsServeOpts := serve.MetricsServeOptions{}
	crashTrackerOptions := crashtracker.CrashTrackerOptions{}

	emailMessengerOptions := message.MessengerOptions{}
	smsMessengerOptions := message.MessengerOptions{}

	configOpts := cmdUtils.ConfigOptions{
		{
			Name:        "port",
			Usage:       "Port where the server will be listening on",
			OptType:     types.Int,
			ConfigKey:   &serveOpts.Port,
			FlagDefault: 8000,
			Required:    true,
		},
		{
			Name:        "metrics-port",
			Usage:       "Port where the metrics server will be listening on",
			OptType:     types.Int,
			ConfigKey:   &metricsServeOpts.Port,
			FlagDefault: 8002,
			Required:    true,
		},
		{
			Name:           "metrics-type",
			Usage:          `Metric monitor type. Options: "PROMETHEUS"`,
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetConfigOptionMetricType,
			ConfigKey:      &metricsServeOpts.MetricType,
			FlagDefault:    string(monitor.MetricTypePrometheus),
			Required:       true,
		},
		{
			Name:           "crash-tracker-type",
			Usage:          `Crash tracker type. Options: "SENTRY", "DRY_RUN"`,
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetConfigOptionCrashTrackerType,
			ConfigKey:      &crashTrackerOptions.CrashTrackerType,
			FlagDefault:    string(crashtracker.CrashTrackerTypeDryRun),
			Required:       true,
		},
		{
			Name:           "ec256-public-key",
			Usage:          "The EC256 Public Key used to validate the token signature. This EC key needs to be at least as strong as prime256v1 (P-256).",
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetConfigOptionEC256PublicKey,
			ConfigKey:      &serveOpts.EC256PublicKey,
			Required:       true,
		},
		{
			Name:           "ec256-private-key",
			Usage:          "The EC256 Private Key used to sign the authentication token. This EC key needs to be at least as strong as prime256v1 (P-256).",
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetConfigOptionEC256PrivateKey,
			ConfigKey:      &serveOpts.EC256PrivateKey,
			Required:       true,
		},
		{
			Name:        "token-expiration-minutes",
			Usage:       "Session token expiration in minutes",
			OptType:     types.Int,
			ConfigKey:   &serveOpts.TokenExpirationMinutes,
			FlagDefault: 15,
			Required:    true,
		},
		{
			Name:           "cors-allowed-origins",
			Usage:          `Cors URLs that are allowed to access the endpoints, separated by ","`,
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetCorsAllowedOrigins,
			ConfigKey:      &serveOpts.CorsAllowedOrigins,
			Required:       true,
		},
		{
			Name:      "custody-api-key",
			Usage:     "The API key used to authenticate against the custody platform",
			OptType:   types.String,
			ConfigKey: &serveOpts.CustodyAPIKey,
			Required:  true,
		},
		{
			Name:           "custody-environment",
			Usage:          `The custody platform environment. Options: "production", "sandbox"`,
			OptType:        types.String,
			CustomSetValue: cmdUtils.SetConfigOptionCustodyEnvironment,
			ConfigKey:      &serveOpts.CustodyEnvironment,
			FlagDefault:    "sandbox",
			Required:       true,
		},
		{
			Name:        "organization-name",
			Usage:       "The organization name used in outgoing emails",
			OptType:     types.String,
			ConfigKey:   &serveOpts.OrganizationName,
			FlagDefault: "MeridianPay",
			Required:    true,
		},
		{
			Name:        "enable-otp",
			Usage:       "Enable the OTP login challenge for unrecognized devices",
			OptType:     types.Bool,
			ConfigKey:   &serveOpts.EnableOTP,
			FlagDefault: true,
			Required:    false,
		},
		{
			Name:        "rate-limit",
			Usage:       "Maximum number of requests per client IP within the rate limit window",
			OptType:     types.Int,
			ConfigKey:   &serveOpts.RateLimit,
			FlagDefault: 100,
			Required:    true,
		},
	}
	configOpts = append(configOpts, cmdUtils.MessengerConfigOptions(&emailMessengerOptions.MessengerType, &smsMessengerOptions.MessengerType)...)
	configOpts = append(configOpts, cmdUtils.TwilioConfigOptions(&emailMessengerOptions)...)
	configOpts = append(configOpts, cmdUtils.AWSConfigOptions(&emailMessengerOptions)...)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Wallet Platform API",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			cmd.Parent().PersistentPreRun(cmd.Parent(), args)

			// Validate & ingest input parameters
			if err := configOpts.Require(); err != nil {
				logging.L(ctx).Fatalf("Error checking required config options: %v", err)
			}
			if err := configOpts.SetValues(); err != nil {
				logging.L(ctx).Fatalf("Error setting values of config options: %v", err)
			}

			// Initializing monitor service
			metricOptions := monitor.MetricOptions{
				MetricType:  metricsServeOpts.MetricType,
				Environment: globalOptions.Environment,
			}
			if err := monitorService.Start(metricOptions); err != nil {
				logging.L(ctx).Fatalf("Error creating monitor service: %v", err)
			}

			// Inject crash tracker options dependencies
			globalOptions.PopulateCrashTrackerOptions(&crashTrackerOptions)

			// Inject server dependencies
			serveOpts.Environment = globalOptions.Environment
			serveOpts.GitCommit = globalOptions.GitCommit
			serveOpts.Version = globalOptions.Version
			serveOpts.DatabaseURL = globalOptions.DatabaseURL
			serveOpts.DatabaseName = globalOptions.DatabaseName
			serveOpts.BaseURL = globalOptions.BaseURL
			serveOpts.MonitorService = monitorService

			// Inject metrics server dependencies
			metricsServeOpts.MonitorService = monitorService
			metricsServeOpts.Environment = globalOptions.Environment
		},
		Run: func(cmd *cobra.Command, _ []string) {
			ctx := cmd.Context()

			// Setup the Crash Tracker client
			crashTrackerClient, err := crashtracker.GetClient(ctx, crashTrackerOptions)
			if err != nil {
				logging.L(ctx).Fatalf("error creating crash tracker client: %v", err)
			}
			serveOpts.CrashTrackerClient = crashTrackerClient

			// Setup the Email client
			serveOpts.EmailMessengerClient, err = message.GetClient(emailMessengerOptions)
			if err != nil {
				logging.L(ctx).Fatalf("error creating email client: %v", err)
			}

			// Setup the SMS client
			smsMessengerOptions.TwilioAccountSID = emailMessengerOptions.TwilioAccountSID
			smsMessengerOptions.TwilioAuthToken = emailMessengerOptions.TwilioAuthToken
			smsMessengerOptions.TwilioServiceSID = emailMessengerOptions.TwilioServiceSID
			serveOpts.SMSMessengerClient, err = message.GetClient(smsMessengerOptions)
			if err != nil {
				logging.L(ctx).Fatalf("error creating SMS client: %v", err)
			}

			// Starting Metrics Server (background job)
			logging.L(ctx).Info("Starting Metrics Server...")
			go serverService.StartMetricsServe(metricsServeOpts, &serve.HTTPServer{})

			// Starting Application Server
			logging.L(ctx).Info("Starting Application Server...")
			serverService.StartServe(serveOpts, &serve.HTTPServer{})
		},
	}
	if err := configOpts.Init(cmd); err != nil {
		logging.L(context.Background()).Fatalf("Error initializing a config option: %v", err)
	}

	return cmd
}
