package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/email"
	"tradedesk/internal/persistence"
	"tradedesk/internal/queue"
	"tradedesk/internal/reminders"
	"tradedesk/internal/vendorcredit"

	"github.com/gorilla/mux"
)

type HttpApplicationOpts struct {
	// CacheConnection provides a connection to a Redis cache
	CacheConnection *persistence.Redis

	// CronSecret is the bearer token expected on the cron endpoints, the
	// endpoints refuse every call when this is empty
	CronSecret string

	// DatabaseConnection provides a connection to a MySQL compatible database
	DatabaseConnection *persistence.Mysql

	// EmailSender delivers invitations and reminders, a logging sender
	// is used when this is nil
	EmailSender email.Sender

	// ImportBatchSize caps the READY import jobs handled per cron sweep,
	// defaults to vendorcredit.ImportCronBatchSize
	ImportBatchSize int

	// LivenessChecks are sequentially executed when the liveness probe endpoint is hit
	LivenessChecks []func() error

	// ReadinessChecks are sequentially executed when the readiness probe endpoint is hit
	ReadinessChecks []func() error

	// PublicServerUrl is used when communicating with customers so that
	// the correct URL appears in invitation emails
	PublicServerUrl string

	// QueueConnection provides a connection to a NATS queue service
	QueueConnection *persistence.Nats

	// ServiceLogs is a centralised channel where logs get sent to
	ServiceLogs chan<- common.ServiceLog

	// SessionSigningToken is the session signing token to use, change this to invalidate
	// all users with immediate effect
	SessionSigningToken string
}

func (o HttpApplicationOpts) Validate() error {
	errs := []error{}

	if o.CacheConnection == nil {
		errs = append(errs, fmt.Errorf("failed to receive a cache connection: %w", ErrorMissingCacheConnection))
	}

	if o.DatabaseConnection == nil {
		errs = append(errs, fmt.Errorf("failed to receive a database connection: %w", ErrorMissingDatabaseConnection))
	}

	if o.QueueConnection == nil {
		errs = append(errs, fmt.Errorf("failed to receive a queue connection: %w", ErrorMissingQueueConnection))
	}

	if o.ServiceLogs == nil {
		errs = append(errs, fmt.Errorf("failed to receive a service log: %w", ErrorMissingServiceLog))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// GetHttpApplication wires the process-wide connections into the
// controller and returns the router serving the JSON API of every app
func GetHttpApplication(opts HttpApplicationOpts) (http.Handler, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("failed to initialise http application: %w", err)
	}

	serviceLogs = &opts.ServiceLogs

	dbInstance = opts.DatabaseConnection.GetClient()

	var err error
	if cacheInstance, err = cache.InitRedis(cache.InitRedisOpts{
		RedisConnection: opts.CacheConnection,
		ServiceLogs:     *serviceLogs,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialise cache: %w", err)
	}

	if queueInstance, err = queue.InitNats(queue.InitNatsOpts{
		NatsConnection: opts.QueueConnection,
		ServiceLogs:    *serviceLogs,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialise queue: %w", err)
	}

	publicServerUrl, err = url.Parse(opts.PublicServerUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse server url '%s': %w: %w", opts.PublicServerUrl, ErrorInvalidPublicServerUrl, err)
	}

	sessionSigningToken = opts.SessionSigningToken
	cronSecret = opts.CronSecret
	if cronSecret == "" {
		*serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "cron secret is not set, cron endpoints are disabled")
	}

	if opts.ImportBatchSize > 0 {
		importBatchSize = opts.ImportBatchSize
	}

	emailSender = opts.EmailSender
	if emailSender == nil {
		emailSender = email.NewSender(email.SmtpConfig{}, email.User{}, *serviceLogs)
	}

	reminderRunner, err = reminders.NewRunner(reminders.RunnerOpts{
		Store:       models.ReminderStore{Db: dbInstance},
		Sender:      emailSender,
		Cache:       cacheInstance,
		ServiceLogs: *serviceLogs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialise reminder runner: %w", err)
	}
	importer = vendorcredit.NewImporter(vendorcredit.ImporterOpts{
		Store:       models.VendorCreditStore{Db: dbInstance},
		Cache:       cacheInstance,
		ServiceLogs: *serviceLogs,
	})

	return newRouter(routerOpts{
		LivenessChecks:  opts.LivenessChecks,
		ReadinessChecks: opts.ReadinessChecks,
		ServiceLogs:     *serviceLogs,
	})
}

type routerOpts struct {
	LivenessChecks  []func() error
	ReadinessChecks []func() error
	ServiceLogs     chan<- common.ServiceLog
}

func newRouter(opts routerOpts) (*mux.Router, error) {
	handler := mux.NewRouter()
	handler.NotFoundHandler = common.GetNotFoundHandler()
	handler.Use(common.GetRequestLoggerMiddleware(opts.ServiceLogs))
	handler.Use(common.GetCommonMetricsMiddleware(opts.ServiceLogs))
	common.RegisterCommonHttpEndpoints(common.CommonHttpEndpointsOpts{
		Router:          handler,
		ServiceLogs:     opts.ServiceLogs,
		LivenessChecks:  opts.LivenessChecks,
		ReadinessChecks: opts.ReadinessChecks,
	})

	api := handler.PathPrefix("/api").Subrouter()
	apiOpts := RouteRegistrationOpts{
		Router:      api,
		ServiceLogs: opts.ServiceLogs,
	}

	registerSessionRoutes(apiOpts)
	registerOrgRoutes(apiOpts)
	registerFilterRoutes(apiOpts)
	registerSolarRoutes(apiOpts)
	registerReminderRoutes(apiOpts)
	registerVendorRoutes(apiOpts)
	registerCaseRoutes(apiOpts)
	registerImportRoutes(apiOpts)
	registerCronRoutes(apiOpts)

	if err := handler.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}
		opts.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "registered route[%s] with methods[%s]", pathTemplate, strings.Join(methods, "|"))
		return nil
	}); err != nil {
		return nil, err
	}

	return handler, nil
}
