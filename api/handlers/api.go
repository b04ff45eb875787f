package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cropwatch-lk/cropwatch-api/alerting"
	"github.com/cropwatch-lk/cropwatch-api/analytics"
	"github.com/cropwatch-lk/cropwatch-api/api"
	"github.com/cropwatch-lk/cropwatch-api/api/scheduler"
	"github.com/cropwatch-lk/cropwatch-api/config"
	"github.com/cropwatch-lk/cropwatch-api/databases"
	"github.com/cropwatch-lk/cropwatch-api/escalation"
	"github.com/cropwatch-lk/cropwatch-api/models"
	"github.com/cropwatch-lk/cropwatch-api/reputation"
	"github.com/cropwatch-lk/cropwatch-api/scoring"
	"github.com/cropwatch-lk/cropwatch-api/verification"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
	publisher *alerting.Publisher
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewOfficerDatabase(a.dbHelper), Secret: a.Config.JWTSecret}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.TimeoutMiddleware(30 * time.Second))

	reportDB := databases.NewReportDatabase(a.dbHelper)
	alertDB := databases.NewAlertDatabase(a.dbHelper)
	notificationDB := databases.NewNotificationDatabase(a.dbHelper)
	actionLogDB := databases.NewActionLogDatabase(a.dbHelper)

	auditor := verification.Auditor{DB: actionLogDB}
	hub := NewAlertHub()

	sinks := []alerting.EventSink{hub}
	if a.publisher != nil {
		sinks = append(sinks, a.publisher)
	}
	aggregator := alerting.Aggregator{
		Reports:       reportDB,
		Alerts:        alertDB,
		Notifications: notificationDB,
		Sinks:         sinks,
	}

	report := Report{
		DB:            reportDB,
		Reputation:    reputation.NewClient(a.Config.ReputationURL),
		Confirmations: scoring.ConfirmationChecker{DB: reportDB},
		Aggregator:    aggregator,
		Validate:      validator.New(),
	}
	v := Verification{
		Service: verification.Service{Reports: reportDB, Auditor: auditor, Aggregator: aggregator},
		DB:      reportDB,
	}
	alert := Alert{DB: alertDB, Auditor: auditor}
	notification := Notification{DB: notificationDB}
	e := Escalation{Monitor: escalation.Monitor{Reports: reportDB}}
	an := Analytics{Engine: analytics.NewEngine(reportDB)}
	actionLog := ActionLog{DB: actionLogDB}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live alert stream for dashboards
	r.HandleFunc("/ws/alerts", hub.HandleAlertsWebSocket)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	// farmer ingestion and public reads need no officer credentials
	apiCreate.Handle("/reports", http.HandlerFunc(report.CreateReportHandler)).Methods("POST")
	apiCreate.Handle("/reports", http.HandlerFunc(report.ReportsHandler)).Methods("GET")
	apiCreate.Handle("/reports/stats", api.Middleware(http.HandlerFunc(v.StatsHandler))).Methods("GET")
	apiCreate.Handle("/reports/overdue", api.Middleware(http.HandlerFunc(e.OverdueReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports/{report_id}", http.HandlerFunc(report.ReportByIDHandler)).Methods("GET")
	apiCreate.Handle("/reports/{report_id}/status", api.Middleware(http.HandlerFunc(v.TransitionHandler))).Methods("PUT")
	apiCreate.Handle("/reports/{report_id}/priority", api.Middleware(http.HandlerFunc(v.PriorityHandler))).Methods("PUT")
	apiCreate.Handle("/reports/{report_id}/field-visit", api.Middleware(http.HandlerFunc(v.FieldVisitHandler))).Methods("POST")
	apiCreate.Handle("/reports/{report_id}/notes", api.Middleware(http.HandlerFunc(v.AddNoteHandler))).Methods("POST")

	apiCreate.Handle("/alerts", http.HandlerFunc(alert.AlertsHandler)).Methods("GET")
	apiCreate.Handle("/alerts/{alert_id}", http.HandlerFunc(alert.AlertByIDHandler)).Methods("GET")
	apiCreate.Handle("/alerts/{alert_id}/resolve", api.Middleware(http.HandlerFunc(alert.ResolveAlertHandler))).Methods("POST")

	apiCreate.Handle("/notifications", http.HandlerFunc(notification.NotificationsHandler)).Methods("GET")
	apiCreate.Handle("/notifications/{notification_id}/read", http.HandlerFunc(notification.MarkNotificationReadHandler)).Methods("PUT")

	apiCreate.Handle("/analytics/growth-indicators", api.Middleware(http.HandlerFunc(an.GrowthHandler))).Methods("GET")
	apiCreate.Handle("/analytics/spread-risk", api.Middleware(http.HandlerFunc(an.SpreadRiskHandler))).Methods("GET")
	apiCreate.Handle("/analytics/coverage-index", api.Middleware(http.HandlerFunc(an.CoverageHandler))).Methods("GET")

	apiCreate.Handle("/action-logs", api.Middleware(http.HandlerFunc(actionLog.ActionLogHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("cropwatch-api has connected to the database")

	if err := databases.NewAlertDatabase(a.dbHelper).EnsureIndexes(context.Background()); err != nil {
		// without the unique live-alert index the conditional upsert is racy
		zap.S().With(err).Error("failed to create alert indexes")
		return err
	}

	if a.Config.AmqpURL != "" {
		a.publisher, err = alerting.NewPublisher(a.Config.AmqpURL)
		if err != nil {
			// alert events are best-effort, the API can run without the broker
			zap.S().With(err).Warn("failed to connect to message broker, alert events disabled")
			a.publisher = nil
		}
	}

	a.Scheduler = scheduler.NewScheduler(
		databases.NewNotificationDatabase(a.dbHelper),
		databases.NewOfficerDatabase(a.dbHelper),
		escalation.Monitor{Reports: databases.NewReportDatabase(a.dbHelper)},
		databases.NewSchedulerLockDatabase(a.dbHelper),
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
