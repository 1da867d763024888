package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/api"
	"github.com/linesmerrill/court-management-api/api/scheduler"
	"github.com/linesmerrill/court-management-api/config"
	"github.com/linesmerrill/court-management-api/databases"
	"github.com/linesmerrill/court-management-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	dbHelper  databases.DatabaseHelper
	socket    *SocketServer
	hub       *NotificationHub
	scheduler *scheduler.Scheduler
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	m := api.MiddlewareDB{
		DB:     databases.NewUserDatabase(a.dbHelper),
		Secret: []byte(a.Config.JWTSecret),
	}

	r := mux.NewRouter()

	udb := databases.NewUserDatabase(a.dbHelper)
	cdb := databases.NewCaseDatabase(a.dbHelper)
	hdb := databases.NewHearingDatabase(a.dbHelper)
	ndb := databases.NewNotificationDatabase(a.dbHelper)
	adb := databases.NewAvailabilityDatabase(a.dbHelper)
	rdb := databases.NewReportDatabase(a.dbHelper)

	if a.hub == nil {
		a.hub = NewNotificationHub()
	}
	notifier := &Notifier{NDB: ndb, Publishers: []Publisher{a.socket, a.hub}}

	auth := Auth{DB: udb, M: m}
	cc := CourtCase{DB: cdb, HDB: hdb}
	h := Hearing{DB: hdb, CDB: cdb, UDB: udb, Notifier: notifier}
	n := Notification{DB: ndb}
	av := Availability{DB: adb}
	re := Report{RDB: rdb, CDB: cdb, HDB: hdb}
	pub := Public{CDB: cdb, HDB: hdb}
	sig := DocumentSignature{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// live channels sit outside the timeout/metrics chain
	r.Handle("/socket.io/", a.socket.Server())
	r.HandleFunc("/ws/notifications", a.hub.ServeWS)

	apiCreate := r.PathPrefix("/api").Subrouter()
	apiCreate.Use(api.MetricsMiddleware)
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/register", http.HandlerFunc(auth.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(auth.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/me", m.Middleware(http.HandlerFunc(auth.MeHandler))).Methods("GET")

	apiCreate.Handle("/public/cases", http.HandlerFunc(pub.PublicCasesHandler)).Methods("GET")
	apiCreate.Handle("/public/cases/{case_id}", http.HandlerFunc(pub.PublicCaseByIDHandler)).Methods("GET")

	apiCreate.Handle("/cases", m.Middleware(http.HandlerFunc(cc.CasesHandler))).Methods("GET")
	apiCreate.Handle("/cases", m.Middleware(http.HandlerFunc(cc.CreateCaseHandler))).Methods("POST")
	apiCreate.Handle("/cases/{case_id}", m.Middleware(http.HandlerFunc(cc.CaseByIDHandler))).Methods("GET")
	apiCreate.Handle("/cases/{case_id}", m.Middleware(http.HandlerFunc(cc.UpdateCaseHandler))).Methods("PUT")
	apiCreate.Handle("/cases/{case_id}/documents", m.Middleware(http.HandlerFunc(cc.AddDocumentHandler))).Methods("POST")
	apiCreate.Handle("/cases/{case_id}/documents/signature", m.Middleware(http.HandlerFunc(sig.GenerateSignatureHandler))).Methods("POST")

	apiCreate.Handle("/lawyers", m.Middleware(http.HandlerFunc(auth.LawyersHandler))).Methods("GET")

	apiCreate.Handle("/hearings", m.Middleware(http.HandlerFunc(h.HearingsHandler))).Methods("GET")
	apiCreate.Handle("/hearings", m.Middleware(http.HandlerFunc(h.CreateHearingHandler))).Methods("POST")
	apiCreate.Handle("/hearings/{hearing_id}", m.Middleware(http.HandlerFunc(h.HearingByIDHandler))).Methods("GET")
	apiCreate.Handle("/hearings/{hearing_id}", m.Middleware(http.HandlerFunc(h.UpdateHearingHandler))).Methods("PUT")
	apiCreate.Handle("/hearings/{hearing_id}", m.Middleware(http.HandlerFunc(h.DeleteHearingHandler))).Methods("DELETE")

	apiCreate.Handle("/notifications", m.Middleware(http.HandlerFunc(n.NotificationsHandler))).Methods("GET")
	apiCreate.Handle("/notifications/{notification_id}/read", m.Middleware(http.HandlerFunc(n.MarkNotificationReadHandler))).Methods("PUT")

	apiCreate.Handle("/availability", m.Middleware(http.HandlerFunc(av.AvailabilityHandler))).Methods("GET")
	apiCreate.Handle("/availability", m.Middleware(http.HandlerFunc(av.SaveAvailabilityHandler))).Methods("POST")

	apiCreate.Handle("/reports", m.Middleware(http.HandlerFunc(re.ReportsHandler))).Methods("GET")
	apiCreate.Handle("/reports", m.Middleware(http.HandlerFunc(re.GenerateReportHandler))).Methods("POST")

	apiCreate.Handle("/metrics", http.HandlerFunc(api.MetricsHandler)).Methods("GET")

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
	zap.S().Info("court-management-api has connected to the database")

	a.socket = NewSocketServer()

	// initialize api router
	a.Router = a.New()

	a.scheduler = scheduler.New(
		databases.NewHearingDatabase(a.dbHelper),
		databases.NewUserDatabase(a.dbHelper),
		&Notifier{
			NDB:        databases.NewNotificationDatabase(a.dbHelper),
			Publishers: []Publisher{a.socket, a.hub},
		},
	)
	a.scheduler.Start()

	return nil
}

// Shutdown stops the background jobs and the live channel
func (a *App) Shutdown() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.socket != nil {
		_ = a.socket.Close()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
