package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/linesmerrill/court-management-api/api/handlers"
	"github.com/linesmerrill/court-management-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { // initialize database, router and scheduler
		log.Fatal(err)
	}
	defer a.Shutdown()

	zap.S().Infow("court-management-api is up and running",
		"port", a.Config.Port,
		"clientUrl", a.Config.ClientURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
