package main

import (
	"log"
	"os"

	echoapi "github.com/shuletech/udahili/apps/api/echo"
	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/admission"
	"github.com/shuletech/udahili/core/catalog"
	"github.com/shuletech/udahili/core/user"
	logsvc "github.com/shuletech/udahili/services/logger"
	notifsvc "github.com/shuletech/udahili/services/notification"
	"github.com/shuletech/udahili/storage/database"
	sqlxrepos "github.com/shuletech/udahili/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	errAndDie(logger, err)
	defer func() { _ = db.Close() }()
	errAndDie(logger, database.Ping(db))
	errAndDie(logger, database.Migrate(db))

	// set up services
	var notifier core.Notifier
	if conf.Debug {
		notifier = notifsvc.NewConsoleService()
	} else {
		notifier = notifsvc.NewSendgridService(conf, logger)
	}

	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db))
	catalogSvc := catalog.NewService(sqlxrepos.NewFeeTemplateRepository(db))
	admissionSvc := admission.NewService(sqlxrepos.NewApplicationRepository(db), catalogSvc, notifier, logger)

	// start API server
	app := echoapi.NewServer(&echoapi.Options{
		Address:      conf.Server.Address(),
		Conf:         conf,
		Logger:       logger,
		AdmissionSvc: admissionSvc,
		CatalogSvc:   catalogSvc,
		UserSvc:      usrSvc,
	})
	app.Start()
}

func errAndDie(logger core.Logger, err error) {
	if err != nil {
		logger.Fatal(err.Error())
	}
}
