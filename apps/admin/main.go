package main

import (
	"log"
	"os"

	"github.com/shuletech/udahili/core"
	"github.com/shuletech/udahili/core/catalog"
	"github.com/shuletech/udahili/core/user"
	"github.com/shuletech/udahili/storage/database"
	sqlxrepos "github.com/shuletech/udahili/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()
	errAndDie(database.Ping(db))
	errAndDie(database.Migrate(db))

	// start CLI
	cli := commandLine{
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db)),
		catalogSvc: catalog.NewService(sqlxrepos.NewFeeTemplateRepository(db)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
