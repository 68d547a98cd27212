package main

import (
	"fmt"
	"log"
	"os"

	echoapi "github.com/kazlaw/shule/apps/api/echo"
	"github.com/kazlaw/shule/core"
	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
	emailsvc "github.com/kazlaw/shule/services/email"
	logsvc "github.com/kazlaw/shule/services/logger"
	"github.com/kazlaw/shule/storage/database"
	sqlxrepos "github.com/kazlaw/shule/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	validate, translator := core.NewValidate()

	sysCfgSvc := sysconfig.NewService(sqlxrepos.NewSysConfigRepository(db))
	usrSvc := user.NewService(conf, sqlxrepos.NewUserRepository(db), sysCfgSvc, mailSvc, validate)

	// start API server
	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:         conf,
		Logger:       logger,
		UserSvc:      usrSvc,
		SysConfigSvc: sysCfgSvc,
		Validate:     validate,
		Translator:   translator,
	})
	if err := app.Start(); err != nil {
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)
	}
}
