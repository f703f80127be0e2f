package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
	"github.com/trezcool/taskly/storage/database"
	"github.com/trezcool/taskly/storage/database/docrepos"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	conf := core.NewConfig()

	cli := commandLine{validate: newValidator()}

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		// goose owns the schema here; opening the store would migrate it up first
		if conf.Storage.Engine == core.EnginePostgres {
			db, err := openSQL(conf)
			errAndDie(err)
			defer db.Close()
			cli.db = db
		}
	} else {
		store, err := database.Open(conf, time.Now)
		errAndDie(err)
		defer store.Close()
		cli.usrSvc = user.NewService(docrepos.NewUserRepository(store))
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func openSQL(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}
	db, err := database.OpenSQL(conf)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newValidator() *validator.Validate {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
