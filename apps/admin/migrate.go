package main

import (
	"github.com/pressly/goose/v3"

	"github.com/trezcool/taskly/storage/database"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoSQLDB
	}
	dir, err := database.SetUpMigrations()
	if err != nil {
		return err
	}
	return gooseRunFunc(args[0], cli.db, dir, args[1:]...)
}
