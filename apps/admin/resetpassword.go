package main

import "context"

func (cli *commandLine) resetPassword(email, pwd string) error {
	if cli.usrSvc == nil {
		return errNoUserDB
	}
	return cli.usrSvc.ResetPassword(context.Background(), email, pwd)
}
