package main

import (
	"context"

	"github.com/trezcool/taskly/core/user"
)

// addUser signs a user up then logs it out; users created here log in through the API.
func (cli *commandLine) addUser(email, pwd string) error {
	if cli.usrSvc == nil {
		return errNoUserDB
	}
	nu := user.NewUser{Email: email, Password: pwd}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}

	ctx := context.Background()
	usr, err := cli.usrSvc.Signup(ctx, nu)
	if err != nil {
		return err
	}
	return cli.usrSvc.Logout(ctx, usr.ID)
}
