package main

import (
	"context"

	"github.com/shuletech/udahili/core/user"
)

// addUser creates a staff user with the given roles.
func (cli *commandLine) addUser(name, uname, email, pwd, roles string) error {
	nu := user.NewUser{
		Name:            name,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Roles:           splitRoles(roles),
	}
	if err := nu.Validate(cli.usrSvc); err != nil {
		return err
	}
	_, err := cli.usrSvc.Create(context.Background(), nu)
	return err
}
