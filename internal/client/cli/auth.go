package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/habitkeeper/internal/client/models"
)

// Prompt indirections, swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register creates an account. The user still has to log in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	acc, err := a.session.Register(ctx, models.NewAccount{Username: username, Email: email, Password: password})
	if err != nil {
		a.printError(err)
		return err
	}

	a.println(okStyle.Render("✓ Account " + acc.Username + " created. You can log in now."))
	return nil
}

// Login authenticates with a username or an email address and loads the
// user's habits.
func (a *App) Login(ctx context.Context) error {
	login, err := getSimpleText(a.reader, "Enter username or email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	creds := models.Credentials{Username: login, Password: password}
	if strings.Contains(login, "@") {
		creds = models.Credentials{Email: login, Password: password}
	}

	if _, err := a.session.Login(ctx, creds); err != nil {
		a.printError(err)
		return err
	}
	a.println(okStyle.Render("✓ Logged in"))

	if _, err := a.habits.FetchAll(ctx); err != nil {
		a.printError(err)
		return err
	}
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if _, err := a.session.Refresh(ctx); err != nil {
		a.printError(err)
		return err
	}
	a.println(okStyle.Render("✓ Session refreshed"))
	return nil
}

// Logout forgets the tokens. Habits already loaded stay in memory until the
// next fetch replaces them.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	a.habits.ClearSelection()
	a.println("Logged out")
	return nil
}
