package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/redditclone/internal/client/client"
	"github.com/dmitrijs2005/redditclone/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in, run 'login' first")

// Signup prompts for a username, email and password and creates a new
// account. The account stays disabled until the emailed link is followed.
func (a *App) Signup(ctx context.Context) error {
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
	defer common.WipeByteArray(password)

	if err := a.authService.Signup(ctx, username, email, password); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Success! Check your mailbox for the activation link.")
	return nil
}

// Verify activates an account with the token from the activation email.
func (a *App) Verify(ctx context.Context, token string) error {
	msg, err := a.authService.VerifyAccount(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Login authenticates and stores the session. The username is prompted
// for when empty.
func (a *App) Login(ctx context.Context, username string) error {
	if username == "" {
		var err error
		if username, err = getSimpleText(a.reader, "Enter username", a.out); err != nil {
			return err
		}
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	s, err := a.authService.Login(ctx, username, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Logged in as %s (access token valid until %s)\n", s.UserName, s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

// Refresh rotates the stored refresh token.
func (a *App) Refresh(ctx context.Context) error {
	s, err := a.authService.Refresh(ctx)
	if err != nil {
		return loggedIn(err)
	}
	fmt.Fprintf(a.out, "Session refreshed for %s\n", s.UserName)
	return nil
}

// WhoAmI prints the logged-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	u, err := a.authService.Me(ctx)
	if err != nil {
		return loggedIn(err)
	}
	printUser(a.out, u)
	return nil
}

// Logout revokes the session on the server and forgets it locally.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func loggedIn(err error) error {
	if errors.Is(err, client.ErrLocalDataNotAvailable) {
		return errNotLoggedIn
	}
	return err
}

func printUser(w io.Writer, u *client.User) {
	fmt.Fprintf(w, "id:       %s\n", u.ID)
	fmt.Fprintf(w, "username: %s\n", u.UserName)
	fmt.Fprintf(w, "email:    %s\n", u.Email)
	fmt.Fprintf(w, "enabled:  %t\n", u.Enabled)
	fmt.Fprintf(w, "created:  %s\n", u.CreatedAt.Local().Format("2006-01-02 15:04:05"))
}
