package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yeslist/internal/client/api"
	"github.com/dmitrijs2005/yeslist/internal/common"
)

// getSimpleText and getPassword are indirections swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

func (a *App) readCredentials() (api.Credentials, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return api.Credentials{}, err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return api.Credentials{}, err
	}
	defer common.WipeByteArray(password)

	return api.Credentials{Email: email, Password: string(password)}, nil
}

// Register prompts for an email and a password and creates an account.
func (a *App) Register(ctx context.Context) error {
	cred, err := a.readCredentials()
	if err != nil {
		return err
	}

	if _, err := a.api.Register(ctx, cred); err != nil {
		return err
	}

	fmt.Fprintln(a.out, "Registered. You can now 'login'.")
	return nil
}

// Login prompts for credentials and keeps the session token in memory.
func (a *App) Login(ctx context.Context) error {
	cred, err := a.readCredentials()
	if err != nil {
		return err
	}

	s, err := a.api.Login(ctx, cred)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			return errors.New("invalid email or password")
		}
		return err
	}

	a.email = cred.Email
	fmt.Fprintf(a.out, "Logged in, session valid until %s\n", s.Expiration.Local().Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.api.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	items, err := a.api.ListTasks(ctx)
	if err != nil {
		return a.sessionError(err)
	}

	if len(items) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}
	for _, t := range items {
		fmt.Fprintln(a.out, formatTask(t))
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	t, err := a.api.GetTask(ctx, id)
	if err != nil {
		return a.sessionError(err)
	}
	fmt.Fprintln(a.out, formatTask(*t))
	return nil
}

func (a *App) Add(ctx context.Context, title string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	t, err := a.api.CreateTask(ctx, api.TaskInput{Title: title})
	if err != nil {
		return a.sessionError(err)
	}
	fmt.Fprintln(a.out, "Added", formatTask(*t))
	return nil
}

// SetDone marks a task done or not done, keeping its title.
func (a *App) SetDone(ctx context.Context, id string, done bool) error {
	return a.modify(ctx, id, func(in *api.TaskInput) { in.Done = done })
}

// Rename changes a task's title, keeping its done flag.
func (a *App) Rename(ctx context.Context, id, title string) error {
	return a.modify(ctx, id, func(in *api.TaskInput) { in.Title = title })
}

// modify reads the task and sends it back with change applied, since the
// server replaces both fields on update.
func (a *App) modify(ctx context.Context, id string, change func(*api.TaskInput)) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	t, err := a.api.GetTask(ctx, id)
	if err != nil {
		return a.sessionError(err)
	}

	in := api.TaskInput{Title: t.Title, Done: t.Done}
	change(&in)

	t, err = a.api.UpdateTask(ctx, id, in)
	if err != nil {
		return a.sessionError(err)
	}
	fmt.Fprintln(a.out, "Updated", formatTask(*t))
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	if err := a.api.DeleteTask(ctx, id); err != nil {
		return a.sessionError(err)
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

// sessionError drops the local session once the server stops accepting
// the token, typically because it expired.
func (a *App) sessionError(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.api.Logout()
		a.email = ""
		return errors.New("session expired, please login again")
	}
	if errors.Is(err, api.ErrNotFound) {
		return errors.New("no such task")
	}
	return err
}

func formatTask(t api.Task) string {
	mark := " "
	if t.Done {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s  %s", mark, t.ID, t.Title)
}
