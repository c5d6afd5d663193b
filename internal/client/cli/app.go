// Package cli is the interactive YesList terminal client: register, log in
// and manage your tasks from a small REPL.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/yeslist/internal/client/api"
	"github.com/dmitrijs2005/yeslist/internal/client/config"
)

// taskAPI is the part of *api.Client the commands use.
type taskAPI interface {
	LoggedIn() bool
	Logout()
	Health(ctx context.Context) error
	Register(ctx context.Context, cred api.Credentials) (string, error)
	Login(ctx context.Context, cred api.Credentials) (*api.Session, error)
	ListTasks(ctx context.Context) ([]api.Task, error)
	GetTask(ctx context.Context, id string) (*api.Task, error)
	CreateTask(ctx context.Context, in api.TaskInput) (*api.Task, error)
	UpdateTask(ctx context.Context, id string, in api.TaskInput) (*api.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

type App struct {
	config *config.Config
	api    taskAPI
	reader *bufio.Reader
	out    io.Writer
	email  string
}

func NewApp(c *config.Config) (*App, error) {
	client, err := api.NewClient(c.ServerURL, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &App{config: c, api: client, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.email == "" {
		return "(anonymous)"
	}
	return fmt.Sprintf("(%s)", a.email)
}

// Run checks that the server answers and starts the REPL. It returns when
// the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to YesList CLI (type 'help' for commands)")

	if err := a.api.Health(ctx); err != nil {
		fmt.Fprintf(a.out, "Warning: %s is not reachable: %v\n", a.config.ServerURL, err)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
