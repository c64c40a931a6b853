package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/upb/lms-dashboard/app"
	"github.com/upb/lms-dashboard/config"
	"github.com/upb/lms-dashboard/guard"
	"github.com/upb/lms-dashboard/routes"
	"github.com/upb/lms-dashboard/services"
	"github.com/upb/lms-dashboard/session"
	"go.uber.org/zap"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errNotSignedIn  = errors.New("not signed in; run `dashboard login` first")
	errUnauthorized = errors.New("your role cannot use this command")
)

type commandLine struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  serve                              - serve the dashboard")
	fmt.Fprintln(cli.out, "  login -identifier USERNAME|EMAIL   - sign in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                             - sign out")
	fmt.Fprintln(cli.out, "  whoami                             - show the current session")
	fmt.Fprintln(cli.out, "  courses [-page N] [-limit N]       - list courses")
	fmt.Fprintln(cli.out, "  users [-search TEXT]               - list users (admin)")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := cli.flagSet("login")
	loginIdentifier := loginCmd.String("identifier", "", "The username or email. The password will be prompted next.")

	coursesCmd := cli.flagSet("courses")
	coursesPage := coursesCmd.Int("page", 1, "Page to show")
	coursesLimit := coursesCmd.Int("limit", 8, "Courses per page")

	usersCmd := cli.flagSet("users")
	usersSearch := usersCmd.String("search", "", "Filter by name, username or email")

	switch args[1] {
	case "serve":
		return cli.serve(ctx)

	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *loginIdentifier == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *loginIdentifier, string(pwd))

	case "logout":
		return cli.logout(ctx)

	case "whoami":
		return cli.whoami(ctx)

	case "courses":
		if err := coursesCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.courses(ctx, *coursesPage, *coursesLimit)

	case "users":
		if err := usersCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.users(ctx, *usersSearch)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// dependencies builds the application for a single command. A rejected
// credential prints one notice instead of redirecting.
func (cli *commandLine) dependencies(ctx context.Context) (*app.Dependencies, error) {
	return app.NewDependencies(ctx, cli.cfg, cli.logger,
		app.WithNavigator(&terminalNavigator{out: cli.out}))
}

// authorize applies guards to the current session
func authorize(deps *app.Dependencies, guards ...guard.Guard) (*session.Identity, error) {
	snap := deps.Sessions.Snapshot()
	switch guard.Chain(snap, guards...) {
	case guard.Allow:
		return snap.Identity, nil
	case guard.RedirectUnauthorized:
		return nil, errUnauthorized
	default:
		return nil, errNotSignedIn
	}
}

func (cli *commandLine) serve(ctx context.Context) error {
	deps, err := app.NewDependencies(ctx, cli.cfg, cli.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() { _ = deps.Close(context.Background()) }()

	srv := &http.Server{
		Addr:              cli.cfg.Server.Address(),
		Handler:           routes.SetupRoutes(deps),
		ReadTimeout:       cli.cfg.Server.ReadTimeout,
		WriteTimeout:      cli.cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cli.logger.Info("dashboard listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cli.cfg.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	cli.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cli.cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (cli *commandLine) login(ctx context.Context, identifier, password string) error {
	deps, err := cli.dependencies(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	identity, err := deps.Sessions.Login(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, session.ErrLoginRejected) && !services.IsExternalError(err) && !errors.Is(err, session.ErrNotPersisted) {
			return errors.New("login failed: invalid identifier or password")
		}
		return err
	}
	fmt.Fprintf(cli.out, "Signed in as %s (%s).\n", identity.DisplayName(), identity.Role)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	deps, err := cli.dependencies(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	deps.Sessions.Logout(ctx)
	fmt.Fprintln(cli.out, "Signed out.")
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	deps, err := cli.dependencies(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	identity, err := authorize(deps, guard.Authenticated())
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Subject\t%s\n", identity.Subject)
	fmt.Fprintf(tw, "ID\t%s\n", identity.ID)
	fmt.Fprintf(tw, "Role\t%s\n", identity.Role)
	fmt.Fprintf(tw, "Expires\t%s\n", identity.ExpiresAt.Local().Format(time.RFC1123))
	fmt.Fprintf(tw, "Profile\t%s\n", cli.cfg.Session.Profile)
	return tw.Flush()
}

func (cli *commandLine) courses(ctx context.Context, page, limit int) error {
	deps, err := cli.dependencies(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	if _, err := authorize(deps, guard.Authenticated()); err != nil {
		return err
	}

	result, err := deps.Courses.List(ctx, page, limit)
	if err != nil {
		return err
	}
	if len(result.Courses) == 0 {
		fmt.Fprintln(cli.out, "No courses.")
		return nil
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTEACHERS\tSTUDENTS\tARCHIVED")
	for _, c := range result.Courses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\n",
			c.ID, c.Name, strings.Join(c.TeacherNames(), ", "), len(c.Students), c.Archived)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if result.TotalPages > 0 {
		fmt.Fprintf(cli.out, "Page %d of %d\n", max(page, 1), result.TotalPages)
	}
	return nil
}

func (cli *commandLine) users(ctx context.Context, search string) error {
	deps, err := cli.dependencies(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = deps.Close(ctx) }()

	if _, err := authorize(deps, guard.Authenticated(), guard.RequireRole(session.RoleAdmin)); err != nil {
		return err
	}

	users, err := deps.Users.List(ctx, search)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tNAME\tEMAIL\tROLE\tACTIVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.FullName(), u.Email, u.Role, u.IsActive)
	}
	return tw.Flush()
}

// terminalNavigator tells the user to sign in again, once per process
type terminalNavigator struct {
	out  io.Writer
	once sync.Once
}

func (n *terminalNavigator) NavigateToLogin(context.Context) {
	n.once.Do(func() {
		fmt.Fprintln(n.out, "Your session has ended. Run `dashboard login` to sign in again.")
	})
}
