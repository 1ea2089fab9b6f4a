// Command nn is a CLI client for the NoteNest journaling service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/notenest/notenest/internal/api"
	"github.com/notenest/notenest/internal/config"
	"github.com/notenest/notenest/internal/credstore"
	"github.com/notenest/notenest/internal/errs"
	"github.com/notenest/notenest/internal/journal"
	"github.com/notenest/notenest/internal/session"
)

func usage() {
	fmt.Fprintf(os.Stderr, `nn CLI
Usage:
  nn [-api URL] [-debug] <cmd> [args]

Commands:
  version
  register   -u <username> -p <password>
  login      -u <username> -p <password>           (saves tokens)
  logout
  whoami
  stats
  list       [-page N] [-limit N]
  get        -id <id>
  add        -title <t> -category <c> [-content <text> | -file <path>] [-date YYYY-MM-DD]
  edit       -id <id> [-title <t>] [-content <text>] [-category <c>]
  rm         -id <id>
  profile    -u <username> [-p <password>]
`)
	os.Exit(2)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

// ---- utils ----

// readAll reads a file, or stdin when p is "-".
func readAll(p string) ([]byte, error) {
	if p == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(p)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// logNavigator records where the app would send the user; in a terminal the
// destinations only matter for diagnostics.
type logNavigator struct{ log *zap.Logger }

func (n logNavigator) NavigateTo(view string) {
	n.log.Debug("navigate", zap.String("view", view))
}

// app bundles the constructed core for command handlers.
type app struct {
	sessions *session.Manager
	journals *journal.Client
}

// protected resolves the session first, then runs view through the guard so
// unauthenticated access never reaches the API.
func (a *app) protected(ctx context.Context, view session.View) {
	a.sessions.Resolve()
	guard := session.Guard{Sessions: a.sessions}
	if err := guard.Wrap(view)(ctx); err != nil {
		if errors.Is(err, errs.ErrUnauthorized) || errors.Is(err, errs.ErrMissingCredential) {
			fmt.Fprintln(os.Stderr, "not signed in; run 'nn login -u <username> -p <password>'")
			os.Exit(1)
		}
		fail(err)
	}
}

// ---- main ----

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the configured API host.
func main() {
	apiBase := flag.String("api", config.APIBase(), "NoteNest API base URL (or NOTENEST_API env)")
	debug := flag.Bool("debug", false, "debug logging")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}
	cmd := flag.Arg(0)
	args := flag.Args()[1:]

	logger := zap.NewNop()
	if *debug {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	store := credstore.NewFileStore(logger)
	gw := api.NewClient(*apiBase, store, logger)
	a := &app{
		sessions: session.NewManager(store, gw, logNavigator{logger}, logger),
		journals: journal.NewClient(gw, logger),
	}

	switch cmd {

	case "version":
		fmt.Printf("nn %s (%s)\n", version, buildDate)

	case "register":
		fs := flag.NewFlagSet("register", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}
		if err := a.sessions.Register(ctx, *u, *p); err != nil {
			fail(err)
		}
		fmt.Println("registered; run 'nn login' to sign in")

	case "login":
		fs := flag.NewFlagSet("login", flag.ExitOnError)
		u := fs.String("u", "", "username")
		p := fs.String("p", "", "password")
		_ = fs.Parse(args)
		if *u == "" || *p == "" {
			fmt.Fprintln(os.Stderr, "need -u and -p")
			os.Exit(1)
		}
		if err := a.sessions.LoginUser(ctx, *u, *p); err != nil {
			fail(err)
		}
		fmt.Println("ok")

	case "logout":
		a.sessions.LogoutUser()
		fmt.Println("ok")

	case "whoami":
		a.protected(ctx, func(context.Context) error {
			st := a.sessions.State()
			printJSON(map[string]string{
				"id":       st.User.UserID,
				"username": st.User.Username,
			})
			return nil
		})

	case "stats":
		cmdStats(ctx, a)

	case "list":
		cmdList(ctx, a, args)

	case "get":
		cmdGet(ctx, a, args)

	case "add":
		cmdAdd(ctx, a, args)

	case "edit":
		cmdEdit(ctx, a, args)

	case "rm":
		cmdRm(ctx, a, args)

	case "profile":
		cmdProfile(ctx, a, args)

	default:
		usage()
	}
}
