// Command beartracks is the local client of the lost and found registry. It
// works on the same store as the server and remembers who is logged in on
// this machine.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/beartracks/config"
	"github.com/yeremiapane/beartracks/services"
	"github.com/yeremiapane/beartracks/session"
	"github.com/yeremiapane/beartracks/store"
	"github.com/yeremiapane/beartracks/utils"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

type command func(e *cliEnv, args []string) error

var commands = map[string]command{
	"signup":        runSignup,
	"login":         runLogin,
	"logout":        runLogout,
	"whoami":        runWhoami,
	"items":         runItems,
	"submit":        runSubmit,
	"claim":         runClaim,
	"claims":        runClaims,
	"notifications": runNotifications,
	"approve":       runApprove,
	"deny":          runDeny,
	"export":        runExport,
	"import":        runImport,
}

// errUsage marks a bad invocation. The flag package has already printed why.
var errUsage = errors.New("usage")

// Run dispatches args[1] and returns the process exit code: 0 on success,
// 1 when the command failed, 2 on bad usage.
func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 2 {
		printUsage(stderr)
		return 2
	}

	name := args[1]
	if name == "help" || name == "--help" || name == "-h" {
		printUsage(stdout)
		return 0
	}
	cmd, ok := commands[name]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		printUsage(stderr)
		return 2
	}

	utils.SetLogOutput(stderr)
	utils.InfoLogger.SetLevel(logrus.WarnLevel)

	e, err := openEnv(stdout, stderr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	defer e.close()

	if err := cmd(e, args[2:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `Usage: beartracks <command> [flags]

Account:
  signup         create an account and log in
  login          log in on this machine
  logout         forget the logged in user
  whoami         show the logged in user

Items and claims:
  items          browse available items (admins: --all)
  submit         report a found item
  claim          claim an item
  claims         your claims (admins: pending claims)
  notifications  list notifications, --read-all to mark them read

Admin:
  approve        approve a claim (--claim) or an item (--item)
  deny           deny a claim
  export         write every collection as JSON
  import         replace every collection from JSON

Run "beartracks <command> -h" for the flags of a command.
`)
}

type cliEnv struct {
	stdout  io.Writer
	stderr  io.Writer
	store   store.Store
	svc     *services.Services
	session *session.Session
	closeDB func() error
}

func (e *cliEnv) close() {
	if err := e.closeDB(); err != nil {
		utils.ErrorLogger.Printf("Error closing database: %v", err)
	}
}

func openEnv(stdout, stderr io.Writer) (*cliEnv, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	st, err := store.NewGormStore(db)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	svc := services.New(st, nil)
	if cfg.AdminEmail != "" {
		if _, _, err := svc.Users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("bootstrap admin account: %w", err)
		}
	}

	return &cliEnv{
		stdout:  stdout,
		stderr:  stderr,
		store:   st,
		svc:     svc,
		session: session.New(st),
		closeDB: sqlDB.Close,
	}, nil
}
