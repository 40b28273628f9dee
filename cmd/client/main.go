// Command client is a small terminal client for the fintrack backend. It
// drives the same session lifecycle as the web client: login persists a token
// locally, protected calls attach it, and expiry or server rejection clears it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	clientapi "github.com/fintrack/fintrack/internal/client/api"
	"github.com/fintrack/fintrack/internal/client/guard"
	"github.com/fintrack/fintrack/internal/client/session"
)

func main() {
	var (
		server   = flag.String("server", "http://localhost:8080", "backend base URL")
		email    = flag.String("email", "", "account email")
		name     = flag.String("name", "", "display name (register only)")
		password = flag.String("password", "", "account password")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: client [flags] register|login|whoami|current|logout\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(flag.Arg(0), *server, *email, *name, *password); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(command, server, email, name, password string) error {
	tokenPath, err := session.DefaultTokenPath()
	if err != nil {
		return err
	}

	sess := session.NewManager(session.NewFileStorage(tokenPath),
		session.WithLogoutHook(func() {
			fmt.Println("session expired, please log in again")
		}),
	)
	// One-shot startup check, the terminal equivalent of the web client's
	// mount-time effect.
	sess.Restore()

	client := clientapi.New(server, sess)
	ctx := context.Background()

	switch command {
	case "register":
		user, err := client.Register(ctx, email, name, password)
		if err != nil {
			return err
		}
		fmt.Printf("registered %s (id %s)\n", user.Email, user.ID)
		return nil

	case "login":
		if err := client.Login(ctx, email, password); err != nil {
			return err
		}
		fmt.Printf("logged in as %s\n", sess.Claims().Email)
		return nil

	case "whoami":
		// Local decode only, no network round-trip.
		claims := sess.Claims()
		if claims == nil {
			fmt.Println("not logged in")
			return nil
		}
		fmt.Printf("%s (%s), session expires %s\n",
			claims.Name, claims.Email, claims.ExpiresAt.Time.Local())
		return nil

	case "current":
		g := guard.New(sess, func(route string) {
			fmt.Printf("not authenticated, go to %s\n", route)
		})
		if !g.CanEnter("/dashboard") {
			return nil
		}
		current, err := client.Current(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("server says: %s (id %s)\n", current.Email, current.ID)
		return nil

	case "logout":
		sess.ClearSession()
		fmt.Println("logged out")
		return nil

	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
