package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/artefacto/internal/client/guard"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	report(ctx context.Context, err error)

	Open(ctx context.Context, path string) error
	Logout(ctx context.Context) error
	EditProfile(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	Bookmark(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) error
	Buy(ctx context.Context, id string) error
	Delete(ctx context.Context, kind, id string) error
}

// pageCommands map a command, optionally followed by an id, to a page.
var pageCommands = map[string]struct{ list, item string }{
	"home":       {list: guard.HomePath},
	"start":      {list: guard.StartPath},
	"welcome":    {list: guard.OnboardingPath},
	"login":      {list: guard.LoginPath},
	"register":   {list: guard.RegisterPath},
	"profile":    {list: "/profile"},
	"temples":    {list: "/temples", item: "/temples/:id"},
	"artifacts":  {list: "/artifacts", item: "/artifacts/:id"},
	"bookmarks":  {list: "/bookmarks"},
	"tickets":    {list: "/tickets", item: "/tickets/:id"},
	"my-tickets": {list: "/my-tickets", item: "/my-tickets/:id"},
	"scan":       {list: "/scan"},
}

// commandPath turns a navigation command into a page path; ok is false
// for anything that is not navigation.
func commandPath(cmd string, args []string) (string, bool) {
	switch cmd {
	case "go", "open":
		if len(args) == 0 {
			return "", false
		}
		return args[0], true

	case "admin":
		section := "temples"
		if len(args) > 0 {
			section = args[0]
		}
		return "/admin/" + section, true

	case "new":
		if len(args) == 0 {
			return "", false
		}
		return "/admin/" + args[0] + "s/create", true

	case "edit":
		if len(args) < 2 {
			return "", false
		}
		return guard.Path("/admin/"+args[0]+"s/:id/edit", args[1]), true
	}

	pc, ok := pageCommands[cmd]
	if !ok {
		return "", false
	}
	if len(args) > 0 && pc.item != "" {
		return guard.Path(pc.item, args[0]), true
	}
	return pc.list, true
}

// runREPL starts a simple read–eval–print loop for the Artefacto CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Navigation commands open a page through the
// route guard; the remaining commands act on the current session. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Anyone:
//	  - help                        - show available commands
//	  - login | register | welcome  - account pages
//	  - go <path>                   - open any page by path
//	  - exit | quit                 - leave the program
//
//	Signed in:
//	  - home | profile | scan | bookmarks
//	  - temples [id] | artifacts [id] | tickets [id] | my-tickets [id]
//	  - bookmark <id> | read <id>   - artifact reading state
//	  - buy <ticket id>             - purchase tickets
//	  - edit-profile | delete-account | logout
//
//	Administrators:
//	  - admin [temples|artifacts|tickets|transactions]
//	  - new <kind> | edit <kind> <id> | delete <kind> <id>
//
// Errors returned by command handlers are reported through a.report.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("artefacto %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if path, ok := commandPath(cmd, args); ok {
			if err := a.Open(ctx, path); err != nil {
				a.report(ctx, err)
			}
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn("Available commands: admin [temples|artifacts|tickets|transactions], new <kind>, edit <kind> <id>, delete <kind> <id>, temples, artifacts, tickets, profile, logout, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: home, temples [id], artifacts [id], bookmarks, bookmark <id>, read <id>, tickets [id], buy <id>, my-tickets [id], scan, profile, edit-profile, delete-account, logout, exit")
			default:
				printlnFn("Available commands: welcome, login, register, exit")
			}

		case "bookmark", "read", "buy":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "bookmark":
				cmdErr = a.Bookmark(ctx, args[0])
			case "read":
				cmdErr = a.MarkRead(ctx, args[0])
			default:
				cmdErr = a.Buy(ctx, args[0])
			}

		case "delete":
			if len(args) < 2 {
				printlnFn("Usage: delete <temple|artifact|ticket> <id>")
				continue
			}
			cmdErr = a.Delete(ctx, args[0], args[1])

		case "go", "open":
			printlnFn("Usage: go <path>")

		case "new", "edit":
			printlnFn("Usage: new <kind> | edit <kind> <id>")

		case "edit-profile":
			cmdErr = a.EditProfile(ctx)

		case "delete-account":
			cmdErr = a.DeleteAccount(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			a.report(ctx, cmdErr)
		}
	}
}
