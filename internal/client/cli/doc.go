// Package cli provides the interactive Artefacto command-line client.
//
// It wires configuration, the local session database, the REST client and
// the services, then runs a REPL. Every command names a page path; the
// navigator sends the path through the route guard before anything is
// shown, so a signed-out user asking for a protected page is taken to the
// login prompt first and returned afterwards.
//
// A background watcher signs the user out when the stored credential
// lapses. See App, StartExpiryWatcher and runREPL.
package cli
