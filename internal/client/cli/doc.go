// Package cli provides the interactive PlasticosLC admin console.
//
// It wires configuration, session storage, the API client and an
// interactive REPL. Typical flow: resume the persisted session, start a
// background connectivity watcher, and execute user commands.
//
// Key features:
//   - Login / Logout / Whoami
//   - List invoices, products, users, collections and reports with a
//     case-insensitive filter
//   - Download generated reports
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
