// Package client contains the console's API and storage building blocks.
//
// # Overview
//
// The package provides:
//  1. The Client interface: Login, Ping, List and DownloadReport against the
//     PlasticosLC REST API.
//  2. HTTPClient, the net/http implementation. Every request carries an
//     X-Request-ID and, when authenticated, an "Authorization: Bearer" header.
//     Requests are bounded by a client-wide timeout.
//  3. Storage bootstrap (InitDatabase, RunMigrations, OpenRepositories):
//     the durable scope on SQLite or Postgres with embedded goose
//     migrations. The transient scope defaults to an expiring table in the
//     same database; it can instead live in memory or in Redis.
//
// # Error Handling
//
// Failures are exposed as sentinel errors matched with errors.Is:
// ErrUnauthorized (401/403), ErrUnavailable (transport failures, 502/503/504),
// ErrUnexpectedStatus (any other non-2xx) and ErrInvalidResponse (a body that
// does not decode or validate).
package client
