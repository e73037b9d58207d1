package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

var errEmptyCredentials = errors.New("email and password are required")

// Login prompts for credentials and hands them to the session store.
//
// A rejected login prints a generic failure message; the reason is only in
// the log. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if strings.TrimSpace(email) == "" || len(password) == 0 {
		fmt.Fprintln(a.out, "Email and password are required")
		return errEmptyCredentials
	}

	if !a.session.Login(ctx, email, string(password)) {
		fmt.Fprintln(a.out, "Login unsuccessful")
		return nil
	}

	fmt.Fprintln(a.out, welcomeLine(a.session.User()))
	return nil
}

// welcomeLine greets u. u is nil when a logout raced the login.
func welcomeLine(u *models.User) string {
	if u == nil {
		return "Session ended"
	}
	return "Welcome, " + displayName(u.Name, u.Email)
}

// Logout ends the session and removes it from both storage scopes.
func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints the logged-in user with roles, permissions and the tenant
// found in the token.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}

	tenant, ok := a.session.TenantID(ctx)
	if !ok {
		tenant = "-"
	}

	w := a.out
	fmt.Fprintf(w, "ID:          %s\n", u.ID)
	fmt.Fprintf(w, "Name:        %s\n", orDash(u.Name))
	fmt.Fprintf(w, "Email:       %s\n", u.Email)
	fmt.Fprintf(w, "Active:      %t\n", u.Active)
	fmt.Fprintf(w, "Roles:       %s\n", joinOrDash(u.Roles))
	fmt.Fprintf(w, "Permissions: %s\n", joinOrDash(u.Permissions))
	fmt.Fprintf(w, "Tenant:      %s\n", tenant)
	printTimestamps(w, u.CreatedAt, u.UpdatedAt)

	if tr, du, err := a.session.StoredKeys(ctx); err != nil {
		a.log.Warn(ctx, "failed to list stored session keys", "error", err)
	} else {
		fmt.Fprintf(w, "Stored:      %s (transient); %s (durable)\n", joinOrDash(tr), joinOrDash(du))
	}
	a.printClaims(ctx, w)
	return nil
}

// printClaims dumps the unverified token payload, keys sorted.
func (a *App) printClaims(ctx context.Context, w io.Writer) {
	if a.claims == nil {
		return
	}
	token, err := a.session.Token()
	if err != nil {
		return
	}
	payload, err := a.claims.Payload(token)
	if err != nil {
		a.log.Debug(ctx, "token payload unreadable", "error", err)
		return
	}

	fmt.Fprintln(w, "Claims (unverified):")
	for _, k := range slices.Sorted(maps.Keys(payload)) {
		fmt.Fprintf(w, "  %s: %v\n", k, payload[k])
	}
}

func printTimestamps(w io.Writer, created, updated string) {
	if created != "" {
		fmt.Fprintf(w, "Created:     %s\n", created)
	}
	if updated != "" {
		fmt.Fprintf(w, "Updated:     %s\n", updated)
	}
}

func displayName(name, email string) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return email
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func joinOrDash(v []string) string {
	if len(v) == 0 {
		return "-"
	}
	return strings.Join(v, ", ")
}
