package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/plasticoslc/console/internal/client/client"
	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/client/session"
	"github.com/plasticoslc/console/internal/common"
)

// maxColumns keeps wide records readable in a terminal.
const maxColumns = 6

// List prints the records of a resource: list <resource> [filter...].
func (a *App) List(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: list <%s> [filter]\n", resourceNames())
		return nil
	}

	resource, err := models.ParseResource(args[0])
	if err != nil {
		fmt.Fprintln(a.out, err)
		return err
	}
	query := strings.Join(args[1:], " ")

	records, err := a.records.List(ctx, resource, query)
	if err != nil {
		a.reportError(ctx, "list failed", err)
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No records")
		return nil
	}
	printRecords(a, records)
	fmt.Fprintf(a.out, "%d %s\n", len(records), resource)
	return nil
}

// Download saves a generated report: download <reportID>.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: download <reportID>")
		return nil
	}

	path, err := a.reports.Download(ctx, args[0])
	if err != nil {
		a.reportError(ctx, "download failed", err)
		return err
	}
	fmt.Fprintf(a.out, "Saved to %s\n", path)
	return nil
}

func (a *App) reportError(ctx context.Context, msg string, err error) {
	a.log.Warn(ctx, msg, "error", err)

	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		fmt.Fprintln(a.out, "Please login first")
	case errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(a.out, "Session expired, please login again")
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Not found")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
}

func printRecords(a *App, records []models.Record) {
	cols := columns(records)

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(cols, "\t")))
	for _, r := range records {
		vals := make([]string, len(cols))
		for i, c := range cols {
			vals[i] = cell(r[c])
		}
		fmt.Fprintln(tw, strings.Join(vals, "\t"))
	}
	_ = tw.Flush()
}

// columns returns the field names of the first record, id first, capped
// at maxColumns.
func columns(records []models.Record) []string {
	cols := records[0].Keys()
	if len(cols) > maxColumns {
		cols = cols[:maxColumns]
	}
	return cols
}

func cell(v any) string {
	if v == nil {
		return "-"
	}
	s := fmt.Sprint(v)
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	return s
}

func resourceNames() string {
	names := make([]string, len(models.Resources))
	for i, r := range models.Resources {
		names[i] = string(r)
	}
	return strings.Join(names, "|")
}
