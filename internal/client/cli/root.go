package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/plasticoslc/console/internal/client/session"
)

// sessionWatch follows the store through a subscription. The store notifies
// before Login and Logout return, so draining without blocking yields the
// state after the last command, including logouts forced by the services.
type sessionWatch struct {
	ch   <-chan session.State
	last session.State
}

func newSessionWatch(ch <-chan session.State) *sessionWatch {
	w := &sessionWatch{ch: ch}
	w.current()
	return w
}

func (w *sessionWatch) current() session.State {
	for {
		select {
		case st, ok := <-w.ch:
			if !ok {
				return w.last
			}
			w.last = st
		default:
			return w.last
		}
	}
}

// getStatus renders the prompt status, e.g. "(ana@plasticos.lc online)".
func (a *App) getStatus(st session.State) string {
	s := ""
	switch {
	case st.User != nil:
		s = st.User.Email + " "
	case st.IsLoading:
		s = "loading "
	}
	if m := a.Mode(); m != "" {
		s = s + string(m)
	}
	if s = strings.TrimSpace(s); s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root greets the user and runs the REPL on the app's input.
func (a *App) Root(ctx context.Context) {
	states, unsubscribe := a.session.Subscribe()
	defer unsubscribe()
	watch := newSessionWatch(states)

	printlnFn("Welcome to PlasticosLC console (type 'help' for commands)")
	if u := watch.current().User; u != nil {
		printlnFn(fmt.Sprintf("Session resumed for %s", u.Email))
	}
	runREPL(ctx, a, func() string { return a.getStatus(watch.current()) }, a.reader)
}
