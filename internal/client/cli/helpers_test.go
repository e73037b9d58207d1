package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/plasticoslc/console/internal/client/claims"
	"github.com/plasticoslc/console/internal/client/models"
	"github.com/plasticoslc/console/internal/client/repositories/metadata"
	"github.com/plasticoslc/console/internal/client/session"
	"github.com/plasticoslc/console/internal/logging"
)

// ------------ fakes ------------

type fakeAPI struct {
	loginResp *models.LoginResponse
	loginErr  error
	lastEmail string
	lastPass  string

	pingErr error

	listRet []models.Record
	listErr error
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*models.LoginResponse, error) {
	f.lastEmail, f.lastPass = email, password
	return f.loginResp, f.loginErr
}

func (f *fakeAPI) Ping(context.Context) error { return f.pingErr }

func (f *fakeAPI) List(context.Context, string, models.Resource) ([]models.Record, error) {
	return f.listRet, f.listErr
}

func (f *fakeAPI) DownloadReport(context.Context, string, string) ([]byte, string, error) {
	return nil, "", errors.New("not used")
}

type fakeRecords struct {
	resource models.Resource
	query    string
	ret      []models.Record
	err      error
}

func (f *fakeRecords) List(_ context.Context, r models.Resource, q string) ([]models.Record, error) {
	f.resource, f.query = r, q
	return f.ret, f.err
}

type fakeReports struct {
	id   string
	path string
	err  error
}

func (f *fakeReports) Download(_ context.Context, id string) (string, error) {
	f.id = id
	return f.path, f.err
}

// ------------ helpers ------------

const testToken = "eyJhbGciOiJIUzI1NiJ9.eyJ0ZW5hbnRJZCI6InQxIiwic3ViIjoidTEifQ.sig"

func testUser() *models.User {
	return &models.User{
		ID:          "u1",
		Name:        "Ana Ruiz",
		Email:       "ana@plasticos.lc",
		Active:      true,
		Roles:       []string{"admin"},
		Permissions: []string{"invoices:read"},
	}
}

func readerFromLines(lines ...string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

// newTestApp builds an App over in-memory storage. Output goes to the
// returned buffer.
func newTestApp(t *testing.T, api *fakeAPI) (*App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	decoder := claims.NewDecoder(nil)
	store := session.NewStore(api, metadata.NewMemoryRepository(), metadata.NewMemoryRepository(), decoder, logging.Nop{})
	store.Resume(context.Background())

	return &App{
		log:     logging.Nop{},
		api:     api,
		session: store,
		claims:  decoder,
		records: &fakeRecords{},
		reports: &fakeReports{},
		reader:  readerFromLines(),
		out:     out,
	}, out
}

func loggedInApp(t *testing.T) (*App, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApp(t, &fakeAPI{loginResp: &models.LoginResponse{Token: testToken, User: testUser()}})
	if !a.session.Login(context.Background(), "ana@plasticos.lc", "pw") {
		t.Fatal("login failed")
	}
	return a, out
}

func stubInputs(t *testing.T, email string, password []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return email, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return password, nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func silencePrintln(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	origLn, origP := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&buf, a...) }
	printFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() {
		printlnFn = origLn
		printFn = origP
	})
	return &buf
}
