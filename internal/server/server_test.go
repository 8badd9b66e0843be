package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/simple-ledger/internal/ledger"
	"github.com/sheikh-saqib/simple-ledger/internal/models/events"
	"github.com/sheikh-saqib/simple-ledger/internal/storage/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []any
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) published() []any {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]any(nil), p.events...)
}

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *ledger.Ledger) {
	t.Helper()
	l := ledger.New()
	s := NewServer(l, memory.NewMemorySnapshotStore(), opts...)
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)
	return ts, l
}

// doJSON sends body as JSON, checks the status code and decodes the reply into out.
func doJSON(t *testing.T, c *http.Client, method, url, body string, wantCode int, out any) {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantCode, resp.StatusCode, "%s %s", method, url)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestHTTPFlow(t *testing.T) {
	pub := &recordingPublisher{}
	ts, _ := newTestServer(t, WithPublisher(pub))
	cli := ts.Client()

	var a accountResponse
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Alice","initial_balance":"100.00"}`, 201, &a)
	assert.Equal(t, accountResponse{AccountID: "1", OwnerName: "Alice", Balance: "100.00"}, a)
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"2","owner_name":"Bob","initial_balance":50}`, 201, nil)

	var tr transferResponse
	doJSON(t, cli, "POST", ts.URL+"/transfers", `{"from_account":"1","to_account":"2","amount":"30.00"}`, 200, &tr)
	assert.Equal(t, "70.00", tr.From.Balance)
	assert.Equal(t, "80.00", tr.To.Balance)

	var e errorResponse
	doJSON(t, cli, "POST", ts.URL+"/transfers", `{"from_account":"1","to_account":"2","amount":"1000.00"}`, 409, &e)
	assert.Equal(t, "insufficient_funds", e.Kind)
	doJSON(t, cli, "POST", ts.URL+"/transfers", `{"from_account":"1","to_account":"1","amount":"10.00"}`, 400, &e)
	assert.Equal(t, "same_account", e.Kind)

	doJSON(t, cli, "POST", ts.URL+"/accounts/2/deposit", `{"amount":"0.25"}`, 200, &a)
	assert.Equal(t, "80.25", a.Balance)
	doJSON(t, cli, "POST", ts.URL+"/accounts/2/withdraw", `{"amount":"80.25"}`, 200, &a)
	assert.Equal(t, "0.00", a.Balance)

	doJSON(t, cli, "GET", ts.URL+"/accounts/1", "", 200, &a)
	assert.Equal(t, "70.00", a.Balance)

	var list []accountResponse
	doJSON(t, cli, "GET", ts.URL+"/accounts", "", 200, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "1", list[0].AccountID)

	published := pub.published()
	require.Len(t, published, 5)
	assert.IsType(t, events.AccountOpened{}, published[0])
	done, ok := published[2].(events.TransferCompleted)
	require.True(t, ok)
	assert.Equal(t, "2", done.ToAccount)
	withdrawn, ok := published[4].(events.BalanceChanged)
	require.True(t, ok)
	assert.True(t, withdrawn.Delta.IsNegative())
}

func TestErrorMapping(t *testing.T) {
	ts, _ := newTestServer(t)
	cli := ts.Client()

	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Alice"}`, 201, nil)

	var e errorResponse
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Again"}`, 409, &e)
	assert.Equal(t, "duplicate_id", e.Kind)
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"x","owner_name":"Owner","initial_balance":"-5.00"}`, 400, &e)
	assert.Equal(t, "negative_initial_balance", e.Kind)
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"y","owner_name":"  "}`, 400, &e)
	assert.Equal(t, "invalid_argument", e.Kind)
	doJSON(t, cli, "GET", ts.URL+"/accounts/x", "", 404, &e)
	assert.Equal(t, "not_found", e.Kind)

	doJSON(t, cli, "POST", ts.URL+"/accounts/1/deposit", `{"amount":"0"}`, 400, &e)
	assert.Equal(t, "invalid_amount", e.Kind)
	doJSON(t, cli, "POST", ts.URL+"/accounts/404/deposit", `{"amount":"1"}`, 404, &e)
	doJSON(t, cli, "POST", ts.URL+"/accounts/1/withdraw", `{"amount":"1"}`, 409, &e)
	assert.Equal(t, "insufficient_funds", e.Kind)
}

func TestMalformedAmountsNeverReachLedger(t *testing.T) {
	ts, l := newTestServer(t)
	cli := ts.Client()
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Alice","initial_balance":"5"}`, 201, nil)

	var e errorResponse
	for _, body := range []string{`{"amount":"abc"}`, `{"amount":""}`, `{}`, `{"amount":null}`, `not json`} {
		doJSON(t, cli, "POST", ts.URL+"/accounts/1/deposit", body, 400, &e)
		assert.Equal(t, "bad_request", e.Kind, body)
	}
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"2","owner_name":"Bob","initial_balance":"1,5"}`, 400, nil)

	a, _ := l.GetAccount("1")
	assert.Equal(t, "5", a.Balance.String())
	assert.Equal(t, 1, l.Len())
}

func TestCreateAssignsIDWhenMissing(t *testing.T) {
	ts, l := newTestServer(t)
	var a accountResponse
	doJSON(t, ts.Client(), "POST", ts.URL+"/accounts", `{"owner_name":"Carol"}`, 201, &a)
	assert.NotEmpty(t, a.AccountID)
	_, ok := l.GetAccount(a.AccountID)
	assert.True(t, ok)
}

func TestIDsAreTrimmedEverywhere(t *testing.T) {
	ts, _ := newTestServer(t)
	cli := ts.Client()

	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":" 1 ","owner_name":"Alice","initial_balance":"10"}`, 201, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"2","owner_name":"Bob"}`, 201, nil)

	var a accountResponse
	doJSON(t, cli, "GET", ts.URL+"/accounts/%201", "", 200, &a)
	assert.Equal(t, "1", a.AccountID)
	doJSON(t, cli, "POST", ts.URL+"/accounts/1%20/deposit", `{"amount":"1"}`, 200, &a)
	assert.Equal(t, "11.00", a.Balance)
	doJSON(t, cli, "POST", ts.URL+"/accounts/%201/withdraw", `{"amount":"2"}`, 200, &a)
	assert.Equal(t, "9.00", a.Balance)

	var tr transferResponse
	doJSON(t, cli, "POST", ts.URL+"/transfers", `{"from_account":" 1","to_account":"2 ","amount":"4"}`, 200, &tr)
	assert.Equal(t, "5.00", tr.From.Balance)
	assert.Equal(t, "4.00", tr.To.Balance)
}

func TestSnapshotEndpoints(t *testing.T) {
	ts, l := newTestServer(t)
	cli := ts.Client()

	var e errorResponse
	doJSON(t, cli, "POST", ts.URL+"/snapshot/load", "", 404, &e)
	assert.Equal(t, "not_found", e.Kind)

	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Alice","initial_balance":"10"}`, 201, nil)
	doJSON(t, cli, "POST", ts.URL+"/snapshot/save", "", 200, nil)
	doJSON(t, cli, "POST", ts.URL+"/accounts", `{"account_id":"2","owner_name":"Bob"}`, 201, nil)
	require.Equal(t, 2, l.Len())

	doJSON(t, cli, "POST", ts.URL+"/snapshot/load", "", 200, nil)
	assert.Equal(t, 1, l.Len())
	_, ok := l.GetAccount("2")
	assert.False(t, ok)
}

func TestMethodNotAllowedAndHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	doJSON(t, ts.Client(), "DELETE", ts.URL+"/accounts", "", 405, nil)
	doJSON(t, ts.Client(), "GET", ts.URL+"/transfers", "", 405, nil)

	var h map[string]any
	doJSON(t, ts.Client(), "GET", ts.URL+"/health", "", 200, &h)
	assert.Equal(t, "ok", h["status"])
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	ts, l := newTestServer(t, WithPublisher(pub))
	doJSON(t, ts.Client(), "POST", ts.URL+"/accounts", `{"account_id":"1","owner_name":"Alice"}`, 201, nil)
	assert.Equal(t, 1, l.Len())
	assert.Len(t, pub.published(), 1)
}

func TestStatusForCoversEveryKind(t *testing.T) {
	for k := ledger.KindInternal; k <= ledger.KindParse; k++ {
		code := statusFor(k)
		assert.True(t, code >= 400 && code < 600, k.String())
	}
	assert.Equal(t, http.StatusInternalServerError, statusFor(ledger.KindIO))
	assert.True(t, strings.HasPrefix(ledger.KindParse.String(), "parse"))
}
