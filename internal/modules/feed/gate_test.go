package feed

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gateTestSecret = "test-secret"

func requestWithCookies(t *testing.T, recorders ...*httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, rec := range recorders {
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
	}
	return req
}

func TestGateFreshSessionIsUnconfirmed(t *testing.T) {
	g := NewGate(gateTestSecret)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, GateUnconfirmed, g.State(req))
	assert.False(t, g.Participating(req))
}

func TestGateConfirmEnablesParticipation(t *testing.T) {
	g := NewGate(gateTestSecret)

	rec := httptest.NewRecorder()
	require.NoError(t, g.Confirm(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	req := requestWithCookies(t, rec)
	assert.Equal(t, GateParticipating, g.State(req))
	assert.True(t, g.Participating(req))
}

func TestGateConfirmedDeviceStillNeedsSessionFlag(t *testing.T) {
	g := NewGate(gateTestSecret)

	rec := httptest.NewRecorder()
	require.NoError(t, g.Confirm(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	// carry only the device cookie forward, as a new browser session would
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == deviceCookieName {
			req.AddCookie(c)
		}
	}
	assert.Equal(t, GateUnconfirmed, g.State(req))
}

func TestGateExploreOnlyIsTerminal(t *testing.T) {
	g := NewGate(gateTestSecret)

	rec := httptest.NewRecorder()
	require.NoError(t, g.Explore(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	req := requestWithCookies(t, rec)
	assert.Equal(t, GateExploreOnly, g.State(req))

	rec2 := httptest.NewRecorder()
	err := g.Confirm(rec2, requestWithCookies(t, rec))
	assert.ErrorIs(t, err, ErrExploreOnly)
}

func TestGateExploreDoesNotTouchConfirmed(t *testing.T) {
	g := NewGate(gateTestSecret)

	rec := httptest.NewRecorder()
	require.NoError(t, g.Explore(rec, httptest.NewRequest(http.MethodPost, "/", nil)))

	// explore_only wins even if a stale confirmed flag is present
	req := requestWithCookies(t, rec)
	assert.Equal(t, GateExploreOnly, g.State(req))
	assert.False(t, g.Participating(req))
}
