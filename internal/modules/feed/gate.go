package feed

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
)

// GateState is the participation state of the current browser session.
type GateState string

const (
	GateUnconfirmed   GateState = "unconfirmed"
	GateParticipating GateState = "participating"
	GateExploreOnly   GateState = "explore_only"
)

const (
	deviceCookieName  = "eldrex-device"
	sessionCookieName = "eldrex-session"

	flagConfirmed     = "confirmed"
	flagExploreOnly   = "explore_only"
	flagSessionActive = "session_active"
)

// ErrExploreOnly rejects a confirm attempt from an explore-only
// session. There is no path back to participating within a session.
var ErrExploreOnly = errors.New("explore-only sessions cannot re-enter participation")

// Gate is the participation gate. It persists across two cookie
// scopes: a device-scoped cookie that survives browser restarts
// (confirmed, explore_only) and a session cookie that does not
// (session_active). Gate state never reaches the primary store.
type Gate struct {
	device  *sessions.CookieStore
	session *sessions.CookieStore
}

func NewGate(secret string) *Gate {
	device := sessions.NewCookieStore([]byte(secret))
	device.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	session := sessions.NewCookieStore([]byte(secret))
	session.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return &Gate{device: device, session: session}
}

// State reads the persisted flags and derives the gate state.
// Participating requires both the device-scoped confirmation and a
// live session flag, so a returning visitor re-confirms once per
// session. ExploreOnly wins over everything else.
func (g *Gate) State(r *http.Request) GateState {
	dev, _ := g.device.Get(r, deviceCookieName)
	if flag(dev.Values[flagExploreOnly]) {
		return GateExploreOnly
	}

	sess, _ := g.session.Get(r, sessionCookieName)
	if flag(dev.Values[flagConfirmed]) && flag(sess.Values[flagSessionActive]) {
		return GateParticipating
	}
	return GateUnconfirmed
}

// Confirm moves an unconfirmed session to participating, persisting
// both flags. Explore-only sessions are terminal and stay rejected.
func (g *Gate) Confirm(w http.ResponseWriter, r *http.Request) error {
	dev, _ := g.device.Get(r, deviceCookieName)
	if flag(dev.Values[flagExploreOnly]) {
		return ErrExploreOnly
	}

	dev.Values[flagConfirmed] = true
	if err := dev.Save(r, w); err != nil {
		return err
	}

	sess, _ := g.session.Get(r, sessionCookieName)
	sess.Values[flagSessionActive] = true
	return sess.Save(r, w)
}

// Explore marks the session explore-only. Only the device-scoped flag
// is written; confirmed is left untouched.
func (g *Gate) Explore(w http.ResponseWriter, r *http.Request) error {
	dev, _ := g.device.Get(r, deviceCookieName)
	dev.Values[flagExploreOnly] = true
	return dev.Save(r, w)
}

// Participating reports whether mutating feed actions are allowed.
func (g *Gate) Participating(r *http.Request) bool {
	return g.State(r) == GateParticipating
}

func flag(v interface{}) bool {
	b, _ := v.(bool)
	return b
}
