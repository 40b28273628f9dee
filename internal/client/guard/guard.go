// Package guard gates navigation to views that require an authenticated
// session. It performs no I/O: it reads the session manager and, when entry
// is denied, asks the navigator to go to the login view instead.
package guard

// Session is the slice of the session manager the guard needs.
type Session interface {
	Authenticated() bool
}

// LoginRoute is where denied navigations are redirected.
const LoginRoute = "/login"

type Guard struct {
	session  Session
	redirect func(route string)
}

// New returns a Guard reading session and redirecting via redirect.
func New(session Session, redirect func(route string)) *Guard {
	return &Guard{session: session, redirect: redirect}
}

// CanEnter reports whether the protected route may render. On denial the
// navigator is redirected to the login view.
func (g *Guard) CanEnter(route string) bool {
	if g.session.Authenticated() {
		return true
	}
	if g.redirect != nil {
		g.redirect(LoginRoute)
	}
	return false
}
