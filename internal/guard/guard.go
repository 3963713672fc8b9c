package guard

import (
	"net/http"

	"healthmate-be/internal/session"
	"healthmate-be/pkg/logger"
)

// Navigation targets
const (
	LoginRoute   = "/login"
	DefaultRoute = "/"
)

// State is the auth state a guard decision is based on
type State int

const (
	StateLoading State = iota
	StateUnauthenticated
	StateAuthenticated
)

// Action is what the guard decides to do with a request
type Action int

const (
	ActionRender Action = iota
	ActionRedirect
	ActionWait
)

// Decision is the outcome of evaluating a route requirement against the
// current auth state. Target is set for ActionRedirect only.
type Decision struct {
	Action Action
	Target string
}

// StateOf derives the guard state from a session snapshot
func StateOf(snap session.Snapshot) State {
	switch {
	case snap.Loading:
		return StateLoading
	case snap.Authenticated():
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

// Decide gates navigation for a route. requireAuth defaults to true for every
// route except the login and signup pages.
//
//	loading                          -> wait, no redirect decision is made
//	authenticated   + requireAuth    -> render
//	authenticated   + !requireAuth   -> redirect to the authenticated landing route
//	unauthenticated + requireAuth    -> redirect to the login route
//	unauthenticated + !requireAuth   -> render
func Decide(state State, requireAuth bool) Decision {
	switch state {
	case StateLoading:
		return Decision{Action: ActionWait}
	case StateAuthenticated:
		if requireAuth {
			return Decision{Action: ActionRender}
		}
		return Decision{Action: ActionRedirect, Target: DefaultRoute}
	default:
		if requireAuth {
			return Decision{Action: ActionRedirect, Target: LoginRoute}
		}
		return Decision{Action: ActionRender}
	}
}

// Protect creates a guard middleware for a route. The decision is
// re-evaluated from the store on every request; prior decisions are never
// cached.
func Protect(store *session.Store, requireAuth bool, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := Decide(StateOf(store.Snapshot()), requireAuth)

			switch decision.Action {
			case ActionWait:
				// Neutral placeholder while the session store initializes
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"loading":true}`))
			case ActionRedirect:
				logger.WithFields(map[string]interface{}{
					"path":   r.URL.Path,
					"target": decision.Target,
				}).Debug("Route guard redirect")
				http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
