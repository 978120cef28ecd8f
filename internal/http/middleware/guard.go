package middleware

import (
	"fmt"
	"log"
	"net/http"

	"blog-go/internal/models"
)

type DenyReason int

const (
	ReasonUnauthenticated DenyReason = iota + 1
	ReasonForbidden
)

// Decision is the outcome of a guard: Allowed, or Denied with a reason.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

var Allow = Decision{Allowed: true}

func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Guard inspects the acting user, nil when anonymous.
type Guard func(user *models.User) Decision

func RequireLogin(user *models.User) Decision {
	if user == nil {
		return Deny(ReasonUnauthenticated)
	}
	return Allow
}

func RequireAdmin(user *models.User) Decision {
	if !user.IsAdmin() {
		return Deny(ReasonForbidden)
	}
	return Allow
}

// Check runs guards in order and returns the first denial.
func Check(user *models.User, guards ...Guard) Decision {
	for _, g := range guards {
		if d := g(user); !d.Allowed {
			return d
		}
	}
	return Allow
}

// Notifier queues a notice for the page the user lands on next.
type Notifier interface {
	AddNotice(w http.ResponseWriter, r *http.Request, msg string) error
}

// Protect runs guards before the handler. Anonymous users are sent to the
// login page, everyone else who is denied goes back home.
func Protect(notices Notifier, action string, guards ...Guard) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Check(CurrentUser(r.Context()), guards...)
			if d.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			msg, target := "Please log in to continue.", "/login"
			if d.Reason == ReasonForbidden {
				msg, target = fmt.Sprintf("You aren't authorised to %s.", action), "/"
			}
			if err := notices.AddNotice(w, r, msg); err != nil {
				log.Printf("saving notice: %v", err)
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}
