package models

import (
	"fmt"
	"github.com/go-playground/validator/v10"
	"golang.org/x/exp/slices"
	"strings"
	"time"
)

const offlinePrefix = "offline_"

type Session struct {
	ID               string `validate:"required"`
	Shop             string `validate:"required"`
	State            string
	IsOnline         bool
	Scope            string
	Expires          time.Time // zero value: never expires
	OnlineAccessInfo string
	AccessToken      string
}

var validate = validator.New()

// Validate checks the fields that identify a session. State may be empty,
// offline and token exchange sessions carry no OAuth state.
func (s Session) Validate() error {
	return validate.Struct(s)
}

// OfflineID returns the id of the shop-wide offline session.
func OfflineID(shop string) string {
	return offlinePrefix + shop
}

// OnlineID returns the id of the per-user online session.
func OnlineID(shop string, userID int64) string {
	return fmt.Sprintf("%s_%d", shop, userID)
}

// IsExpired reports whether the session expires before now+within.
// Sessions without an expiry never expire.
func (s Session) IsExpired(now time.Time, within time.Duration) bool {
	if s.Expires.IsZero() {
		return false
	}

	return s.Expires.Before(now.Add(within))
}

// IsActive reports whether the session carries a token, is not expired and
// was granted exactly the requested scope set.
func (s Session) IsActive(scope string, now time.Time) bool {
	return s.AccessToken != "" &&
		!s.IsExpired(now, 0) &&
		sameScopes(s.Scope, scope)
}

func sameScopes(a, b string) bool {
	return slices.Equal(splitScopes(a), splitScopes(b))
}

// splitScopes returns the sorted distinct scopes of a comma separated list.
func splitScopes(scope string) []string {
	var res []string
	for _, s := range strings.Split(scope, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}

	slices.Sort(res)
	return slices.Compact(res)
}
