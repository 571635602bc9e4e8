package application

import (
	"fmt"

	"github.com/merijn/sync-history/internal/domain"
)

// Elect tries to become the daemon by binding the well-known address. The
// first bind wins; a bind that fails with address-in-use means another
// daemon (or a racing candidate) already owns the role, which is not an
// error. won is false in that case.
func Elect[E any](bind func() (E, error)) (endpoint E, won bool, err error) {
	endpoint, err = bind()
	if err == nil {
		return endpoint, true, nil
	}

	var zero E
	if domain.IsAddressInUse(err) {
		return zero, false, nil
	}
	return zero, false, fmt.Errorf("claim daemon address: %w", err)
}
