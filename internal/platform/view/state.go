// Package view holds the rendering states shared by data-backed pages.
package view

// State is the rendering state of a data-backed region.
type State string

const (
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateEmpty       State = "empty"
	StateUnavailable State = "unavailable"
)

// UnavailableText is shown when a fetch failed. Placeholder data is never rendered instead.
const UnavailableText = "Datos no disponibles"

// ForList returns the state of a fetched list.
func ForList(n int, err error) State {
	switch {
	case err != nil:
		return StateUnavailable
	case n == 0:
		return StateEmpty
	default:
		return StateReady
	}
}

// ForItem returns the state of a single fetched item.
func ForItem(present bool, err error) State {
	switch {
	case err != nil:
		return StateUnavailable
	case !present:
		return StateEmpty
	default:
		return StateReady
	}
}
