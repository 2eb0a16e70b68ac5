package navigation

// Handle identifies a scheduled timer. The zero Handle is never issued.
type Handle uint64

// State is the navigation UI state. Consumers get copies from [Coordinator.State].
type State struct {
	IsPanelOpen         bool
	IsNavigating        bool
	IsPageTransitioning bool
	DestinationURL      string

	pending Handle
}

// Pending reports whether a route push is scheduled but has not fired.
func (s State) Pending() bool { return s.pending != 0 }

// ShowPlaceholder reports whether views should render skeleton content instead of the current page.
func (s State) ShowPlaceholder() bool { return s.IsPageTransitioning }
