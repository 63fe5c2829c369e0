package domain

// LifecycleStatus is the status shared by an Order and its Rental. The two
// always move together.
type LifecycleStatus string

const (
	StatusPending   LifecycleStatus = "pending"
	StatusActive    LifecycleStatus = "active"
	StatusCompleted LifecycleStatus = "completed"
	StatusCancelled LifecycleStatus = "cancelled"
)

var allowedTransitions = map[LifecycleStatus][]LifecycleStatus{
	StatusPending: {StatusActive, StatusCancelled},
	StatusActive:  {StatusCompleted},
}

// Valid reports whether s is a known status.
func (s LifecycleStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s LifecycleStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s LifecycleStatus) CanTransitionTo(next LifecycleStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Extendable reports whether the end date may still be moved.
func (s LifecycleStatus) Extendable() bool {
	return s == StatusPending || s == StatusActive
}
