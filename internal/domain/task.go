package domain

// TaskStore owns the ordered list of task strings for the lifetime of the process.
// Insertion order is display order. Duplicates are allowed.
type TaskStore interface {
	// All returns a copy of the tasks in insertion order.
	All() []string
	// Append adds a task to the end of the list. Callers filter blank input.
	Append(task string)
	// RemoveFirst removes the first task equal to the argument.
	// Returns false when no task matched.
	RemoveFirst(task string) bool
	// Len returns the number of tasks currently stored.
	Len() int
}

// AddOutcome reports what AddTask did with its input.
type AddOutcome string

const (
	AddOutcomeAdded        AddOutcome = "added"
	AddOutcomeSkippedBlank AddOutcome = "skipped_blank"
)

// DeleteOutcome reports what DeleteTask did with its input.
type DeleteOutcome string

const (
	DeleteOutcomeDeleted  DeleteOutcome = "deleted"
	DeleteOutcomeNotFound DeleteOutcome = "not_found"
)
