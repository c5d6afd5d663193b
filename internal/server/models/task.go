package models

// MaxTaskTitleLength is the longest accepted title, in characters.
const MaxTaskTitleLength = 100

// Task is a single to-do item. OwnerID is set once, from the creator's
// validated identity, and never changes.
type Task struct {
	ID      string
	OwnerID string
	Title   string
	Done    bool
}
