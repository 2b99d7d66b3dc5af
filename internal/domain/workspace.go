package domain

// Workspace is the directory a script executes in
type Workspace struct {
	Ephemeral bool
	Root      string
}
