package deps

// Status reports whether an external binary subfit shells out to is usable.
// Command holds the resolved path when the lookup succeeds.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}
