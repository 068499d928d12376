package ports

// LivenessChecker reports whether a process on this host is still alive.
type LivenessChecker interface {
	Alive(pid int) bool
}
