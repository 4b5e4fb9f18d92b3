package dtype

// depthGuard bounds recursion while traversing nested containers. It is
// shared by the parser and the encoder so both enforce the same policy.
//
// A negative limit disables the check entirely. In that mode recursion is
// bounded only by the goroutine stack, which the Go runtime grows on
// demand up to the process stack limit (see runtime/debug.SetMaxStack);
// callers opting into unbounded depth accept that an adversarial document
// can exhaust it.
type depthGuard struct {
	limit int
	depth int
}

func newDepthGuard(limit int) depthGuard {
	return depthGuard{limit: limit}
}

// enter records descent into an array or object. It fails before any
// further recursive call executes when the limit is exceeded.
func (g *depthGuard) enter() error {
	g.depth++
	if g.limit >= 0 && g.depth > g.limit {
		return ErrRecursionLimit
	}
	return nil
}

func (g *depthGuard) exit() {
	g.depth--
}
