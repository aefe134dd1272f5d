package dependency

// resetSession starts a fresh resolution session when the resolver caches
// per session.
func resetSession(r Resolver) {
	if resetter, ok := r.(interface{ Reset() }); ok {
		resetter.Reset()
	}
}
