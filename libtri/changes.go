package libtri

// ChangeSpan brackets a run of structural changes.  Spans nest; listeners fire once
// when the outermost span ends.
type ChangeSpan struct {
	tri *Triangulation
}

// StartChanges opens a change span; callers must call End().
func (tri *Triangulation) StartChanges() ChangeSpan {
	tri.changeDepth++
	tri.clearAllProperties()
	return ChangeSpan{tri: tri}
}

func (span ChangeSpan) End() {
	tri := span.tri
	tri.clearAllProperties()
	tri.changeDepth--
	if tri.changeDepth == 0 {
		for _, fn := range tri.listeners {
			fn(tri)
		}
	}
}

// Subscribe registers fn to be called after each outermost change span ends.
// The returned func removes the subscription.
func (tri *Triangulation) Subscribe(fn func(tri *Triangulation)) (unsubscribe func()) {
	if tri.listeners == nil {
		tri.listeners = make(map[uint64]func(*Triangulation))
	}
	tri.nextListen++
	key := tri.nextListen
	tri.listeners[key] = fn
	return func() {
		delete(tri.listeners, key)
	}
}
