package stability

// Sink receives every view published by a Recomputer. Update replaces the
// previous view; Destroy is called once when the owning component closes.
type Sink[V any] interface {
	Update(view V)
	Destroy()
}

// Sinks wires the presentation side of a Recomputer. Bar, Scatter and Line are
// required, Table is optional.
type Sinks struct {
	Bar     Sink[BarView]
	Scatter Sink[ScatterView]
	Line    Sink[LineView]
	Table   Sink[TableView]
}

// Latest is a sink that keeps the most recent view in memory.
type Latest[V any] struct {
	view      V
	updates   int
	destroyed bool
}

func (l *Latest[V]) Update(view V) {
	l.view = view
	l.updates++
}

func (l *Latest[V]) Destroy() {
	l.destroyed = true
}

// View returns the last published view and whether anything was published.
func (l *Latest[V]) View() (V, bool) {
	return l.view, l.updates > 0
}

// Updates reports how many views have been published.
func (l *Latest[V]) Updates() int {
	return l.updates
}

func (l *Latest[V]) Destroyed() bool {
	return l.destroyed
}
