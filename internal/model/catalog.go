package model

// Catalog is the single owner of every piece of data the query-mode
// components need. It is assembled once by the builder pipeline, frozen,
// and then only read — collaborators (router, map renderer, query façade)
// receive a read-only pointer to it, never a copy or a mutable reference to
// its innards (spec.md §9 "Shared catalog references").
type Catalog struct {
	// StopOrder preserves insertion order for stable output; Stops indexes
	// by name.
	StopOrder []string
	Stops     map[string]*Stop

	// BusOrder preserves insertion order; Buses indexes by route number.
	BusOrder []string
	Buses    map[string]*BusRoute

	Distances *DistanceTable

	Routing RoutingSettings
	Render  RenderSettings

	// EdgeActivities is indexed by edge id, wait edges first (stop
	// insertion order) then ride edges (bus order, then (i, j) order).
	EdgeActivities []EdgeActivity

	// Routes maps "from|to" stop-name pairs to their precomputed shortest
	// route. Keyed by a struct, not a formatted string, to avoid name
	// collisions and allocation on lookup.
	Routes map[StopPair]RouteCacheEntry

	// VertexCount is 2*len(Stops): each stop owns an "in" and "out" vertex.
	VertexCount int

	stopIdx map[string]int
}

// StopPair is the lookup key into Catalog.Routes.
type StopPair struct {
	From, To string
}

// NewCatalog returns an empty, unfrozen catalog ready for the builder.
func NewCatalog() *Catalog {
	return &Catalog{
		Stops:     make(map[string]*Stop),
		Buses:     make(map[string]*BusRoute),
		Routes:    make(map[StopPair]RouteCacheEntry),
		Distances: NewDistanceTable(),
		stopIdx:   make(map[string]int),
	}
}

// RegisterStopOrder appends name to StopOrder if not already present and
// returns its index. Called by the catalog builder as stops are declared.
func (c *Catalog) RegisterStopOrder(name string) int {
	if idx, ok := c.stopIdx[name]; ok {
		return idx
	}
	idx := len(c.StopOrder)
	c.StopOrder = append(c.StopOrder, name)
	c.stopIdx[name] = idx
	return idx
}

// Stop looks up a stop by name.
func (c *Catalog) Stop(name string) (*Stop, bool) {
	s, ok := c.Stops[name]
	return s, ok
}

// Bus looks up a bus by route number.
func (c *Catalog) Bus(number string) (*BusRoute, bool) {
	b, ok := c.Buses[number]
	return b, ok
}

// Route looks up a precomputed route between an ordered stop pair.
func (c *Catalog) Route(from, to string) (RouteCacheEntry, bool) {
	r, ok := c.Routes[StopPair{From: from, To: to}]
	return r, ok
}

// VertexIn and VertexOut compute a stop's two vertex ids in the time graph.
// Vertices are allocated two-per-stop in StopOrder, matching the order
// wait edges are emitted in (spec.md §4.2).
func (c *Catalog) VertexIn(stopIndex int) int  { return 2 * stopIndex }
func (c *Catalog) VertexOut(stopIndex int) int { return 2*stopIndex + 1 }

// StopIndex returns the position of name in StopOrder, or -1 if unknown.
func (c *Catalog) StopIndex(name string) int {
	if idx, ok := c.stopIdx[name]; ok {
		return idx
	}
	return -1
}

// RebuildStopIndex reconstructs the name->index map from StopOrder. Used by
// the deserializer, which populates StopOrder directly without going
// through RegisterStopOrder.
func (c *Catalog) RebuildStopIndex() {
	c.stopIdx = make(map[string]int, len(c.StopOrder))
	for i, n := range c.StopOrder {
		c.stopIdx[n] = i
	}
}
