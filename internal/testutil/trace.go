package testutil

// FixedTraceGenerator returns the same trace id every time, so JSON output
// can be compared against golden files.
//
// Safe for concurrent use.
type FixedTraceGenerator struct {
	id string
}

// NewFixedTraceGenerator creates a generator returning id, or
// "test-trace-default" when id is empty.
func NewFixedTraceGenerator(id string) *FixedTraceGenerator {
	if id == "" {
		id = "test-trace-default"
	}
	return &FixedTraceGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedTraceGenerator) Generate() string {
	return g.id
}
