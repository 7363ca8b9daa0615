package testutil

// FixedIDGenerator hands out the same session id every time, so traces
// and golden files do not depend on random UUIDs.
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator returns a generator for id, or for
// "test-session-default" when id is empty.
func NewFixedIDGenerator(id string) *FixedIDGenerator {
	if id == "" {
		id = "test-session-default"
	}
	return &FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g *FixedIDGenerator) Generate() string {
	return g.id
}
