package logging

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/hyperseq/pkg/hypergraph"
)

// GraphObserver logs graph growth at debug level.
type GraphObserver struct {
	logger *log.Logger
}

// NewGraphObserver returns an observer that writes to logger.
func NewGraphObserver(logger *log.Logger) *GraphObserver {
	return &GraphObserver{logger: logger}
}

// VertexAdded implements hypergraph.Observer.
func (o *GraphObserver) VertexAdded(id hypergraph.VertexID, width int) {
	o.logger.Debug("vertex added", FieldVertex, id, FieldWidth, width)
}

// PatternAdded implements hypergraph.Observer.
func (o *GraphObserver) PatternAdded(id hypergraph.VertexID, pattern hypergraph.PatternID) {
	o.logger.Debug("pattern added", FieldVertex, id, FieldPattern, pattern)
}

// Split implements hypergraph.Observer.
func (o *GraphObserver) Split(id hypergraph.VertexID, offset int, memoized bool) {
	o.logger.Debug("split", FieldVertex, id, FieldOffset, offset, FieldMemoized, memoized)
}
