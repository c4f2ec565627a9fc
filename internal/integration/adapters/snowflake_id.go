// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"fmt"

	"github.com/bwmarrin/snowflake"

	"github.com/backoffice/statement/internal/application/adapter"
)

// snowflakeIDGenerator implements the adapter.SnapshotIDGenerator interface.
// Ids carry the creation time in milliseconds in their high bits, so they
// sort by capture time.
type snowflakeIDGenerator struct {
	node *snowflake.Node
}

// NewSnowflakeIDGenerator creates a new generator for the given node number.
func NewSnowflakeIDGenerator(node int64) (adapter.SnapshotIDGenerator, error) {
	n, err := snowflake.NewNode(node)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &snowflakeIDGenerator{node: n}, nil
}

// NextID returns a new unique id.
func (g *snowflakeIDGenerator) NextID() int64 {
	return g.node.Generate().Int64()
}
