package world

import (
	"errors"
	"fmt"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
)

var (
	// ErrUnknownEntity reports an operation against an entity the world
	// does not host.
	ErrUnknownEntity = errors.New("world: unknown entity")

	// ErrHierarchyCycle reports a SetParent call that would make an entity
	// its own ancestor.
	ErrHierarchyCycle = errors.New("world: entity hierarchy cycle")

	// ErrRegistryMismatch reports an adopted stat map bound to a registry
	// other than the world's.
	ErrRegistryMismatch = errors.New("world: stat map bound to a different registry")
)

func unknownEntity(e entity.Entity) error {
	return fmt.Errorf("%w: %s", ErrUnknownEntity, e)
}
