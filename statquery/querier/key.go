package querier

import (
	"fmt"

	"github.com/krew-solutions/stat-query-go/statquery/entity"
	"github.com/krew-solutions/stat-query-go/statquery/qualifier"
	"github.com/krew-solutions/stat-query-go/statquery/stat"
)

// Key identifies one evaluation: which entity, under which query, for
// which stat. Keys are comparable; they address the cache and token the
// in-flight cycle check.
type Key struct {
	Entity entity.Entity
	Query  qualifier.Query
	Stat   stat.Stat
}

func (k Key) String() string {
	anyOf, allOf := k.Query.Flags()
	mode := "aggregate"
	if k.Query.IsExact() {
		mode = "exact"
	}
	return fmt.Sprintf("%s/%s(%s anyOf=%#x allOf=%#x)", k.Entity, k.Stat, mode, uint64(anyOf), uint64(allOf))
}
