// Package entity identifies the subjects stats are queried for.
package entity

import "github.com/google/uuid"

// Entity identifies one stat-bearing subject: a character, an item, a
// status effect. Values are comparable and usable as map keys; the zero
// value names no entity.
type Entity struct {
	id uuid.UUID
}

// New mints a random entity identity.
func New() Entity {
	return Entity{id: uuid.New()}
}

// Parse reads the canonical text form produced by String.
func Parse(s string) (Entity, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return Entity{}, err
	}
	return Entity{id: id}, nil
}

func (e Entity) IsZero() bool { return e.id == uuid.Nil }

func (e Entity) String() string { return e.id.String() }

func (e Entity) MarshalText() ([]byte, error) {
	return []byte(e.id.String()), nil
}

func (e *Entity) UnmarshalText(text []byte) error {
	id, err := uuid.ParseBytes(text)
	if err != nil {
		return err
	}
	e.id = id
	return nil
}
