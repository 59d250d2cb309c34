package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type statChanged struct {
	stat string
}

func TestSignalAttachAndNotify(t *testing.T) {
	s := NewSignal[statChanged]()
	var seen statChanged
	s.Attach(func(e statChanged) { seen = e }, "obs")
	s.Notify(statChanged{"health"})
	assert.Equal(t, statChanged{"health"}, seen)
}

func TestSignalNotifyPreservesAttachOrder(t *testing.T) {
	s := NewSignal[statChanged]()
	var order []int
	s.Attach(func(statChanged) { order = append(order, 1) }, "obs1")
	s.Attach(func(statChanged) { order = append(order, 2) }, "obs2")
	s.Notify(statChanged{})
	assert.Equal(t, []int{1, 2}, order)
}

func TestSignalDetach(t *testing.T) {
	s := NewSignal[statChanged]()
	called := false
	observer := Observer[statChanged](func(statChanged) { called = true })
	s.Attach(observer, "obs")
	s.Detach(observer, "obs")
	s.Notify(statChanged{})
	assert.False(t, called)
}

func TestSignalAttachReturnsDetach(t *testing.T) {
	s := NewSignal[statChanged]()
	calls := 0
	detach := s.Attach(func(statChanged) { calls++ }, "obs")
	s.Notify(statChanged{})
	detach()
	s.Notify(statChanged{})
	assert.Equal(t, 1, calls)
}

func TestSignalAttachDuplicateIsIdempotent(t *testing.T) {
	s := NewSignal[statChanged]()
	calls := 0
	observer := Observer[statChanged](func(statChanged) { calls++ })
	s.Attach(observer, "obs")
	s.Attach(observer, "obs")
	s.Notify(statChanged{})
	assert.Equal(t, 1, calls)
}

func TestSignalDetachNonexistentIsSilent(t *testing.T) {
	s := NewSignal[statChanged]()
	s.Detach(func(statChanged) {}, "nonexistent")
}

func TestCompositeSignalFansOut(t *testing.T) {
	a := NewSignal[statChanged]()
	b := NewSignal[statChanged]()
	c := NewCompositeSignal[statChanged](a, b)

	calls := 0
	detach := c.Attach(func(statChanged) { calls++ }, "obs")

	a.Notify(statChanged{})
	b.Notify(statChanged{})
	assert.Equal(t, 2, calls)

	c.Notify(statChanged{})
	assert.Equal(t, 4, calls)

	detach()
	a.Notify(statChanged{})
	b.Notify(statChanged{})
	assert.Equal(t, 4, calls)
}
