// Package signals is a minimal synchronous observer wiring, used to push
// change notifications from stat storage into cache invalidation.
package signals

// Observer receives published events.
type Observer[E any] func(E)

// Detach removes the observer a successful Attach registered.
type Detach func()

type Signal[E any] interface {
	// Attach subscribes the observer. The optional observerID overrides
	// the identity used for deduplication and detachment; by default the
	// observer function pointer is the identity.
	Attach(observer Observer[E], observerID ...any) Detach
	Detach(observer Observer[E], observerID ...any)
	Notify(event E)
}
