package typemap

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
)

// Registry resolves type names used in documentation annotations to go types.
//
// A type is registered under its bare name ("Address"), its package qualified
// name ("shop.Address") and its import path qualified name
// ("example.com/shop.Address"). For bare names the first registration wins.
// A Registry is safe for concurrent use.
type Registry struct {
	types sync.Map // string -> reflect.Type

	// incremented by every Register call, see Generation
	generation atomic.Uint64
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds the given named types. Pointer types register their element type.
func (r *Registry) Register(types ...reflect.Type) {
	for _, ty := range types {
		for ty.Kind() == reflect.Pointer {
			ty = ty.Elem()
		}

		if ty.Name() == "" {
			continue
		}

		r.types.LoadOrStore(ty.Name(), ty)
		r.types.Store(ty.String(), ty)

		if ty.PkgPath() != "" {
			r.types.Store(ty.PkgPath()+"."+ty.Name(), ty)
		}
	}

	r.generation.Add(1)
}

// Generation changes whenever types are registered. Field indices built against
// an older generation may miss annotation types registered since.
func (r *Registry) Generation() uint64 {
	return r.generation.Load()
}

// Resolve looks up a type by name. A leading root marker (`\` or `.`) is
// stripped before the lookup, so relative and absolute names resolve the same.
func (r *Registry) Resolve(name string) (reflect.Type, bool) {
	name = absoluteName(name)
	if name == "" {
		return nil, false
	}

	ty, ok := r.types.Load(name)
	if !ok {
		return nil, false
	}

	return ty.(reflect.Type), true
}

// Types returns the number of distinct types registered.
func (r *Registry) Types() int {
	seen := map[reflect.Type]struct{}{}
	r.types.Range(func(_, value any) bool {
		seen[value.(reflect.Type)] = struct{}{}
		return true
	})

	return len(seen)
}

func absoluteName(name string) string {
	name = strings.TrimSpace(name)
	return strings.TrimLeft(name, `\.`)
}

// Register adds T to the registry of the default mapper.
func Register[T any]() {
	mapper.registry.Register(reflect.TypeFor[T]())
}
