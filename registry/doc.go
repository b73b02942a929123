/*
Package registry manages the process-wide mapping from provider names to
database providers.

The registry system enables:
  - Polymorphic backend selection by configuration value
  - Self-registration of backends from init functions
  - Typed resolution of handles without unchecked casts

Registration is an unconditional upsert and removal of an unknown name is
harmless, so hosts can freely replace built-in providers:

	registry.Register("map", myProvider)
	prev, existed := registry.Unregister("map")

Resolution looks the provider up, invokes it with the caller's connection
configuration, and guards the result:

	db, err := registry.Resolve(ctx, "sqlite", conn)

	// typed variant, fails with ErrTypeMismatch instead of panicking
	h, err := registry.ResolveAs[*sqlbase.Handle](registry.Default(), ctx, "sqlite", conn)

The registry is thread-safe; concurrent Register, Unregister and Resolve
calls are serialized. It is process-wide mutable state with no teardown
hook — tests that need isolation should construct their own Registry with
New instead of mutating the default one.
*/
package registry
