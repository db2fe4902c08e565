// Package memory is the assistant's key/value memory.
//
// The assistant remembers each answer under its question so repeated
// questions can be inspected later. Two backends implement Memory:
//
//   - InMemory: a mutex guarded map, lost when the process exits
//   - Redis: JSON values under a key prefix, with an optional TTL
//
// Retrieve reports absence with ok == false rather than an error:
//
//	v, ok, err := mem.Retrieve(ctx, "key1")
package memory
