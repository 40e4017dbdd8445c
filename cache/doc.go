// Package cache stores transcription and summarization results keyed by
// content hash.
//
// Store is the byte-level backend: Redis, in-memory, or Unavailable when no
// cache is configured. Resilient turns backend failures into misses so a
// cache outage never fails a request. Typed adds a tagged JSON envelope
//
//	{"kind":"transcript","version":1,"data":...}
//
// and treats anything that does not decode to the expected kind and version
// as a miss.
package cache
