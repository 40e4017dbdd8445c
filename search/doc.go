// Package search builds an embedding index over transcript segments and
// answers a query with the single most similar segment.
package search
