// Package resource bounds the memory a distance matrix may reserve and the
// bandwidth used to read input tables.
package resource
