// Package mmap maps local table files read-only into memory.
//
// # Usage
//
//	m, err := mmap.Open("counts.tsv")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) hints
//   - Windows: CreateFileMapping/MapViewOfFile (hints are no-ops)
//   - Others: the file is read into memory
package mmap
