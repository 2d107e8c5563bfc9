// Package storage manages the local output tree for fetched images.
//
// The layout is one directory per parent page under a fixed root:
//
//	output/
//	  prefix_1/1.jpg
//	  prefix_1/2.jpg
//	  prefix_2/1.jpg
//
// Saves are atomic (temporary file plus rename), so a file under its final
// name is always a complete write. Duplicate detection is a plain
// path-presence check with no content verification.
package storage
