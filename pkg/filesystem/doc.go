// Package filesystem provides the OS implementation of the types.FS
// interface used throughout thoughts.
package filesystem
