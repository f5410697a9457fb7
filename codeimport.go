// Package codeimport resolves compact file references into lines of source
// code for embedding in rendered documentation.
package codeimport
