// Package ident generates identifiers for document entities.
//
// Shapes, layers, groups, gradients, patterns and documents all receive a
// random UUID (version 4) string when created without an explicit ID.
package ident

import "github.com/google/uuid"

// New returns a fresh random identifier.
func New() string {
	return uuid.NewString()
}

// OrNew returns id if it is non-empty and a fresh identifier otherwise.
func OrNew(id string) string {
	if id != "" {
		return id
	}
	return New()
}
