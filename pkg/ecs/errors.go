package ecs

import "github.com/rotisserie/eris"

var (
	// ErrEntityNotFound is returned when attempting to operate on a non-existent entity.
	ErrEntityNotFound = eris.New("entity does not exist")

	// ErrComponentNotFound is returned when the entity doesn't have the requested component.
	ErrComponentNotFound = eris.New("component does not exist on entity")

	// ErrWorldClosed is returned when operating on a world after Close.
	ErrWorldClosed = eris.New("world is closed")
)
