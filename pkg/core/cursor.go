package core

import (
	"errors"
	"fmt"
	"strings"
)

// CursorDelimiter separates the app name from the seller name.
// Names containing the delimiter cannot round-trip through a cursor.
const CursorDelimiter = ";"

// ErrMalformedCursor is returned when a cursor string does not have the
// "<app name>;<app seller name>" shape.
var ErrMalformedCursor = errors.New("malformed cursor")

// Cursor is the keyset position of an app in (name, seller_name) order.
type Cursor struct {
	Name       string
	SellerName string
}

// String serializes the cursor as "<name>;<seller_name>".
func (c Cursor) String() string {
	return c.Name + CursorDelimiter + c.SellerName
}

// ParseCursor parses "<name>;<seller_name>". The string must contain the
// delimiter exactly once.
func ParseCursor(s string) (Cursor, error) {
	if strings.Count(s, CursorDelimiter) != 1 {
		return Cursor{}, fmt.Errorf("%w: %q", ErrMalformedCursor, s)
	}
	name, seller, _ := strings.Cut(s, CursorDelimiter)
	return Cursor{Name: name, SellerName: seller}, nil
}

// Direction is the scan direction relative to a cursor.
type Direction string

const (
	// DirectionNone is used when no cursor is given.
	DirectionNone Direction = ""
	// DirectionNext pages forward past the cursor.
	DirectionNext Direction = "next"
	// DirectionPrevious pages backward before the cursor.
	DirectionPrevious Direction = "previous"
)

// ErrInvalidDirection is returned for direction tokens other than
// "next" and "previous".
var ErrInvalidDirection = errors.New("invalid direction")

// ParseDirection parses a direction token.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionNext, DirectionPrevious:
		return Direction(s), nil
	default:
		return DirectionNone, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
