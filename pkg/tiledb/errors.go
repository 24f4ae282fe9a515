package tiledb

import (
	"fmt"
	"strings"
)

// MalformedItemError reports an item whose encoding disagrees with its bit
// list. It indicates a corrupt or incompatible database and is never
// repaired by padding or truncation.
type MalformedItemError struct {
	Tile   string
	Item   string
	Value  string
	Want   int
	Got    int
	Reason string
}

func (e *MalformedItemError) Error() string {
	var sb strings.Builder
	sb.WriteString("malformed item ")
	if e.Tile != "" {
		sb.WriteString(e.Tile)
		sb.WriteByte(':')
	}
	sb.WriteString(e.Item)
	if e.Value != "" {
		fmt.Fprintf(&sb, " value %s", e.Value)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Want != 0 || e.Got != 0 {
		fmt.Fprintf(&sb, " (want %d, got %d)", e.Want, e.Got)
	}
	return sb.String()
}
