// Package domain provides the domain layer for toasts.
// It contains value objects, history records and domain services.
package domain

import (
	"fmt"
)

// Kind is the visual variant of a toast.
type Kind string

const (
	KindPlain   Kind = "plain"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
	KindLoading Kind = "loading"
	KindCustom  Kind = "custom"
)

// Kinds lists every valid kind in display order.
var Kinds = []Kind{KindPlain, KindSuccess, KindError, KindWarning, KindInfo, KindLoading, KindCustom}

// IsValid checks if the kind is valid.
func (k Kind) IsValid() bool {
	switch k {
	case KindPlain, KindSuccess, KindError, KindWarning, KindInfo, KindLoading, KindCustom:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the kind is a settled promise outcome.
func (k Kind) IsTerminal() bool {
	return k == KindSuccess || k == KindError
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Position is the screen anchor a toast is stacked at.
type Position string

const (
	PositionTopLeft      Position = "top-left"
	PositionTopCenter    Position = "top-center"
	PositionTopRight     Position = "top-right"
	PositionBottomLeft   Position = "bottom-left"
	PositionBottomCenter Position = "bottom-center"
	PositionBottomRight  Position = "bottom-right"
)

// Positions lists the six anchors, top row first.
var Positions = []Position{
	PositionTopLeft, PositionTopCenter, PositionTopRight,
	PositionBottomLeft, PositionBottomCenter, PositionBottomRight,
}

// IsValid checks if the position is one of the six anchors.
func (p Position) IsValid() bool {
	switch p {
	case PositionTopLeft, PositionTopCenter, PositionTopRight,
		PositionBottomLeft, PositionBottomCenter, PositionBottomRight:
		return true
	default:
		return false
	}
}

// IsTop reports whether the anchor is on the top edge.
func (p Position) IsTop() bool {
	return p == PositionTopLeft || p == PositionTopCenter || p == PositionTopRight
}

// String returns the string representation of the position.
func (p Position) String() string {
	return string(p)
}

// DismissReason records how a toast left the active set.
type DismissReason string

const (
	ReasonManual DismissReason = "manual"
	ReasonAuto   DismissReason = "auto"
	ReasonAll    DismissReason = "all"
	ReasonAction DismissReason = "action"
	ReasonCancel DismissReason = "cancel"
)

// IsValid checks if the dismiss reason is valid.
func (r DismissReason) IsValid() bool {
	switch r {
	case ReasonManual, ReasonAuto, ReasonAll, ReasonAction, ReasonCancel:
		return true
	default:
		return false
	}
}

// String returns the string representation of the reason.
func (r DismissReason) String() string {
	return string(r)
}

// ParseKind parses a string into a Kind.
func ParseKind(kind string) (Kind, error) {
	k := Kind(kind)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid toast kind: %s", kind)
	}
	return k, nil
}

// ParsePosition parses a string into a Position.
func ParsePosition(position string) (Position, error) {
	p := Position(position)
	if !p.IsValid() {
		return "", fmt.Errorf("invalid toast position: %s", position)
	}
	return p, nil
}

// ParseDismissReason parses a string into a DismissReason.
func ParseDismissReason(reason string) (DismissReason, error) {
	r := DismissReason(reason)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid dismiss reason: %s", reason)
	}
	return r, nil
}
