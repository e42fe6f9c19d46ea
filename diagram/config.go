// Package diagram serializes class models into Mermaid class-diagram text.
package diagram

import (
	"strings"

	"github.com/don7panic/classgen/errors"
)

// Direction is a diagram layout direction.
type Direction string

const (
	LeftRight Direction = "LR"
	RightLeft Direction = "RL"
	TopBottom Direction = "TB"
	BottomTop Direction = "BT"
)

// DefaultDirection is used when no direction is configured.
const DefaultDirection = TopBottom

// Directions lists every accepted direction.
var Directions = []Direction{LeftRight, RightLeft, TopBottom, BottomTop}

// ParseDirection normalizes s case-insensitively to one of Directions.
func ParseDirection(s string) (Direction, error) {
	d := Direction(strings.ToUpper(strings.TrimSpace(s)))
	for _, valid := range Directions {
		if d == valid {
			return d, nil
		}
	}
	return "", errors.WithHint(
		errors.Wrapf(errors.ErrInvalidDirection, "direction %q", s),
		"use one of LR, RL, TB, BT",
	)
}

// Config selects what the serializer emits. Every toggle is independent.
type Config struct {
	ShowProperties      bool
	ShowMethods         bool
	ShowParents         bool
	ShowUses            bool
	ShowEdgeLabels      bool
	ReadConstructor     bool
	RecursiveAncestors  bool
	Direction           Direction
	WrapInMarkdownFence bool
}

// DefaultConfig mirrors the command line defaults.
func DefaultConfig() Config {
	return Config{
		ShowProperties:      true,
		ShowMethods:         true,
		ShowParents:         true,
		RecursiveAncestors:  true,
		Direction:           DefaultDirection,
		WrapInMarkdownFence: true,
	}
}

// Validate normalizes the direction, returning a configuration error for any
// value outside Directions.
func (c Config) Validate() (Config, error) {
	d, err := ParseDirection(string(c.Direction))
	if err != nil {
		return c, err
	}
	c.Direction = d
	return c, nil
}
