package editor

import (
	"fmt"
	"strings"
)

// Tool is the active pointer tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolFreehand
	ToolArrow
	ToolRectangle
	ToolCircle
	ToolText
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolFreehand, ToolArrow, ToolRectangle, ToolCircle, ToolText}

var toolNames = map[Tool]string{
	ToolSelect:    "select",
	ToolFreehand:  "freehand",
	ToolArrow:     "arrow",
	ToolRectangle: "rectangle",
	ToolCircle:    "circle",
	ToolText:      "text",
}

func (t Tool) String() string {
	if n, ok := toolNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// Draws reports whether the tool creates an object by dragging.
func (t Tool) Draws() bool {
	switch t {
	case ToolFreehand, ToolArrow, ToolRectangle, ToolCircle:
		return true
	}
	return false
}

// ParseTool resolves a tool by name. A few short aliases are accepted.
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "select", "move", "pointer":
		return ToolSelect, nil
	case "freehand", "pen", "draw":
		return ToolFreehand, nil
	case "arrow":
		return ToolArrow, nil
	case "rectangle", "rect":
		return ToolRectangle, nil
	case "circle":
		return ToolCircle, nil
	case "text":
		return ToolText, nil
	}
	return ToolSelect, fmt.Errorf("unknown tool %q", s)
}

// State is the phase of the tool state machine.
type State int

const (
	StateIdle State = iota
	StateDrawing
	StateTransforming
	StateAwaitingText
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDrawing:
		return "drawing"
	case StateTransforming:
		return "transforming"
	case StateAwaitingText:
		return "awaiting-text"
	}
	return "unknown"
}

// DeleteOutcome reports what DeleteSelected did.
type DeleteOutcome int

const (
	// DeleteNothing means there was nothing to delete.
	DeleteNothing DeleteOutcome = iota
	// DeletedSelected means the selected object was removed.
	DeletedSelected
	// ClearNeedsConfirm means a clear-all is armed and awaits confirmation.
	ClearNeedsConfirm
	// ClearedAll means every object was removed.
	ClearedAll
)

func (d DeleteOutcome) String() string {
	switch d {
	case DeletedSelected:
		return "deleted selection"
	case ClearNeedsConfirm:
		return "press delete again to clear all annotations"
	case ClearedAll:
		return "cleared all annotations"
	}
	return "nothing to delete"
}
