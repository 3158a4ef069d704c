package models

import (
	"fmt"
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ThoughtKind selects which payload a thought log entry carries.
type ThoughtKind string

const (
	ThoughtBullets ThoughtKind = "bullets"
	ThoughtCode    ThoughtKind = "code"
	ThoughtText    ThoughtKind = "text"
	ThoughtTool    ThoughtKind = "tool"
)

// ThoughtLogEntry is a simulated assistant prompt/output pair.
// Only the payload matching Kind is populated.
type ThoughtLogEntry struct {
	ID      string      `json:"id"`
	Time    string      `json:"time"`
	Title   string      `json:"title"`
	Kind    ThoughtKind `json:"kind"`
	Prompt  string      `json:"prompt"`
	Bullets []string    `json:"bullets,omitempty"`
	Code    *CodeBlock  `json:"code,omitempty"`
	Tool    *ToolCall   `json:"tool,omitempty"`
	Output  string      `json:"output"`
}

// CodeBlock is the payload of a code thought.
type CodeBlock struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

// ToolCall is the payload of a tool thought. Inputs keep insertion order.
type ToolCall struct {
	Name   string                              `json:"name"`
	Inputs *orderedmap.OrderedMap[string, any] `json:"inputs"`
	Result string                              `json:"result"`
}

// ToolInputs builds an ordered input map from the given pairs.
func ToolInputs(pairs ...orderedmap.Pair[string, any]) *orderedmap.OrderedMap[string, any] {
	m := orderedmap.New[string, any]()
	for _, p := range pairs {
		m.Set(p.Key, p.Value)
	}
	return m
}

// Input is shorthand for one tool input pair.
func Input(key string, value any) orderedmap.Pair[string, any] {
	return orderedmap.Pair[string, any]{Key: key, Value: value}
}

// StringValue renders a tool input value the way it appears in an edit field.
func StringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// ActionType classifies an action log notification.
type ActionType string

const (
	ActionInfo    ActionType = "info"
	ActionAlert   ActionType = "alert"
	ActionSuccess ActionType = "success"
	ActionWarning ActionType = "warning"
)

// ActionLogEntry is a read-only notification describing simulated assistant activity.
type ActionLogEntry struct {
	ID          int        `json:"id"`
	Type        ActionType `json:"type"`
	Time        string     `json:"time"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"meta"`
}

// Briefing is the agent's morning summary shown on the thesis tab.
type Briefing struct {
	Summary    string
	RiskAlerts []BriefingItem
	Actions    []BriefingItem
	Metrics    []BriefingMetric
}

// BriefingItem is one alert or planned action with the label of its button.
type BriefingItem struct {
	Text   string
	Button string
}

type BriefingMetric struct {
	Label string
	Value string
	Trend string
}
