package configurator

import (
	"encoding/json"
	"fmt"
)

type Action interface {
	isAction()
}

type SelectAction struct {
	SectionID string `json:"sectionId"`
	OptionID  string `json:"optionId"`
}

type QuantityAction struct {
	SectionID string `json:"sectionId"`
	OptionID  string `json:"optionId"`
	Quantity  int    `json:"quantity"`
}

func (SelectAction) isAction()   {}
func (QuantityAction) isAction() {}

type Result int

const (
	Changed Result = iota
	Unchanged
	LimitReached
	UnknownTarget
)

func (r Result) String() string {
	switch r {
	case Changed:
		return "changed"
	case Unchanged:
		return "unchanged"
	case LimitReached:
		return "limit_reached"
	case UnknownTarget:
		return "unknown_target"
	default:
		return "unknown"
	}
}

// Outcome reports what a reducer step did. Err is informational: callers of
// SelectOption never see it.
type Outcome struct {
	Result Result
	Err    error
}

// ActionEnvelope is the wire form of an Action: {"type": "select"|"quantity", ...}.
type ActionEnvelope struct {
	Type      string `json:"type" yaml:"type"`
	SectionID string `json:"sectionId" yaml:"sectionId"`
	OptionID  string `json:"optionId" yaml:"optionId"`
	Quantity  int    `json:"quantity,omitempty" yaml:"quantity,omitempty"`
}

func (e ActionEnvelope) Action() (Action, error) {
	switch e.Type {
	case "select":
		return SelectAction{SectionID: e.SectionID, OptionID: e.OptionID}, nil
	case "quantity":
		return QuantityAction{SectionID: e.SectionID, OptionID: e.OptionID, Quantity: e.Quantity}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", e.Type)
}

func (e *ActionEnvelope) UnmarshalJSON(data []byte) error {
	type raw ActionEnvelope
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	if r.Type == "" {
		r.Type = "select"
	}
	*e = ActionEnvelope(r)
	return nil
}

// Replay initialises a configuration and folds the given actions over it.
func (c *Configurator) Replay(actions []ActionEnvelope) (Configuration, error) {
	cfg := c.Init()
	for _, env := range actions {
		a, err := env.Action()
		if err != nil {
			return cfg, err
		}
		cfg, _ = c.Apply(cfg, a)
	}
	return cfg, nil
}
