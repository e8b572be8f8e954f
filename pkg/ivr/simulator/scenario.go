// Package simulator replays scripted IVR menu trees against the navigator,
// so detection and navigation changes can be validated without live calls.
package simulator

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vango-go/vai-ivr/pkg/ivr/types"
)

// State types a scenario state may declare.
const (
	StateTypeMenu      = "menu"
	StateTypeOperator  = "operator"
	StateTypeVoicemail = "voicemail"
)

// Scenario is a named directed graph of IVR states. Loaded once per test
// and immutable afterwards.
type Scenario struct {
	Name         string            `yaml:"name"`
	InitialState string            `yaml:"initial_state"`
	States       map[string]*State `yaml:"states"`
}

// State is one node of the menu tree.
type State struct {
	Transcript    string             `yaml:"transcript"`
	Options       []types.MenuOption `yaml:"options"`
	IsTerminal    bool               `yaml:"is_terminal"`
	StateType     string             `yaml:"state_type"`
	TimeoutAction string             `yaml:"timeout_action"`
	InvalidAction string             `yaml:"invalid_action"`
	MaxRepeats    int                `yaml:"max_repeats"`
}

// Load reads and validates a scenario. Malformed scenarios fail to load as
// a whole; there are no partial loads, since a broken fixture must not
// produce a false pass.
func Load(r io.Reader) (*Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scenario
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := sc.validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile loads a scenario from a YAML file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario %q: %w", path, err)
	}
	defer f.Close()

	sc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %q: %w", path, err)
	}
	return sc, nil
}

func (sc *Scenario) validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario is missing a name")
	}
	if sc.InitialState == "" {
		return fmt.Errorf("scenario %q is missing initial_state", sc.Name)
	}
	if len(sc.States) == 0 {
		return fmt.Errorf("scenario %q has no states", sc.Name)
	}
	if _, ok := sc.States[sc.InitialState]; !ok {
		return fmt.Errorf("scenario %q: initial_state %q does not exist", sc.Name, sc.InitialState)
	}

	for id, st := range sc.States {
		if st == nil {
			return fmt.Errorf("scenario %q: state %q is empty", sc.Name, id)
		}
		if st.Transcript == "" && !st.IsTerminal {
			return fmt.Errorf("scenario %q: state %q has no transcript and is not terminal", sc.Name, id)
		}
		switch st.StateType {
		case "", StateTypeMenu, StateTypeOperator, StateTypeVoicemail:
		default:
			return fmt.Errorf("scenario %q: state %q has unknown state_type %q", sc.Name, id, st.StateType)
		}
		for _, opt := range st.Options {
			if opt.Digit == "" {
				return fmt.Errorf("scenario %q: state %q has an option without a digit", sc.Name, id)
			}
			if opt.NextState != "" {
				if _, ok := sc.States[opt.NextState]; !ok {
					return fmt.Errorf("scenario %q: state %q option %q points at unknown state %q", sc.Name, id, opt.Digit, opt.NextState)
				}
			}
		}
		for _, ref := range []string{st.TimeoutAction, st.InvalidAction} {
			if ref == "" {
				continue
			}
			if _, ok := sc.States[ref]; !ok {
				return fmt.Errorf("scenario %q: state %q references unknown state %q", sc.Name, id, ref)
			}
		}
	}
	return nil
}
