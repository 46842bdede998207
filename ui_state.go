package main

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// uiState is what the app remembers between runs, keyed by data source.
type uiState struct {
	Theme   string                  `yaml:"theme,omitempty"`
	Sources map[string]*sourceState `yaml:"sources,omitempty"`
}

type sourceState struct {
	ColumnWidths map[string]int `yaml:"column_widths,omitempty"`
	GroupBy      []string       `yaml:"group_by,omitempty"`
}

func loadUIState() (*uiState, string) {
	configDir := resolveConfigDir()
	path := filepath.Join(configDir, "ui.yaml")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return &uiState{}, path
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return &uiState{}, path
	}
	var state uiState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return &uiState{}, path
	}
	return &state, path
}

func saveUIState(state *uiState, path string) error {
	if state == nil {
		state = &uiState{}
	}
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// source returns the remembered state for key, creating it on first use.
func (s *uiState) source(key string) *sourceState {
	if s.Sources == nil {
		s.Sources = make(map[string]*sourceState)
	}
	st, ok := s.Sources[key]
	if !ok {
		st = &sourceState{}
		s.Sources[key] = st
	}
	return st
}

func (st *sourceState) setColumnWidth(key string, width int) {
	if st.ColumnWidths == nil {
		st.ColumnWidths = make(map[string]int)
	}
	st.ColumnWidths[key] = width
}

func resolveConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "gridview")
}
