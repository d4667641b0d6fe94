package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// TaskMetadata holds the optional free-form details of a task. ProgressNote
// carries the legacy string form of progressTracker; when both are set the
// structured ProgressTracker is the one written back out.
type TaskMetadata struct {
	Contact         *Contact         `json:"contact,omitempty"`
	Cost            string           `json:"cost,omitempty"`
	Timeline        string           `json:"timeline,omitempty"`
	DocumentsNeeded []string         `json:"documentsNeeded,omitempty"`
	Contingencies   string           `json:"contingencies,omitempty"`
	ProgressTracker *ProgressTracker `json:"-"`
	ProgressNote    string           `json:"-"`
}

type metadataWire struct {
	Contact         *Contact        `json:"contact,omitempty"`
	Cost            string          `json:"cost,omitempty"`
	Timeline        string          `json:"timeline,omitempty"`
	DocumentsNeeded []string        `json:"documentsNeeded,omitempty"`
	Contingencies   string          `json:"contingencies,omitempty"`
	ProgressTracker json.RawMessage `json:"progressTracker,omitempty"`
}

func (m TaskMetadata) MarshalJSON() ([]byte, error) {
	wire := metadataWire{
		Contact:         m.Contact,
		Cost:            m.Cost,
		Timeline:        m.Timeline,
		DocumentsNeeded: m.DocumentsNeeded,
		Contingencies:   m.Contingencies,
	}
	if m.Contact.IsZero() {
		wire.Contact = nil
	}
	var err error
	switch {
	case m.ProgressTracker != nil:
		wire.ProgressTracker, err = json.Marshal(m.ProgressTracker)
	case m.ProgressNote != "":
		wire.ProgressTracker, err = json.Marshal(m.ProgressNote)
	}
	if err != nil {
		return nil, fmt.Errorf("encode progress tracker: %w", err)
	}
	return json.Marshal(wire)
}

func (m *TaskMetadata) UnmarshalJSON(data []byte) error {
	var wire metadataWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*m = TaskMetadata{
		Contact:         wire.Contact,
		Cost:            wire.Cost,
		Timeline:        wire.Timeline,
		DocumentsNeeded: wire.DocumentsNeeded,
		Contingencies:   wire.Contingencies,
	}
	raw := bytes.TrimSpace(wire.ProgressTracker)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '"' {
		return json.Unmarshal(raw, &m.ProgressNote)
	}
	var tracker ProgressTracker
	if err := json.Unmarshal(raw, &tracker); err != nil {
		return fmt.Errorf("decode progress tracker: %w", err)
	}
	m.ProgressTracker = &tracker
	return nil
}

func (m TaskMetadata) Clone() TaskMetadata {
	if m.Contact != nil {
		c := *m.Contact
		m.Contact = &c
	}
	m.DocumentsNeeded = slices.Clone(m.DocumentsNeeded)
	m.ProgressTracker = m.ProgressTracker.Clone()
	return m
}

// IsZero reports "no metadata": every field absent.
func (m TaskMetadata) IsZero() bool {
	return m.Contact.IsZero() &&
		m.Cost == "" &&
		m.Timeline == "" &&
		len(m.DocumentsNeeded) == 0 &&
		m.Contingencies == "" &&
		m.ProgressTracker == nil &&
		m.ProgressNote == ""
}
