package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrInvalidSnapshot = errors.New("storage: snapshot failed validation")

// Partition reads and writes one JSON snapshot of type T in a KV.
type Partition[T any] struct {
	kv     KV
	name   string
	schema *jsonschema.Schema
}

func NewPartition[T any](kv KV, name string, schema *jsonschema.Schema) *Partition[T] {
	return &Partition[T]{kv: kv, name: name, schema: schema}
}

func (p *Partition[T]) Name() string {
	return p.name
}

// Load returns the zero snapshot when the partition has never been written.
func (p *Partition[T]) Load(ctx context.Context) (T, error) {
	var out T
	raw, err := p.kv.Get(ctx, p.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return out, nil
		}
		return out, fmt.Errorf("read partition %s: %w", p.name, err)
	}
	if strings.TrimSpace(string(raw)) == "" {
		return out, nil
	}
	if p.schema != nil {
		if err := p.validate(raw); err != nil {
			return out, err
		}
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode partition %s: %w", p.name, err)
	}
	return out, nil
}

func (p *Partition[T]) Save(ctx context.Context, v T) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode partition %s: %w", p.name, err)
	}
	return p.kv.Put(ctx, p.name, payload)
}

func (p *Partition[T]) validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, p.name, err)
	}
	if err := p.schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("%w: %s: %s", ErrInvalidSnapshot, p.name, firstCause(ve))
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidSnapshot, p.name, err)
	}
	return nil
}

func firstCause(ve *jsonschema.ValidationError) string {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	loc := ve.InstanceLocation
	if loc == "" {
		loc = "/"
	}
	return loc + ": " + ve.Message
}
