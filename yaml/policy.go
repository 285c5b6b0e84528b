// Package yaml loads extraction policy overrides from YAML files.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/readurl"
	"gopkg.in/yaml.v3"
)

// policyFile mirrors readurl.Policy with platform sections kept as raw
// nodes so they can be merged onto the defaults.
type policyFile struct {
	Generic   yaml.Node                     `yaml:"generic"`
	Platforms map[readurl.Platform]yaml.Node `yaml:"platforms"`
}

// LoadPolicy reads the YAML file at path over readurl.DefaultPolicy.
// Scalars override individual defaults, a platform section merges onto the
// default entry for that platform, and a marker list replaces the default
// list wholesale. The result is validated.
func LoadPolicy(path string) (*readurl.Policy, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(b)
}

// ParsePolicy is LoadPolicy for YAML already in memory. Empty input yields
// the default policy.
func ParsePolicy(b []byte) (*readurl.Policy, error) {
	policy := readurl.DefaultPolicy()

	var pf policyFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return nil, readurl.Errorf(readurl.EINVALID, "parse policy: %v", err)
	}

	if pf.Generic.Kind != 0 {
		if err := decodeStrict(&pf.Generic, &policy.Generic); err != nil {
			return nil, readurl.Errorf(readurl.EINVALID, "parse generic policy: %v", err)
		}
	}

	for name, node := range pf.Platforms {
		pp := policy.Platforms[name]
		if err := decodeStrict(&node, &pp); err != nil {
			return nil, readurl.Errorf(readurl.EINVALID, "parse platform %q policy: %v", name, err)
		}
		policy.Platforms[name] = pp
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return policy, nil
}

// decodeStrict decodes node onto v, rejecting keys v does not declare.
// Node.Decode ignores KnownFields, so the node is re-encoded and read back
// through a strict decoder. Fields absent from node keep their value in v.
func decodeStrict(node *yaml.Node, v any) error {
	b, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MarshalPolicy renders a policy as YAML, for use as a starting point for
// an override file.
func MarshalPolicy(policy *readurl.Policy) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(policy); err != nil {
		return nil, fmt.Errorf("encode policy: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode policy: %w", err)
	}
	return buf.Bytes(), nil
}
