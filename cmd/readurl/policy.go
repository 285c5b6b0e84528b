package main

import (
	"github.com/fwojciec/readurl/yaml"
)

// Run executes the policy command.
func (c *PolicyCmd) Run(deps *Dependencies) error {
	b, err := yaml.MarshalPolicy(deps.Policy)
	if err != nil {
		return err
	}
	_, err = deps.Stdout.Write(b)
	return err
}
