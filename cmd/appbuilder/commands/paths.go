package commands

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PathsCmd implements the 'paths' command.
type PathsCmd struct{}

func (p *PathsCmd) Run(g *Global, root *CLI) error {
	ps, _, err := project(g, root.Root)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(g.stdout())
	defer func() { _ = enc.Close() }()
	if err := enc.Encode(ps); err != nil {
		return fmt.Errorf("encode paths: %w", err)
	}
	return nil
}
