package engine

import (
	"fmt"

	"github.com/chazu/exolattice/pkg/design"
)

// Program is the output of one evaluation: the designs in declaration
// order. Names are unique.
type Program struct {
	Designs []*design.Design
	byName  map[string]*design.Design
}

func newProgram() *Program {
	return &Program{byName: make(map[string]*design.Design)}
}

func (p *Program) add(d *design.Design) error {
	if _, dup := p.byName[d.Name]; dup {
		return fmt.Errorf("design %q already defined", d.Name)
	}
	p.byName[d.Name] = d
	p.Designs = append(p.Designs, d)
	return nil
}

func (p *Program) Len() int {
	return len(p.Designs)
}

// Lookup returns the design with the given name, or nil.
func (p *Program) Lookup(name string) *design.Design {
	return p.byName[name]
}
