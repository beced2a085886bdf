// Package schema describes the physical tables behind the analytics API and
// the relations that make each of them reachable from the sales fact table.
package schema

import (
	"fmt"

	"sales-analytics/internal/domain"
)

// Table is a physical table name.
type Table string

// Column is a table-qualified column reference.
type Column struct {
	Table Table
	Name  string
}

// Col builds a Column.
func Col(table Table, name string) Column {
	return Column{Table: table, Name: name}
}

// String renders the column as table.column.
func (c Column) String() string {
	return string(c.Table) + "." + c.Name
}

// Relation is a directed join edge from a parent table to a child table.
// Parent is the parent-side column of the equality predicate and Child the
// child-side column; the child table is the one being joined.
type Relation struct {
	Parent Column
	Child  Column
	Kind   domain.JoinKind
}

// From returns the table the relation starts from.
func (r Relation) From() Table { return r.Parent.Table }

// To returns the table the relation joins.
func (r Relation) To() Table { return r.Child.Table }

// On renders the join predicate.
func (r Relation) On() string {
	return r.Parent.String() + " = " + r.Child.String()
}

// Step converts the relation to a join chain entry.
func (r Relation) Step() domain.JoinStep {
	return domain.JoinStep{
		Table: string(r.To()),
		From:  string(r.From()),
		On:    r.On(),
		Kind:  r.Kind,
	}
}

// Graph is a tree of relations rooted at a fact table. Each non-root table is
// the target of exactly one relation, so every table has a single path from
// the root. A Graph is immutable after NewGraph returns.
type Graph struct {
	root      Table
	relations []Relation
	byTarget  map[Table]int
}

// NewGraph validates relations and builds a Graph. Relations must be listed
// parent first: a relation's parent is either the root or the target of an
// earlier relation. That order is also the order joins are emitted in.
func NewGraph(root Table, relations ...Relation) (*Graph, error) {
	if err := ValidateIdentifier(string(root)); err != nil {
		return nil, domain.ErrConfiguration("root table: %v", err)
	}

	g := &Graph{
		root:      root,
		relations: make([]Relation, 0, len(relations)),
		byTarget:  make(map[Table]int, len(relations)),
	}
	for i, rel := range relations {
		if err := validateRelation(rel); err != nil {
			return nil, domain.ErrConfiguration("relation %d (%s): %v", i, rel.To(), err)
		}
		if rel.To() == root {
			return nil, domain.ErrConfiguration("relation %d: root table %q cannot be a join target", i, root)
		}
		if _, dup := g.byTarget[rel.To()]; dup {
			return nil, domain.ErrConfiguration("relation %d: table %q is already joined by another relation", i, rel.To())
		}
		if rel.From() != root {
			parentIdx, ok := g.byTarget[rel.From()]
			if !ok {
				return nil, domain.ErrConfiguration("relation %d: parent table %q of %q is not reachable from %q", i, rel.From(), rel.To(), root)
			}
			// An inner join below an optional relation would drop the rows the
			// left join kept.
			if g.relations[parentIdx].Kind == domain.JoinLeft && rel.Kind != domain.JoinLeft {
				return nil, domain.ErrConfiguration("relation %d: %q hangs off optional relation %q and must be a LEFT JOIN", i, rel.To(), rel.From())
			}
		}
		g.byTarget[rel.To()] = len(g.relations)
		g.relations = append(g.relations, rel)
	}
	return g, nil
}

func validateRelation(rel Relation) error {
	for _, name := range []string{string(rel.Parent.Table), rel.Parent.Name, string(rel.Child.Table), rel.Child.Name} {
		if err := ValidateIdentifier(name); err != nil {
			return err
		}
	}
	if rel.Parent.Table == rel.Child.Table {
		return fmt.Errorf("self join on %q is not supported", rel.Parent.Table)
	}
	switch rel.Kind {
	case domain.JoinInner, domain.JoinLeft:
	default:
		return fmt.Errorf("unknown join kind %q", rel.Kind)
	}
	return nil
}

// Root returns the fact table every query starts from.
func (g *Graph) Root() Table { return g.root }

// Has reports whether t is the root or a join target.
func (g *Graph) Has(t Table) bool {
	if t == g.root {
		return true
	}
	_, ok := g.byTarget[t]
	return ok
}

// Tables returns the root followed by every join target in registration order.
func (g *Graph) Tables() []Table {
	out := make([]Table, 0, len(g.relations)+1)
	out = append(out, g.root)
	for _, rel := range g.relations {
		out = append(out, rel.To())
	}
	return out
}

// Relations returns a copy of the relations in registration order.
func (g *Graph) Relations() []Relation {
	return append([]Relation(nil), g.relations...)
}

// Path returns the relations leading from the root to t, root first.
// The path to the root itself is empty.
func (g *Graph) Path(t Table) ([]Relation, error) {
	if t == g.root {
		return nil, nil
	}
	var path []Relation
	for cur := t; cur != g.root; {
		idx, ok := g.byTarget[cur]
		if !ok {
			return nil, domain.ErrConfiguration("no join path from %q to %q", g.root, t)
		}
		rel := g.relations[idx]
		path = append(path, rel)
		cur = rel.From()
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// JoinChain returns the joins needed to reach every table in tables from the
// root. Every intermediate table is included, no table appears twice, and the
// chain follows registration order, so the same set of tables always yields
// the same chain regardless of the order they were asked for in.
func (g *Graph) JoinChain(tables ...Table) ([]domain.JoinStep, error) {
	needed := make(map[Table]struct{}, len(tables))
	for _, t := range tables {
		if _, seen := needed[t]; seen || t == g.root {
			continue
		}
		path, err := g.Path(t)
		if err != nil {
			return nil, err
		}
		for _, rel := range path {
			needed[rel.To()] = struct{}{}
		}
	}

	chain := make([]domain.JoinStep, 0, len(needed))
	for _, rel := range g.relations {
		if _, ok := needed[rel.To()]; ok {
			chain = append(chain, rel.Step())
		}
	}
	return chain, nil
}
