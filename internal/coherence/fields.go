package coherence

import "fmt"

// field declares one row attribute and the other attributes it
// depends on. fieldTable.run evaluates fields in a fixed topological order
// computed once from this declared dependency graph, replacing the
// original's "loop until every column succeeds" idiom with a single
// deterministic pass.
type field struct {
	name    string
	deps    []string
	compute func(b *rowBuilder)
}

// fieldTable computes, once, a topological evaluation order for a set
// of fields. It panics on an unknown dependency or a cycle — both are
// programmer errors in the declared table, not data-dependent.
type fieldTable struct {
	order []field
}

func newFieldTable(fields []field) fieldTable {
	byName := make(map[string]field, len(fields))
	for _, f := range fields {
		byName[f.name] = f
	}

	var order []field
	visited := make(map[string]int) // 0=unvisited, 1=in-progress, 2=done

	var visit func(name string) error
	visit = func(name string) error {
		switch visited[name] {
		case 2:
			return nil
		case 1:
			return fmt.Errorf("cyclic field dependency at %q", name)
		}
		visited[name] = 1
		f, ok := byName[name]
		if !ok {
			return fmt.Errorf("unknown field dependency %q", name)
		}
		for _, dep := range f.deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		visited[name] = 2
		order = append(order, f)
		return nil
	}

	for _, f := range fields {
		if err := visit(f.name); err != nil {
			panic(err)
		}
	}

	return fieldTable{order: order}
}

// run evaluates every field, in dependency order, against b.
func (t fieldTable) run(b *rowBuilder) {
	for _, f := range t.order {
		f.compute(b)
	}
}
