package content

import (
	"errors"
	"fmt"
)

// Validate checks referential integrity: unique ids, known prerequisites,
// an acyclic research tree, and events whose choices have ids.
func Validate(c Catalog) error {
	defs := make(map[string][]string, len(c.Research))
	for _, def := range c.Research {
		if def.ID == "" {
			return errors.New("research node without id")
		}
		if _, dup := defs[def.ID]; dup {
			return fmt.Errorf("duplicate research node %q", def.ID)
		}
		defs[def.ID] = def.Prerequisites
	}
	for id, prereqs := range defs {
		for _, pre := range prereqs {
			if _, ok := defs[pre]; !ok {
				return fmt.Errorf("research node %q requires unknown node %q", id, pre)
			}
		}
	}
	if err := checkAcyclic(defs); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(c.Events))
	for _, ev := range c.Events {
		if ev.ID == "" {
			return errors.New("event without id")
		}
		if _, dup := seen[ev.ID]; dup {
			return fmt.Errorf("duplicate event %q", ev.ID)
		}
		seen[ev.ID] = struct{}{}
		for _, choice := range ev.Choices {
			if choice.ID == "" {
				return fmt.Errorf("event %q has a choice without id", ev.ID)
			}
		}
		for _, pre := range ev.Trigger.RequiresResearch {
			if _, ok := defs[pre]; !ok {
				return fmt.Errorf("event %q requires unknown research %q", ev.ID, pre)
			}
		}
	}
	return nil
}

func checkAcyclic(defs map[string][]string) error {
	const (
		unvisited = iota
		visiting
		done
	)
	marks := make(map[string]int, len(defs))
	var visit func(id string) error
	visit = func(id string) error {
		switch marks[id] {
		case visiting:
			return fmt.Errorf("research prerequisites form a cycle at %q", id)
		case done:
			return nil
		}
		marks[id] = visiting
		for _, pre := range defs[id] {
			if err := visit(pre); err != nil {
				return err
			}
		}
		marks[id] = done
		return nil
	}
	for id := range defs {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}
