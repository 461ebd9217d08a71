package rules

import (
	"fmt"
	"path"
	"strings"
	"sync"
)

var (
	registry = make(map[string]Rule)
	order    []string
	mu       sync.RWMutex
)

// Register adds a rule. Rules are listed and evaluated in registration order.
func Register(r Rule) {
	mu.Lock()
	defer mu.Unlock()
	if _, exists := registry[r.ID()]; exists {
		panic(fmt.Sprintf("rule %s already registered", r.ID()))
	}
	// Wrap the rule with PolicyWrapper to provide severity overrides and waivers
	registry[r.ID()] = &PolicyWrapper{Rule: r}
	order = append(order, r.ID())
}

func List() []Rule {
	mu.RLock()
	defer mu.RUnlock()
	return listLocked()
}

func listLocked() []Rule {
	rules := make([]Rule, 0, len(order))
	for _, id := range order {
		rules = append(rules, registry[id])
	}
	return rules
}

func Lookup(id string) (Rule, bool) {
	mu.RLock()
	defer mu.RUnlock()
	r, ok := registry[id]
	return r, ok
}

// Resolve selects rules with a comma-separated selector expression.
//
// Each term is a rule ID or a path.Match pattern ("manifest.*"). A term
// prefixed with "!" removes matching rules. When the selector has only
// negations, selection starts from all rules. An empty selector selects all
// rules. The result keeps registration order.
func Resolve(selector string) ([]Rule, error) {
	mu.RLock()
	defer mu.RUnlock()

	if strings.TrimSpace(selector) == "" {
		return listLocked(), nil
	}

	selected := make(map[string]bool)
	onlyNegations := true
	var terms []string
	for _, raw := range strings.Split(selector, ",") {
		term := strings.TrimSpace(raw)
		if term == "" {
			continue
		}
		if !strings.HasPrefix(term, "!") {
			onlyNegations = false
		}
		terms = append(terms, term)
	}
	if onlyNegations {
		for _, id := range order {
			selected[id] = true
		}
	}

	for _, term := range terms {
		negate := strings.HasPrefix(term, "!")
		pattern := strings.TrimSpace(strings.TrimPrefix(term, "!"))
		ids, err := matchIDs(pattern)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			selected[id] = !negate
		}
	}

	var out []Rule
	for _, id := range order {
		if selected[id] {
			out = append(out, registry[id])
		}
	}
	return out, nil
}

func matchIDs(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?[") {
		if _, ok := registry[pattern]; !ok {
			return nil, fmt.Errorf("rule not found: %s", pattern)
		}
		return []string{pattern}, nil
	}
	var ids []string
	for _, id := range order {
		ok, err := path.Match(pattern, id)
		if err != nil {
			return nil, fmt.Errorf("invalid rule pattern %q: %w", pattern, err)
		}
		if ok {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("rule pattern matched no rules: %s", pattern)
	}
	return ids, nil
}
