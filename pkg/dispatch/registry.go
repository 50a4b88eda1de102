package dispatch

import (
	"fmt"
	"sort"
)

// Registry stores command definitions by name. It is populated once at
// startup and read-only afterwards; it performs no dispatch itself.
type Registry struct {
	fallbackCategory string
	byName           map[string]*Command
	ordered          []*Command
}

// NewRegistry returns an empty registry. Commands registered without a
// category are assigned fallbackCategory.
func NewRegistry(fallbackCategory string) *Registry {
	return &Registry{
		fallbackCategory: fallbackCategory,
		byName:           make(map[string]*Command),
	}
}

// Register validates and adds a command definition. Callers at startup are
// expected to log the error and skip the definition rather than abort.
func (r *Registry) Register(c *Command) error {
	if c == nil {
		return fmt.Errorf("nil command")
	}
	if c.Name == "" {
		return fmt.Errorf("command without a name")
	}
	if c.Run == nil {
		return fmt.Errorf("command %q: no handler", c.Name)
	}
	if c.InteractionOnly && c.MessageOnly {
		return fmt.Errorf("command %q: interaction-only and message-only are mutually exclusive", c.Name)
	}
	if c.Permissions != nil && c.Permissions.GuildOnly && c.Permissions.DMOnly {
		return fmt.Errorf("command %q: guild-only and dm-only are mutually exclusive", c.Name)
	}
	if err := validateSchema(c.Args); err != nil {
		return fmt.Errorf("command %q: %w", c.Name, err)
	}
	if _, exists := r.byName[c.Name]; exists {
		return fmt.Errorf("command %q: name already registered", c.Name)
	}
	if taken := r.aliasCollision(c); taken != "" {
		return fmt.Errorf("command %q: alias %q already in use", c.Name, taken)
	}
	if c.Category == "" {
		c.Category = r.fallbackCategory
	}

	r.byName[c.Name] = c
	r.ordered = append(r.ordered, c)
	return nil
}

// Get returns the command with the given primary name. Alias and
// typo-tolerant lookup live in Resolve and Suggest.
func (r *Registry) Get(name string) (*Command, bool) {
	c, ok := r.byName[name]
	return c, ok
}

// All returns every registered command, sorted by name.
func (r *Registry) All() []*Command {
	list := make([]*Command, len(r.ordered))
	copy(list, r.ordered)
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}

// validateSchema rejects schemas where a required spec follows an optional
// one: positional token consumption would silently mis-parse such a schema,
// so it is refused at registration instead.
func validateSchema(specs []ArgSpec) error {
	seenOptional := false
	names := make(map[string]bool, len(specs))
	for _, spec := range specs {
		if spec.Name == "" {
			return fmt.Errorf("argument without a name")
		}
		if names[spec.Name] {
			return fmt.Errorf("duplicate argument %q", spec.Name)
		}
		names[spec.Name] = true
		if spec.Required && seenOptional {
			return fmt.Errorf("required argument %q declared after an optional one", spec.Name)
		}
		if !spec.Required {
			seenOptional = true
		}
	}
	return nil
}

func (r *Registry) aliasCollision(c *Command) string {
	taken := make(map[string]bool)
	for _, existing := range r.ordered {
		taken[existing.Name] = true
		for _, a := range existing.Aliases {
			taken[a] = true
		}
	}
	for _, a := range c.Aliases {
		if a == c.Name || taken[a] {
			return a
		}
	}
	return ""
}
