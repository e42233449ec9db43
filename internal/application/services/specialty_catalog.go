package services

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// SpecialtyCatalog maps the specialty names a model produces ("cardiologue",
// "cardiology") onto the names the doctor directory stores ("Cardiologie").
type SpecialtyCatalog struct {
	aliases map[string]string
	mu      sync.RWMutex
}

// NewSpecialtyCatalog loads a catalog from a JSON object of canonical name to aliases.
func NewSpecialtyCatalog(configPath string) (*SpecialtyCatalog, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read specialty catalog: %w", err)
	}

	var mappings map[string][]string
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("failed to parse specialty catalog: %w", err)
	}
	return NewSpecialtyCatalogFromMap(mappings), nil
}

// NewSpecialtyCatalogFromMap builds a catalog from canonical name to aliases.
func NewSpecialtyCatalogFromMap(mappings map[string][]string) *SpecialtyCatalog {
	c := &SpecialtyCatalog{aliases: make(map[string]string)}
	for canonical, aliases := range mappings {
		c.aliases[specialtyKey(canonical)] = canonical
		for _, alias := range aliases {
			c.aliases[specialtyKey(alias)] = canonical
		}
	}
	return c
}

// Canonicalize rewrites known specialties to their canonical name, keeps
// unknown ones as given and drops duplicates. A nil catalog only dedupes.
func (c *SpecialtyCatalog) Canonicalize(specialties []string) []string {
	out := make([]string, 0, len(specialties))
	seen := make(map[string]bool, len(specialties))

	for _, s := range specialties {
		name := strings.TrimSpace(s)
		if name == "" {
			continue
		}
		if canonical, ok := c.lookup(name); ok {
			name = canonical
		}
		key := specialtyKey(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}

// Len returns the number of known names, aliases included
func (c *SpecialtyCatalog) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.aliases)
}

func (c *SpecialtyCatalog) lookup(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	canonical, ok := c.aliases[specialtyKey(name)]
	return canonical, ok
}

func specialtyKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
