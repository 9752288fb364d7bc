// Copyright © 2025 TermLink contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Section access, defaults merging, cloning and typed
// getters for the config store.

package config

import "strconv"

// sectionOf normalizes the two shapes a section value takes: maps
// freshly decoded from JSON and sections built in code.
func sectionOf(v interface{}) (Section, bool) {
	switch s := v.(type) {
	case Section:
		return s, true
	case map[string]interface{}:
		return Section(s), true
	}
	return nil, false
}

// Section returns the named section, or the root key space for "".
// Missing sections yield nil, which every getter treats as empty.
func (c Config) Section(name string) Section {
	if c == nil {
		return nil
	}
	if name == "" {
		return Section(c)
	}
	if s, ok := sectionOf(c[name]); ok {
		return s
	}
	return nil
}

// RegisterDefaults fills in missing keys without overwriting values
// the user has set.
func (c Config) RegisterDefaults(name string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	target := c.Section(name)
	if target == nil {
		target = make(Section)
		c[name] = target
	}
	for key, value := range defaults {
		if _, ok := target[key]; !ok {
			target[key] = value
		}
	}
}

// Clone copies the config one section deep so later edits through Set
// never alias the caller's maps.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	out := make(Config, len(cfg))
	for name, value := range cfg {
		if section, ok := sectionOf(value); ok {
			copied := make(Section, len(section))
			for key, v := range section {
				copied[key] = v
			}
			out[name] = copied
			continue
		}
		out[name] = value
	}
	return out
}

func (c Config) lookup(section, key string) (interface{}, bool) {
	s := c.Section(section)
	if s == nil {
		return nil, false
	}
	v, ok := s[key]
	return v, ok
}

// GetString retrieves a string value, falling back when the key is
// missing or holds another type.
func (c Config) GetString(section, key, fallback string) string {
	if v, ok := c.lookup(section, key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

// GetFloat retrieves a float, accepting the int and quoted spellings
// a hand-edited JSON file ends up with.
func (c Config) GetFloat(section, key string, fallback float64) float64 {
	v, ok := c.lookup(section, key)
	if !ok {
		return fallback
	}
	switch v := v.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// GetInt retrieves an integer; JSON numbers arrive as float64 and are
// truncated.
func (c Config) GetInt(section, key string, fallback int) int {
	v, ok := c.lookup(section, key)
	if !ok {
		return fallback
	}
	switch v := v.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// GetBool retrieves a boolean, accepting the quoted spelling.
func (c Config) GetBool(section, key string, fallback bool) bool {
	v, ok := c.lookup(section, key)
	if !ok {
		return fallback
	}
	switch v := v.(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
