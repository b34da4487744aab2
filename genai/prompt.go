// Package genai provides the structured-generation primitive: prompt
// templates with named placeholders, a thin client interface over the
// model API, and a typed function wrapper that parses model output into
// Go values with bounded retries and cumulative token accounting.
package genai

import (
	"fmt"
	"sort"
	"strings"
)

// Prompt is a text template with {name} placeholders. Literal braces
// are written as {{ and }}. Placeholders are discovered at construction
// so Format can fail fast on missing variables before any model call.
type Prompt struct {
	template string
	vars     map[string]struct{}
}

// NewPrompt parses the template and returns an error for unbalanced or
// empty placeholders.
func NewPrompt(template string) (*Prompt, error) {
	vars := make(map[string]struct{})
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case '{':
			if i+1 < len(template) && template[i+1] == '{' {
				i++
				continue
			}
			end := strings.IndexByte(template[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			name := template[i+1 : i+1+end]
			if name == "" {
				return nil, fmt.Errorf("empty placeholder at offset %d", i)
			}
			if !validPlaceholder(name) {
				return nil, fmt.Errorf("invalid placeholder name %q", name)
			}
			vars[name] = struct{}{}
			i += end + 1
		case '}':
			if i+1 < len(template) && template[i+1] == '}' {
				i++
				continue
			}
			return nil, fmt.Errorf("unmatched '}' at offset %d", i)
		}
	}
	return &Prompt{template: template, vars: vars}, nil
}

// MustPrompt is NewPrompt for templates known at compile time.
func MustPrompt(template string) *Prompt {
	p, err := NewPrompt(template)
	if err != nil {
		panic(err)
	}
	return p
}

// Vars returns the placeholder names in sorted order.
func (p *Prompt) Vars() []string {
	names := make([]string, 0, len(p.vars))
	for name := range p.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format substitutes values for every placeholder. Every declared
// placeholder must be present in values; extra values are ignored.
func (p *Prompt) Format(values map[string]string) (string, error) {
	var missing []string
	for name := range p.vars {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("missing prompt variables: %s", strings.Join(missing, ", "))
	}

	var b strings.Builder
	b.Grow(len(p.template))
	for i := 0; i < len(p.template); i++ {
		c := p.template[i]
		switch c {
		case '{':
			if p.template[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(p.template[i+1:], '}')
			name := p.template[i+1 : i+1+end]
			b.WriteString(values[name])
			i += end + 1
		case '}':
			// NewPrompt guarantees this is an escaped "}}".
			b.WriteByte('}')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func validPlaceholder(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
