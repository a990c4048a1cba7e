package repl

import (
	"fmt"
	"sort"
	"strings"
)

// builtins are handled by the REPL itself.
var builtins = []string{"exit", "quit", "history"}

// Completer knows the command paths of the shell ("article list").
type Completer struct {
	commands []string
}

// NewCompleter creates a completer for the given command paths plus the
// shell builtins.
func NewCompleter(commands ...string) *Completer {
	seen := make(map[string]bool)
	var all []string
	for _, cmd := range append(append([]string{}, commands...), builtins...) {
		if cmd == "" || seen[cmd] {
			continue
		}
		seen[cmd] = true
		all = append(all, cmd)
	}
	sort.Strings(all)
	return &Completer{commands: all}
}

// Commands returns every known command path, sorted.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}

// Complete returns the command paths starting with prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Resolve expands abbreviated command words: "art ls" style prefixes
// become "article list" when exactly one command matches. Words that
// match nothing are left for the command parser to report. Flags and
// positional arguments end the expansion.
func (c *Completer) Resolve(args []string) ([]string, error) {
	out := append([]string(nil), args...)
	path := ""
	for i, word := range out {
		if strings.HasPrefix(word, "-") {
			break
		}

		candidates := c.children(path)
		if len(candidates) == 0 {
			break
		}

		match, err := pick(candidates, word)
		if err != nil {
			return nil, err
		}
		if match == "" {
			break
		}
		out[i] = match
		path = strings.TrimSpace(path + " " + match)
	}
	return out, nil
}

// children returns the distinct words that follow path.
func (c *Completer) children(path string) []string {
	prefix := ""
	if path != "" {
		prefix = path + " "
	}

	seen := make(map[string]bool)
	var words []string
	for _, cmd := range c.commands {
		if !strings.HasPrefix(cmd, prefix) || cmd == path {
			continue
		}
		word, _, _ := strings.Cut(strings.TrimPrefix(cmd, prefix), " ")
		if !seen[word] {
			seen[word] = true
			words = append(words, word)
		}
	}
	return words
}

func pick(candidates []string, word string) (string, error) {
	var matches []string
	for _, cand := range candidates {
		if cand == word {
			return cand, nil
		}
		if strings.HasPrefix(cand, word) {
			matches = append(matches, cand)
		}
	}

	switch len(matches) {
	case 0:
		return "", nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("ambiguous command %q: could be %s", word, strings.Join(matches, ", "))
	}
}
