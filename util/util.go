// Package util provides small domain-agnostic helpers shared by the CLI and the hosts.
package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sbskip/sbskip/filesystem"
)

// Quantify returns a pluralized string representation of a count.
func Quantify(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// Capitalize upper-cases the first byte of s.
func Capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// ReGroups maps the named capture groups of the first match of pattern in str.
// An empty map is returned when nothing matches.
func ReGroups(pattern *regexp.Regexp, str string) map[string]string {
	groups := make(map[string]string)
	match := pattern.FindStringSubmatch(str)
	if match == nil {
		return groups
	}

	for i, name := range pattern.SubexpNames() {
		if i > 0 && i < len(match) && name != "" && match[i] != "" {
			groups[name] = match[i]
		}
	}
	return groups
}

// PrintErasable shows msg on stderr until the returned func is called.
// Stdout stays clean for piped output.
func PrintErasable(msg string) (erase func()) {
	fmt.Fprintf(os.Stderr, "\r%s", msg)
	return func() {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", lipgloss.Width(msg)))
	}
}

// Ignore calls f and discards its error.
func Ignore(f func() error) {
	_ = f()
}

// Delete removes a file or a directory tree through the filesystem backend.
// A missing path is not an error.
func Delete(path string) error {
	backend := filesystem.API()
	stat, err := backend.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	if stat.IsDir() {
		return backend.RemoveAll(path)
	}
	return backend.Remove(path)
}
