// Package version checks the published releases for a newer build.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

type semver struct {
	core       [3]int
	prerelease string
}

func parse(s string) (semver, error) {
	var v semver

	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	s, v.prerelease, _ = strings.Cut(s, "-")

	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return v, fmt.Errorf("version %q: want major.minor.patch", s)
	}

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return v, fmt.Errorf("version %q: bad component %q", s, part)
		}
		v.core[i] = n
	}

	return v, nil
}

// Compare returns 1 if a is newer than b, -1 if older and 0 if they match.
// A pre-release sorts before the release it precedes.
func Compare(a, b string) (int, error) {
	av, err := parse(a)
	if err != nil {
		return 0, err
	}

	bv, err := parse(b)
	if err != nil {
		return 0, err
	}

	for i := range av.core {
		switch {
		case av.core[i] > bv.core[i]:
			return 1, nil
		case av.core[i] < bv.core[i]:
			return -1, nil
		}
	}

	switch {
	case av.prerelease == bv.prerelease:
		return 0, nil
	case av.prerelease == "":
		return 1, nil
	case bv.prerelease == "":
		return -1, nil
	}

	return strings.Compare(av.prerelease, bv.prerelease), nil
}
