package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numericPart = regexp.MustCompile(`[0-9]+`)

// AtLeast reports whether version a is higher than or equal to b. Only the
// numeric parts are compared, so "v0.18.4-beta" and "0.18.4" are equal and a
// missing trailing part counts as 0.
func AtLeast(a, b string) (bool, error) {
	na, err := numbers(a)
	if err != nil {
		return false, err
	}
	nb, err := numbers(b)
	if err != nil {
		return false, err
	}
	for len(na) < len(nb) {
		na = append(na, 0)
	}
	for len(nb) < len(na) {
		nb = append(nb, 0)
	}
	for i := range na {
		if na[i] != nb[i] {
			return na[i] > nb[i], nil
		}
	}
	return true, nil
}

// numbers parses the release part of v, stopping at a pre-release suffix or
// build metadata such as lnd's " commit=...".
func numbers(v string) ([]int, error) {
	release := strings.Fields(v)
	if len(release) == 0 {
		return nil, fmt.Errorf("empty version string")
	}
	release[0], _, _ = strings.Cut(release[0], "-")
	var out []int
	for _, p := range numericPart.FindAllString(release[0], -1) {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("malformed version string %s: %w", v, err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("malformed version string %s", v)
	}
	return out, nil
}
