package version

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Release of create-creatif. Template set manifests may name the minimum release they need.
const (
	Major = 0
	Minor = 3
	Patch = 0
)

var ErrInvalidVersion = errors.New("invalid version")

type Version struct {
	Major int
	Minor int
	Patch int
}

func Current() Version {
	return Version{Major, Minor, Patch}
}

func String() string {
	return Current().String()
}

// UserAgent is sent with every outgoing HTTP request.
func UserAgent() string {
	return "create-creatif/" + String()
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Parse accepts "x.y.z" with an optional leading "v".
func Parse(s string) (Version, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")

	fields := strings.Split(raw, ".")
	if len(fields) != 3 {
		return Version{}, fmt.Errorf("%w: %q (expected x.y.z)", ErrInvalidVersion, raw)
	}

	var n [3]int
	for i, field := range fields {
		v, err := strconv.Atoi(field)
		if err != nil || v < 0 {
			return Version{}, fmt.Errorf("%w: %q (component %d is not a non-negative integer)", ErrInvalidVersion, raw, i+1)
		}
		n[i] = v
	}

	return Version{n[0], n[1], n[2]}, nil
}

func (v Version) Compare(other Version) int {
	if c := cmp.Compare(v.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(v.Minor, other.Minor); c != 0 {
		return c
	}
	return cmp.Compare(v.Patch, other.Patch)
}

// Supports reports whether v satisfies the minimum release min. An empty min is always satisfied.
func (v Version) Supports(min string) (bool, error) {
	if strings.TrimSpace(min) == "" {
		return true, nil
	}

	req, err := Parse(min)
	if err != nil {
		return false, err
	}

	return v.Compare(req) >= 0, nil
}
