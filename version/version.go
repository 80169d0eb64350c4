/*package version tracks the semantic version of the toolbox and checks it
against the versions named in config files.*/
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the version string representing the semantic version number
// of the source code.
const SourceVersion = "0.4.0"

// ErrSyntax is returned for strings which are not of the form major.minor.patch.
var ErrSyntax = errors.New("version string does not take the form of " +
	"three period-separated non-negative numbers")

// Version is a parsed semantic version number.
type Version struct {
	Major, Minor, Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0, or +1 depending on whether v is earlier than, the
// same as, or later than u.
func (v Version) Compare(u Version) int {
	a := [3]int{v.Major, v.Minor, v.Patch}
	b := [3]int{u.Major, u.Minor, u.Patch}
	for i := range a {
		switch {
		case a[i] > b[i]:
			return +1
		case a[i] < b[i]:
			return -1
		}
	}
	return 0
}

// Parse parses a semantic version number string and returns an error if
// the string is invalid.
func Parse(s string) (Version, error) {
	toks := strings.Split(s, ".")
	if len(toks) != 3 {
		return Version{}, fmt.Errorf("%w: '%s'", ErrSyntax, s)
	}

	var n [3]int
	for i := range toks {
		x, err := strconv.Atoi(toks[i])
		if err != nil || x < 0 {
			return Version{}, fmt.Errorf("%w: '%s'", ErrSyntax, s)
		}
		n[i] = x
	}
	return Version{n[0], n[1], n[2]}, nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	v1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	v2, err := Parse(s2)
	if err != nil {
		return false, err
	}
	return v1.Compare(v2) > 0, nil
}

// Check returns an error unless s names the same version as SourceVersion.
func Check(s string) error {
	v, err := Parse(s)
	if err != nil {
		return fmt.Errorf("I couldn't parse the 'Version' variable: %w", err)
	}
	src, _ := Parse(SourceVersion)
	if v.Compare(src) != 0 {
		return fmt.Errorf("The 'Version' variable is set to %s, but the "+
			"version of the source is %s.", s, SourceVersion)
	}
	return nil
}
