package d2paths

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/d2flow/lib/go2"
)

const (
	StraightName = "straight"
	SmoothName   = "smooth"
	customName   = "custom"
)

var builtins = map[string]Generator{
	StraightName: Straight{},
	SmoothName:   Smooth{},
}

func Lookup(name string) (Generator, error) {
	g, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown path generator %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return g, nil
}

func Names() []string {
	return go2.SortedKeys(builtins)
}

// Name is the registry name of g, or "custom" for generators not in the registry.
func Name(g Generator) string {
	switch g.(type) {
	case Straight, *Straight:
		return StraightName
	case Smooth, *Smooth:
		return SmoothName
	}
	return customName
}
