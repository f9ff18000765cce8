package d2routing

import (
	"fmt"
	"strings"

	"oss.terrastruct.com/d2flow/lib/go2"
)

const (
	NormalName     = "normal"
	OrthogonalName = "orthogonal"
	customName     = "custom"
)

var builtins = map[string]func() Router{
	NormalName:     func() Router { return Normal{} },
	OrthogonalName: func() Router { return NewOrthogonal() },
}

// Lookup returns a fresh instance of the builtin router registered under name.
func Lookup(name string) (Router, error) {
	f, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown router %q, expected one of %s", name, strings.Join(Names(), ", "))
	}
	return f(), nil
}

func Names() []string {
	return go2.SortedKeys(builtins)
}

// Name is the registry name of r, or "custom" for routers not in the registry.
func Name(r Router) string {
	switch r.(type) {
	case Normal, *Normal:
		return NormalName
	case *Orthogonal:
		return OrthogonalName
	}
	return customName
}
