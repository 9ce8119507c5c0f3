package conventions

import (
	"strings"

	corev1 "k8s.io/api/core/v1"
)

const targetFlag = "target="

// Target selects which sub-components a Loki process runs. It maps to the
// -target=<target> argument.
type Target string

// Arg renders t as a command line argument.
func (t Target) Arg() string {
	return "-" + targetFlag + string(t)
}

// parseTarget matches both -target= and --target=. Positional arguments
// without a leading dash are never targets.
func parseTarget(arg string) (Target, bool) {
	trimmed := strings.TrimLeft(arg, "-")
	if len(trimmed) == len(arg) || !strings.HasPrefix(trimmed, targetFlag) {
		return "", false
	}
	return Target(strings.TrimPrefix(trimmed, targetFlag)), true
}

// ContainerTarget reads the first target argument of a container. Writing
// drops every existing target argument and appends the new one, leaving the
// other arguments in order.
var ContainerTarget = NewLens(
	func(c corev1.Container) (Target, bool) {
		for _, arg := range c.Args {
			if t, ok := parseTarget(arg); ok {
				return t, true
			}
		}
		return "", false
	},
	func(c corev1.Container, t Target) corev1.Container {
		args := make([]string, 0, len(c.Args)+1)
		for _, arg := range c.Args {
			if _, ok := parseTarget(arg); ok {
				continue
			}
			args = append(args, arg)
		}
		c.Args = append(args, t.Arg())
		return c
	},
)

// CountTargets reports how many target arguments c carries.
func CountTargets(c corev1.Container) int {
	n := 0
	for _, arg := range c.Args {
		if _, ok := parseTarget(arg); ok {
			n++
		}
	}
	return n
}
