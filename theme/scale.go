package theme

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
)

// Step is a single magnitude level of a token family, e.g. 100 or "sm".
type Step interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64 |
		~string
}

// Scale maps a step's printed form to its custom property reference.
type Scale map[string]string

// GenerateScale builds a Scale whose values are var(--<label>-<step>) for each
// step. The label is used as-is. Repeated steps collapse to a single entry.
func GenerateScale[S Step](label string, steps ...S) Scale {
	scale := make(Scale, len(steps))
	for _, step := range steps {
		key := fmt.Sprint(step)
		scale[key] = Ref(label + "-" + key)
	}
	return scale
}

// Ref formats a reference to the custom property --name.
func Ref(name string) string {
	return "var(--" + name + ")"
}

// Keys returns the scale steps in natural order (2 before 10).
func (s Scale) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	return keys
}
