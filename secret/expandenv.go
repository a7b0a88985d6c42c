package secret

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ExpandEnvStrict expands `$VAR` and `${VAR}` references in s and errors if
// any referenced variable is missing from the environment. A config that
// silently expands an unset credential variable to "" fails much later and
// much more confusingly. `$$` emits a literal `$`.
func ExpandEnvStrict(s string) (string, error) {
	missing := make(map[string]struct{})

	out := os.Expand(s, func(name string) string {
		if name == "$" {
			return "$"
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			missing[name] = struct{}{}
			return ""
		}
		return value
	})

	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		return "", fmt.Errorf("missing required environment variables: %s", strings.Join(names, ", "))
	}
	return out, nil
}
