package slots

import (
	"fmt"
	"path"
	"strings"
)

// resolveRelativePath rewrites a template reference starting with ./ or ../
// to a name relative to the template that contains the tag. Only quoted
// references are rewritten; anything else is returned untouched.
func resolveRelativePath(current, given string, allowRecursion bool) (string, error) {
	quoted := len(given) >= 2 && (given[0] == '"' || given[0] == '\'') && given[len(given)-1] == given[0]
	if !quoted {
		return given, nil
	}
	name := given[1 : len(given)-1]
	if !strings.HasPrefix(name, "./") && !strings.HasPrefix(name, "../") {
		return given, nil
	}
	if current == "" {
		return "", fmt.Errorf("the relative path %s cannot be evaluated due to an unknown template origin", given)
	}
	cur := strings.TrimPrefix(current, "/")
	name = path.Clean(path.Join(path.Dir(cur), name))
	if name == ".." || strings.HasPrefix(name, "../") {
		return "", fmt.Errorf("the relative path %s points outside the file hierarchy that template '%s' is in", given, current)
	}
	if !allowRecursion && normalizeName(cur) == normalizeName(name) {
		return "", fmt.Errorf("the relative path %s was translated to template name '%s', the same template in which the tag appears", given, name)
	}
	return `"` + name + `"`, nil
}
