package patch

import "strings"

// stripDiffPrefix removes git-style a/ b/ prefixes and a leading ./ from a
// header path, after converting backslashes.
func stripDiffPrefix(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	if strings.HasPrefix(p, "b/") || strings.HasPrefix(p, "a/") {
		p = p[2:]
	}
	return strings.TrimPrefix(p, "./")
}

// Targets lists the files named by the diff's +++ headers, prefixes stripped
// and /dev/null excluded. Callers use this to snapshot files before an apply
// so the operation can be reverted.
func Targets(diffText string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range targetHeaderRegex.FindAllStringSubmatch(diffText, -1) {
		t := stripDiffPrefix(strings.TrimSpace(m[1]))
		if t == "" || t == "/dev/null" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
