package metrics

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	uuidSegmentRE  = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F-]{4}-[0-9a-fA-F-]{4,}$`)
	hexSegmentRE   = regexp.MustCompile(`^[0-9a-fA-F]{16,}$`)
	tokenSegmentRE = regexp.MustCompile(`^[A-Za-z0-9_-]{24,}$`)
)

// NormalizePath colapsa segmentos dinámicos (ids, emails, tokens) a ":param"
// para acotar la cardinalidad del label "path".
func NormalizePath(p string) string {
	clean := strings.SplitN(p, "?", 2)[0]
	var out []string
	for _, seg := range strings.Split(clean, "/") {
		if seg == "" {
			continue
		}
		if isDynamicSegment(seg) {
			out = append(out, ":param")
		} else {
			out = append(out, seg)
		}
	}
	if len(out) == 0 {
		return "/"
	}
	return "/" + strings.Join(out, "/")
}

func isDynamicSegment(seg string) bool {
	switch {
	case len(seg) > 48, strings.Contains(seg, "@"):
		return true
	case uuidSegmentRE.MatchString(seg), hexSegmentRE.MatchString(seg), tokenSegmentRE.MatchString(seg):
		return true
	}
	_, err := strconv.Atoi(seg)
	return err == nil
}
