package spec

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/microbench/internal/apperr"
)

// Vars are substituted for {{name}} placeholders in engine connections and
// task queries, bodies, paths, headers and string params. A placeholder
// without a var falls back to the environment variable of the same name.
type Vars map[string]any

var placeholderRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

func (v Vars) lookup(key string) (string, bool) {
	if val, ok := v[key]; ok {
		return formatValue(val), true
	}
	return os.LookupEnv(key)
}

// Render replaces every placeholder in s. Unresolved placeholders are
// reported together.
func (v Vars) Render(s string) (string, error) {
	var missing []string
	seen := make(map[string]bool)

	out := placeholderRegex.ReplaceAllStringFunc(s, func(match string) string {
		key := match[2 : len(match)-2]
		if val, ok := v.lookup(key); ok {
			return val
		}
		if !seen[key] {
			seen[key] = true
			missing = append(missing, key)
		}
		return match
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing vars: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func (s *BenchSpec) render() error {
	for name, eng := range s.Engines {
		for _, f := range []*string{&eng.Connection, &eng.Index, &eng.Username, &eng.Password} {
			if err := s.renderField(f); err != nil {
				return apperr.NewConfigWrap(fmt.Sprintf("engine %q", name), err)
			}
		}
		s.Engines[name] = eng
	}

	for i := range s.Tasks {
		t := &s.Tasks[i]
		fields := []*string{&t.Query, &t.Body, &t.Path}
		for _, f := range fields {
			if err := s.renderField(f); err != nil {
				return apperr.NewConfigWrap(fmt.Sprintf("task %q", t.Name), err)
			}
		}
		for k, h := range t.Header {
			if err := s.renderField(&h); err != nil {
				return apperr.NewConfigWrap(fmt.Sprintf("task %q header %s", t.Name, k), err)
			}
			t.Header[k] = h
		}
		for j, p := range t.Params {
			str, ok := p.(string)
			if !ok {
				continue
			}
			if err := s.renderField(&str); err != nil {
				return apperr.NewConfigWrap(fmt.Sprintf("task %q param %d", t.Name, j+1), err)
			}
			t.Params[j] = str
		}
	}
	return nil
}

func (s *BenchSpec) renderField(f *string) error {
	out, err := s.Vars.Render(*f)
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case []any:
		strs := make([]string, len(val))
		for i, item := range val {
			strs[i] = formatValue(item)
		}
		return strings.Join(strs, ", ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
