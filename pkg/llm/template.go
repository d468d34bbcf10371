package llm

import "strings"

// RenderTemplate substitutes {placeholder} markers in a prompt template with
// the given values. Unknown placeholders are left in place so a broken
// template is visible in the outgoing prompt rather than silently empty.
func RenderTemplate(template string, subs map[string]string) string {
	if len(subs) == 0 {
		return template
	}
	pairs := make([]string, 0, len(subs)*2)
	for key, value := range subs {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
