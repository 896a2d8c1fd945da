package tour

import "strings"

const roleSeparator = `<hr class="intro-role-text-separator"/>`

// defaultTextTemplate separates role texts with a horizontal rule.
func defaultTextTemplate(rt RoleText, index int, _ []RoleText) string {
	if index > 0 {
		return roleSeparator + rt.Text
	}
	return rt.Text
}

// renderIntroText picks the texts for the active roles and joins them
// through the template. The default text is appended once whenever not
// every active role was served, and is required in that case.
func renderIntroText(intro IntroText, roles []string, tpl TextTemplateFunc) (string, error) {
	if intro.IsZero() {
		return "", ErrMissingIntroText
	}
	if tpl == nil {
		tpl = defaultTextTemplate
	}

	var msg []RoleText
	active := 0
	for _, role := range roles {
		if role == "" {
			continue
		}
		active++
		if text := intro.Roles[role]; text != "" {
			msg = append(msg, RoleText{Role: role, Text: text})
		}
	}

	if active == 0 || len(msg) != active {
		if intro.Default == "" {
			return "", ErrMissingIntroText
		}
		msg = append(msg, RoleText{Role: "default", Text: intro.Default})
	}

	parts := make([]string, len(msg))
	for i, rt := range msg {
		parts[i] = tpl(rt, i, msg)
	}
	return strings.Join(parts, "\n"), nil
}
