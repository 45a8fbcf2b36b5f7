package email

// PreviewData holds sample values for rendering each template locally,
// keyed by template name then by template variable.
var PreviewData = map[Template]map[string]string{
	TemplateWelcome: {
		"UserName": "Ada",
	},
}

// Preview renders a template with its sample data.
func Preview(name Template) (string, error) {
	return Render(name, PreviewData[name])
}
