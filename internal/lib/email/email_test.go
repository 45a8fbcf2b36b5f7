package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreview_AllTemplates(t *testing.T) {
	for name := range PreviewData {
		t.Run(string(name), func(t *testing.T) {
			body, err := Preview(name)
			require.NoError(t, err)
			assert.Contains(t, body, "<html")
		})
	}
}

func TestRender_Welcome(t *testing.T) {
	body, err := Render(TemplateWelcome, map[string]string{"UserName": "<Bob>"})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome, &lt;Bob&gt;!")

	body, err = Render(TemplateWelcome, nil)
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome!")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, err := Render(Template("missing"), nil)
	assert.Error(t, err)
}
