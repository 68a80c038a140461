package formatter

import (
	"encoding/json"
	"testing"

	"github.com/cristianoliveira/toastq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() VariableContext {
	return VariableContext{
		ActiveCount: 3,
		KindCounts: map[domain.Kind]int{
			domain.KindError:   1,
			domain.KindLoading: 2,
		},
		LatestMessage:   `Uploading "report.pdf"`,
		LatestKind:      domain.KindLoading,
		HighestSeverity: domain.KindError,
		PositionList:    "top-right,bottom-right",
	}
}

func TestParse(t *testing.T) {
	te := NewTemplateEngine()

	vars, err := te.Parse("{{active-count}} {{latest-message}} {{active-count}}")
	require.NoError(t, err)
	assert.Equal(t, []string{"active-count", "latest-message"}, vars)

	vars, err = te.Parse("no placeholders")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestSubstitute(t *testing.T) {
	te := NewTemplateEngine()
	ctx := sampleContext()

	tests := []struct {
		template string
		want     string
	}{
		{"{{active-count}}", "3"},
		{"{{total-count}}", "3"},
		{"{{error-count}}/{{loading-count}}/{{success-count}}", "1/2/0"},
		{"{{latest-kind}}: {{latest-message}}", `loading: Uploading "report.pdf"`},
		{"{{highest-severity}} #{{severity-rank}}", "error #1"},
		{"{{has-active}} {{has-errors}} {{has-loading}}", "true true true"},
		{"{{position-list}}", "top-right,bottom-right"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			got, err := te.Substitute(tt.template, ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteErrors(t *testing.T) {
	te := NewTemplateEngine()

	_, err := te.Substitute("{{unread-count}}", sampleContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variable: unread-count")

	_, err = te.Substitute("{{active-count", sampleContext())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatched")
}

func TestIdleContext(t *testing.T) {
	te := NewTemplateEngine()

	got, err := te.Substitute("{{has-active}} [{{severity-rank}}] {{error-count}}", VariableContext{})
	require.NoError(t, err)
	assert.Equal(t, "false [] 0", got)
}

func TestIsTemplate(t *testing.T) {
	assert.True(t, IsTemplate("{{active-count}} toasts"))
	assert.False(t, IsTemplate("compact"))
}

func TestPresetsRenderWithoutErrors(t *testing.T) {
	te := NewTemplateEngine()
	registry := NewPresetRegistry()

	names := []string{}
	for _, preset := range registry.List() {
		names = append(names, preset.Name)
		_, err := te.Substitute(preset.Template, sampleContext())
		assert.NoError(t, err, preset.Name)
	}
	assert.Equal(t, []string{"compact", "detailed", "json", "count-only", "severity", "positions"}, names)
}

func TestJSONPresetIsValidJSON(t *testing.T) {
	preset, err := NewPresetRegistry().Get("json")
	require.NoError(t, err)

	out, err := NewTemplateEngine().Substitute(preset.Template, sampleContext())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(3), got["active"])
	assert.Equal(t, `Uploading "report.pdf"`, got["latest"])
}

func TestPresetRegistry(t *testing.T) {
	registry := NewPresetRegistry()

	_, err := registry.Get("missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "preset not found: missing")

	require.NoError(t, registry.Register(Preset{Name: "mine", Template: "{{active-count}}!"}))
	got, err := registry.Get("mine")
	require.NoError(t, err)
	assert.Equal(t, "{{active-count}}!", got.Template)
	assert.Len(t, registry.List(), 7)

	require.NoError(t, registry.Register(Preset{Name: "compact", Template: "{{latest-message}}"}))
	assert.Len(t, registry.List(), 7)

	assert.Error(t, registry.Register(Preset{Template: "x"}))
	assert.Error(t, registry.Register(Preset{Name: "empty"}))
}
