package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tapline/tapline/template"
)

func knownOnly(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestValidateFiltersAcceptsKnownNames(t *testing.T) {
	nodes := parse(t, "{{a|trim}}")
	assert.NoError(t, template.ValidateFilters(nodes, knownOnly("trim")))
}

func TestValidateFiltersRejectsUnknownName(t *testing.T) {
	nodes := parse(t, "{{a|trmi}}")
	err := template.ValidateFilters(nodes, knownOnly("trim"))
	require.Error(t, err)
	var perr *template.ParseError
	require.ErrorAs(t, err, &perr)
}

func TestValidateFiltersWalksFilterChainArgs(t *testing.T) {
	nodes := parse(t, "{{a|trmi|trim}}")
	err := template.ValidateFilters(nodes, knownOnly("trim"))
	require.Error(t, err)
}

func TestValidateFiltersWalksCondAndLoopBodies(t *testing.T) {
	nodes := parse(t, `{% if x %}{{a|trmi}}{% endif %}`)
	require.Error(t, template.ValidateFilters(nodes, knownOnly("trim")))

	nodes = parse(t, "{% for i in 0..2 %}{{a|trmi}}{% endfor %}")
	require.Error(t, template.ValidateFilters(nodes, knownOnly("trim")))
}
