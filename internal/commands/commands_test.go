package commands_test

import (
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/commands"
)

func TestExecute(t *testing.T) {
	r := commands.NewRegistry()
	fs := flag.NewFlagSet("layout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	doc := fs.String("doc", "", "")
	var got []string
	r.Register("layout", "print box geometry", fs, func(args []string) error {
		got = args
		return nil
	})

	require.NoError(t, r.Execute([]string{"layout", "-doc", "page.html", "a.scss", "b.scss"}))
	assert.Equal(t, "page.html", *doc)
	assert.Equal(t, []string{"a.scss", "b.scss"}, got)

	assert.ErrorIs(t, r.Execute(nil), commands.ErrUsage)
	assert.ErrorIs(t, r.Execute([]string{"nope"}), commands.ErrUsage)
	assert.Error(t, r.Execute([]string{"layout", "-bogus"}))
}

func TestUsage(t *testing.T) {
	r := commands.NewRegistry()
	r.Register("parse", "print the syntax tree", flag.NewFlagSet("parse", flag.ContinueOnError), nil)
	r.Register("compile", "print the rules", flag.NewFlagSet("compile", flag.ContinueOnError), nil)
	var b strings.Builder
	r.Usage(&b)
	assert.Equal(t, []string{"compile", "parse"}, r.Names())
	assert.Equal(t, "  compile    print the rules\n  parse      print the syntax tree\n", b.String())
}
