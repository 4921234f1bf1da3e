package env_test

import (
	"os"
	"testing"

	"github.com/hack-pad/hackpadfs"
	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"style-engine/internal/env"
)

func TestParse(t *testing.T) {
	vars, err := env.Parse([]byte(`
# comment
STYLE_DEBUG=true
export STYLE_FONT_SIZE = 14
QUOTED="a b"
SINGLE='c'
EMPTY=
`))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"STYLE_DEBUG":     "true",
		"STYLE_FONT_SIZE": "14",
		"QUOTED":          "a b",
		"SINGLE":          "c",
		"EMPTY":           "",
	}, vars)

	_, err = env.Parse([]byte("no equals sign"))
	assert.EqualError(t, err, "line 1: expected KEY=VALUE")
}

func TestRead(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	require.NoError(t, hackpadfs.WriteFullFile(fsys, ".env", []byte("A=1\n"), 0644))

	vars, err := env.Read(fsys, ".env")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1"}, vars)

	vars, err = env.Read(fsys, "missing.env")
	require.NoError(t, err)
	assert.Empty(t, vars)
}

func TestApplyKeepsExisting(t *testing.T) {
	t.Setenv("ENV_TEST_SET", "old")
	t.Setenv("ENV_TEST_NEW", "")
	require.NoError(t, os.Unsetenv("ENV_TEST_NEW"))

	env.Apply(map[string]string{"ENV_TEST_SET": "new", "ENV_TEST_NEW": "v"})
	assert.Equal(t, "old", os.Getenv("ENV_TEST_SET"))
	assert.Equal(t, "v", os.Getenv("ENV_TEST_NEW"))
}
