package platform

import (
	"context"
	"errors"
	"testing"

	"github.com/arc-language/rlib/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out  string
	err  error
	args []string
}

func (f *fakeRunner) Run(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	f.args = append([]string{name}, args...)
	return []byte(f.out), f.err
}

func TestRVersion(t *testing.T) {
	r := &fakeRunner{out: "4.3.1\n"}
	v, err := RVersion(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "4.3.1", v)
	assert.Equal(t, "Rscript", r.args[0])
}

func TestRVersionRunnerFailure(t *testing.T) {
	_, err := RVersion(context.Background(), &fakeRunner{err: errors.New("not found")})
	assert.ErrorIs(t, err, core.ErrRNotAvailable)
}

func TestParseVersion(t *testing.T) {
	for _, ok := range []string{"4.3.1", " 4.2 ", "10.0.12"} {
		_, err := ParseVersion(ok)
		assert.NoError(t, err, ok)
	}
	for _, bad := range []string{"", "R version 4.3.1", "4", "4.3.1-beta"} {
		_, err := ParseVersion(bad)
		assert.Error(t, err, bad)
	}
}

func TestDetectWithoutR(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	p, err := Detect()
	assert.ErrorIs(t, err, core.ErrRNotAvailable)
	assert.Contains(t, p.String(), "not found")
}
