package cran

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePackages = `Package: cli
Version: 3.6.2
Depends: R (>= 3.4)
Imports: utils
License: MIT + file LICENSE
MD5sum: 0123456789abcdef0123456789abcdef
NeedsCompilation: yes

Package: dplyr
Version: 1.1.4
Depends: R (>= 3.5.0)
Imports: cli (>= 3.4.0), generics, glue (>= 1.3.2), lifecycle (>=
        1.0.3), magrittr (>= 1.5), methods, pillar (>= 1.9.0), R6,
        rlang (>= 1.1.0), tibble (>= 3.2.0), tidyselect (>= 1.2.0),
        utils, vctrs (>= 0.6.4)
LinkingTo: cpp11
Suggests: bench, testthat (>= 3.1.5)
License: MIT + file LICENSE
NeedsCompilation: yes

Stanza: without a package field
`

func TestParsePackages(t *testing.T) {
	pkgs, err := ParsePackages(strings.NewReader(samplePackages))
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	cli := pkgs[0]
	assert.Equal(t, "cli", cli.Package)
	assert.Equal(t, "3.6.2", cli.Version)
	assert.Empty(t, cli.Depends)
	assert.Equal(t, []string{"utils"}, cli.Imports)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cli.MD5sum)

	dplyr := pkgs[1]
	assert.Equal(t, []string{
		"cli", "generics", "glue", "lifecycle", "magrittr", "methods", "pillar",
		"R6", "rlang", "tibble", "tidyselect", "utils", "vctrs",
	}, dplyr.Imports)
	assert.Equal(t, []string{"cpp11"}, dplyr.LinkingTo)
	assert.Equal(t, []string{"bench", "testthat"}, dplyr.Suggests)
	assert.False(t, dplyr.IsBinary())
}

func TestParseDescription(t *testing.T) {
	desc := "Package: jsonlite\nVersion: 1.8.8\nBuilt: R 4.3.1; ; 2024-01-01; unix\nRemoteUrl: https://github.com/jeroen/jsonlite\n"
	info, err := ParseDescription(strings.NewReader(desc))
	require.NoError(t, err)
	assert.Equal(t, "jsonlite", info.Package)
	assert.True(t, info.IsBinary())
	assert.Equal(t, "https://github.com/jeroen/jsonlite", info.RemoteURL)

	_, err = ParseDescription(strings.NewReader("Title: nothing\n"))
	assert.Error(t, err)
}

func TestRequirementsDeduplicates(t *testing.T) {
	p := &PackageInfo{Depends: []string{"a"}, Imports: []string{"b", "a"}, LinkingTo: []string{"c", "b"}}
	assert.Equal(t, []string{"a", "b", "c"}, p.Requirements())
}
