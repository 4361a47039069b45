// Use of this source code is governed by a GPL-2 license that can be found in the LICENSE file.
//
// Copyright 2025 Lexer747
//
// SPDX-License-Identifier: GPL-2.0-only

package examine_test

import (
	"path/filepath"
	"testing"

	"github.com/Lexer747/fits-examine/examine"
	"github.com/Lexer747/fits-examine/utils/th"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestDefaultParams(t *testing.T) {
	t.Parallel()
	p := examine.DefaultParams()
	assert.Check(t, is.Equal(5.0, p.AperPhot.Radius))
	assert.Check(t, is.Equal(25.0, p.AperPhot.ZMag))
	assert.Check(t, p.AperPhot.Center)
	assert.Check(t, is.Equal(examine.ModelGaussian, p.LineFit.Model))
	assert.Check(t, is.Equal("median", p.RegionStat.Stat))
	assert.Check(t, is.Equal(100, p.Histogram.NBins))
	assert.Check(t, is.Equal(20, p.Cutout.Size))
}

func TestUnlearn(t *testing.T) {
	t.Parallel()
	p := examine.DefaultParams()
	p.AperPhot.Radius = 12
	p.LineFit.Model = examine.ModelMoffat
	p.RegionStat.Stat = "max"
	p.Unlearn()
	assert.Check(t, is.DeepEqual(examine.DefaultParams(), p, th.AllowAllUnexported))
}

func TestParamsJSONRoundTrip(t *testing.T) {
	t.Parallel()
	p := examine.DefaultParams()
	p.AperPhot.Radius = 9
	p.ColumnFit.Model = examine.ModelPolynomial
	p.ColumnFit.Degree = 6

	path := filepath.Join(t.TempDir(), "params.json")
	assert.NilError(t, p.SaveParamsFile(path))
	loaded, err := examine.LoadParamsFile(path)
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(p, loaded, th.AllowAllUnexported))
}

func TestLoadParamsMissingFileIsDefaults(t *testing.T) {
	t.Parallel()
	loaded, err := examine.LoadParamsFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.NilError(t, err)
	assert.Check(t, is.DeepEqual(examine.DefaultParams(), loaded, th.AllowAllUnexported))
}

func TestParseParamsLayersOverDefaults(t *testing.T) {
	t.Parallel()
	loaded, err := examine.ParseParamsFromJSON([]byte(`{"aper-phot": {"radius": 3.5}}`))
	assert.NilError(t, err)
	assert.Check(t, is.Equal(3.5, loaded.AperPhot.Radius))
	// values the file does not mention stay at the defaults
	expected := examine.DefaultParams()
	expected.AperPhot.Radius = 3.5
	assert.Check(t, is.DeepEqual(expected, loaded, cmp.Options{th.AllowAllUnexported}))

	_, err = examine.ParseParamsFromJSON([]byte(`{nope`))
	assert.Check(t, err != nil)
}
