package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gogpu/imgfx"
)

// chainFlags are the flags that select a filter chain.
type chainFlags struct {
	filters  []string
	file     string
	favorite string
}

// parseFilter parses "kind" or "kind=v1,v2,...". Values are sanitized; a
// kind without values uses its defaults.
func parseFilter(s string) (imgfx.FilterSpec, error) {
	name, vals, hasVals := strings.Cut(s, "=")
	kind, err := imgfx.ParseKind(name)
	if err != nil {
		return imgfx.FilterSpec{}, err
	}
	if !hasVals {
		return imgfx.DefaultSpec(kind)
	}

	var values []float64
	for _, f := range strings.Split(vals, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return imgfx.FilterSpec{}, fmt.Errorf("%s: %w", kind, err)
		}
		values = append(values, v)
	}
	return imgfx.NewSpec(kind, values...)
}

// chain assembles the chain from a chain file or favorite, then the
// --filter flags in order.
func (a *app) chain(ctx context.Context, f chainFlags) (imgfx.FilterChain, error) {
	var chain imgfx.FilterChain

	switch {
	case f.file != "" && f.favorite != "":
		return chain, fmt.Errorf("--chain and --favorite are mutually exclusive")
	case f.file != "":
		data, err := os.ReadFile(f.file)
		if err != nil {
			return chain, err
		}
		if chain, err = imgfx.DecodeChain(data); err != nil {
			return chain, fmt.Errorf("%s: %w", f.file, err)
		}
	case f.favorite != "":
		id, err := uuid.Parse(f.favorite)
		if err != nil {
			return chain, fmt.Errorf("favorite id: %w", err)
		}
		store, err := a.favorites()
		if err != nil {
			return chain, err
		}
		fav, err := store.Get(ctx, id)
		if err != nil {
			return chain, err
		}
		chain = fav.Chain
	}

	for _, s := range f.filters {
		spec, err := parseFilter(s)
		if err != nil {
			return chain, fmt.Errorf("--filter %q: %w", s, err)
		}
		chain = chain.Append(spec)
	}
	return chain, nil
}
