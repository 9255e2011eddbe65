package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// ThemeConfig flattens a manifest and one of its variants into the renderer
// configuration: variant tokens override base tokens and every token becomes
// a "--name" CSS custom property. Asset keys resolve against Assets.Prefix,
// variant files first.
func ThemeConfig(manifest *theme.Manifest, variant string) *theme.RendererConfig {
	if manifest == nil {
		return nil
	}

	tokens := make(map[string]string, len(manifest.Tokens))
	for k, v := range manifest.Tokens {
		tokens[k] = v
	}
	partials := make(map[string]string, len(manifest.Templates))
	for k, v := range manifest.Templates {
		partials[k] = v
	}
	files := make(map[string]string, len(manifest.Assets.Files))
	for k, v := range manifest.Assets.Files {
		files[k] = v
	}
	prefix := manifest.Assets.Prefix

	if v, ok := manifest.Variants[variant]; ok {
		for k, val := range v.Tokens {
			tokens[k] = val
		}
		for k, val := range v.Templates {
			partials[k] = val
		}
		for k, val := range v.Assets.Files {
			files[k] = val
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	} else {
		variant = ""
	}

	cssVars := make(map[string]string, len(tokens))
	for k, v := range tokens {
		cssVars["--"+strings.TrimPrefix(k, "--")] = v
	}

	return &theme.RendererConfig{
		Theme:    manifest.Name,
		Variant:  variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(file, "/")
		},
	}
}

// cssVarsStyle renders CSS variables as an inline style declaration with a
// stable ordering.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(vars[k])
		b.WriteString(";")
	}
	return b.String()
}
