package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// propertyOrders recovers the declared property order of every request body,
// keyed "<METHOD> <path>". kin-openapi keeps properties in maps, so the order
// is read from the raw document (JSON parses as YAML). Local $refs and allOf
// members are followed.
func propertyOrders(raw []byte) map[string][]string {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil || len(root.Content) == 0 {
		return nil
	}
	doc := root.Content[0]
	paths := child(doc, "paths")
	if paths == nil {
		return nil
	}

	out := make(map[string][]string)
	for i := 0; i+1 < len(paths.Content); i += 2 {
		path, item := paths.Content[i].Value, paths.Content[i+1]
		for j := 0; j+1 < len(item.Content); j += 2 {
			body := resolve(doc, child(item.Content[j+1], "requestBody"))
			schema := mediaSchema(resolve(doc, child(body, "content")))
			if names := propertyNames(doc, schema, 0); len(names) > 0 {
				out[strings.ToUpper(item.Content[j].Value)+" "+path] = names
			}
		}
	}
	return out
}

// mediaSchema mirrors the media type preference of extractRequestSchema.
func mediaSchema(content *yaml.Node) *yaml.Node {
	if content == nil || len(content.Content) < 2 {
		return nil
	}
	for _, mediaType := range requestMediaTypes {
		if mt := child(content, mediaType); mt != nil {
			return child(mt, "schema")
		}
	}
	return child(content.Content[1], "schema")
}

func propertyNames(doc, schema *yaml.Node, depth int) []string {
	schema = resolve(doc, schema)
	if schema == nil || depth > 8 {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	if props := child(schema, "properties"); props != nil {
		for i := 0; i < len(props.Content); i += 2 {
			add(props.Content[i].Value)
		}
	}
	if all := child(schema, "allOf"); all != nil {
		for _, part := range all.Content {
			for _, name := range propertyNames(doc, part, depth+1) {
				add(name)
			}
		}
	}
	return names
}

// resolve follows local "#/..." references; anything else is returned as is.
func resolve(doc, node *yaml.Node) *yaml.Node {
	for hops := 0; node != nil && hops < 8; hops++ {
		ref := child(node, "$ref")
		if ref == nil || !strings.HasPrefix(ref.Value, "#/") {
			return node
		}
		target := doc
		for _, token := range strings.Split(strings.TrimPrefix(ref.Value, "#/"), "/") {
			token = strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
			if target = child(target, token); target == nil {
				return nil
			}
		}
		node = target
	}
	return node
}

func child(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
