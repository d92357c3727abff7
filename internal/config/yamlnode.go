package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return nil
}

// mappingValue returns the value node stored under key, or nil.
func mappingValue(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func scalarValue(m *yaml.Node, key string) string {
	if v := mappingValue(m, key); v != nil && v.Kind == yaml.ScalarNode && v.Tag != "!!null" {
		return v.Value
	}
	return ""
}

// findPlugin locates the git-range entry in a plugins node. MkDocs accepts
// both a list ("- git-range" or "- git-range: {...}") and a mapping.
func findPlugin(plugins *yaml.Node) (*yaml.Node, bool) {
	if plugins == nil {
		return nil, false
	}
	switch plugins.Kind {
	case yaml.SequenceNode:
		for _, item := range plugins.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				if item.Value == PluginName {
					return item, true
				}
			case yaml.MappingNode:
				if v := mappingValue(item, PluginName); v != nil {
					return v, true
				}
			}
		}
	case yaml.MappingNode:
		if v := mappingValue(plugins, PluginName); v != nil {
			return v, true
		}
	}
	return nil, false
}

func setPlugin(root *yaml.Node, pc PluginConfig) error {
	var val yaml.Node
	if err := val.Encode(pc); err != nil {
		return fmt.Errorf("encoding %s options: %w", PluginName, err)
	}
	entry := func() *yaml.Node {
		return &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{scalar(PluginName), &val}}
	}

	plugins := mappingValue(root, "plugins")
	if plugins == nil {
		root.Content = append(root.Content, scalar("plugins"),
			&yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{entry()}})
		return nil
	}

	switch plugins.Kind {
	case yaml.SequenceNode:
		for i, item := range plugins.Content {
			if item.Kind == yaml.ScalarNode && item.Value == PluginName {
				plugins.Content[i] = entry()
				return nil
			}
			if item.Kind == yaml.MappingNode && setMappingValue(item, PluginName, &val) {
				return nil
			}
		}
		plugins.Content = append(plugins.Content, entry())
	case yaml.MappingNode:
		if !setMappingValue(plugins, PluginName, &val) {
			plugins.Content = append(plugins.Content, scalar(PluginName), &val)
		}
	default:
		*plugins = yaml.Node{Kind: yaml.SequenceNode, Content: []*yaml.Node{entry()}}
	}
	return nil
}

func setMappingValue(m *yaml.Node, key string, val *yaml.Node) bool {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = val
			return true
		}
	}
	return false
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}
