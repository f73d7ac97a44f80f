package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"gopkg.in/yaml.v3"
)

const fileHeader = "sysdash configuration. Durations use Go syntax (500ms, 2s, 1m).\n" +
	"Every key can be overridden with SYSDASH_<SECTION>_<KEY>, e.g. SYSDASH_REFRESH_INTERVAL=5s."

// Save writes cfg to path as YAML, creating parent directories.
// Durations are written as strings so the file stays hand-editable.
func Save(path string, cfg *Config) error {
	root := &yaml.Node{Kind: yaml.MappingNode, HeadComment: fileHeader}

	for _, k := range Keys {
		section, field, err := splitKey(k.Name)
		if err != nil {
			return err
		}
		parent := root
		if section != "" {
			parent = ensureMapping(root, section)
		}
		setScalar(parent, field, fmt.Sprint(k.Value(cfg)))
	}

	return writeNode(path, &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}})
}

// Set updates a single key in the config file at path, preserving the
// rest of the file and its comments. The file is created if missing. The
// result is validated before anything is written.
func Set(path, key, value string) error {
	k, ok := LookupKey(key)
	if !ok {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Unknown config key '%s'", key),
			"Valid keys: "+strings.Join(KeyNames(), ", "))
	}

	var root yaml.Node
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &root); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to parse config file", "Check the YAML syntax in "+path)
		}
	case os.IsNotExist(err):
	default:
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file", "Check file permissions on "+path)
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return errors.New(errors.ErrConfig, "Invalid YAML document structure", "Check "+path)
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return errors.New(errors.ErrConfig, "Expected a mapping at the top of the config", "Check "+path)
	}

	section, field, err := splitKey(k.Name)
	if err != nil {
		return err
	}
	parent := doc
	if section != "" {
		parent = ensureMapping(doc, section)
	}
	setScalar(parent, field, value)

	out, err := encodeNode(&root)
	if err != nil {
		return err
	}

	cfg, err := loadBytes(out, path)
	if err != nil {
		return err
	}
	if err := Validate(cfg); err != nil {
		return err
	}

	return writeFile(path, out)
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}

// ensureMapping returns the mapping stored under key, adding it if missing.
// A non-mapping value under key is replaced.
func ensureMapping(node *yaml.Node, key string) *yaml.Node {
	if existing := findMapValue(node, key); existing != nil {
		if existing.Kind != yaml.MappingNode {
			*existing = yaml.Node{Kind: yaml.MappingNode}
		}
		return existing
	}

	m := &yaml.Node{Kind: yaml.MappingNode}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		m,
	)
	return m
}

// setScalar sets key to value, keeping any comments on an existing entry.
// Empty strings are quoted so they don't read back as null.
func setScalar(node *yaml.Node, key, value string) {
	var style yaml.Style
	if value == "" {
		style = yaml.DoubleQuotedStyle
	}

	if existing := findMapValue(node, key); existing != nil {
		existing.Kind = yaml.ScalarNode
		existing.Tag = ""
		existing.Style = style
		existing.Value = value
		existing.Content = nil
		return
	}

	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Style: style, Value: value},
	)
}

func encodeNode(root *yaml.Node) ([]byte, error) {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(root); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig, "Failed to encode config", "")
	}
	return []byte(buf.String()), nil
}

func writeNode(path string, root *yaml.Node) error {
	out, err := encodeNode(root)
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't create config directory", "Check permissions on "+filepath.Dir(path))
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Couldn't write config file", "Check permissions on "+path)
	}
	return nil
}
