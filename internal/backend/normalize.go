// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyTemplate is returned for a document with no content.
var ErrEmptyTemplate = errors.New("empty template")

// Normalize returns doc as JSON. JSON documents pass through unchanged. YAML
// documents are converted, expanding the short form intrinsic functions
// (!Ref, !GetAtt, !Sub, ...) to their long JSON form.
func Normalize(doc []byte) ([]byte, error) {
	if len(strings.TrimSpace(string(doc))) == 0 {
		return nil, ErrEmptyTemplate
	}
	if json.Valid(doc) {
		return doc, nil
	}

	var root yaml.Node
	if err := yaml.Unmarshal(doc, &root); err != nil {
		return nil, err
	}

	v, err := fromNode(&root)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(v, "", "  ")
}

func fromNode(n *yaml.Node) (any, error) {
	if strings.HasPrefix(n.Tag, "!") && !strings.HasPrefix(n.Tag, "!!") {
		return intrinsic(n)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, ErrEmptyTemplate
		}
		return fromNode(n.Content[0])

	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m[n.Content[i].Value] = v
		}
		return m, nil

	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := fromNode(c)
			if err != nil {
				return nil, err
			}
			s = append(s, v)
		}
		return s, nil

	case yaml.AliasNode:
		return fromNode(n.Alias)

	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// intrinsic expands a short form function tag. !GetAtt a.b becomes
// {"Fn::GetAtt": ["a", "b"]}.
func intrinsic(n *yaml.Node) (any, error) {
	name := strings.TrimPrefix(n.Tag, "!")
	key := "Fn::" + name
	if name == "Ref" || name == "Condition" {
		key = name
	}

	if name == "GetAtt" && n.Kind == yaml.ScalarNode {
		resource, attr, ok := strings.Cut(n.Value, ".")
		if !ok {
			return nil, fmt.Errorf("line %d: !GetAtt needs resource.attribute, got %q", n.Line, n.Value)
		}
		return map[string]any{key: []any{resource, attr}}, nil
	}

	plain := *n
	plain.Tag = ""
	if n.Kind == yaml.ScalarNode {
		return map[string]any{key: n.Value}, nil
	}

	v, err := fromNode(&plain)
	if err != nil {
		return nil, err
	}
	return map[string]any{key: v}, nil
}
