package expr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Snapshot lazily fetches the host state as JSON. It is invoked only when an
// expression actually contains a $.path term, so hostless sessions can still
// evaluate literal expressions.
type Snapshot func() ([]byte, error)

// Value resolves text to a printable value: a $.path query against the host
// snapshot, or the text itself.
func Value(text string, snap Snapshot) (string, error) {
	if !isQuery(text) {
		return text, nil
	}
	res, err := lookup(text, snap)
	if err != nil {
		return "", err
	}
	if !res.Exists() {
		return "", fmt.Errorf("path %q not found in snapshot", text)
	}
	return res.String(), nil
}

func isQuery(s string) bool {
	return strings.HasPrefix(s, "$.") || strings.HasPrefix(s, "$[")
}

// lookup runs one $.path query against the snapshot. A missing path is not
// an error here; callers decide (bare conditions treat it as false).
func lookup(path string, snap Snapshot) (gjson.Result, error) {
	if snap == nil {
		return gjson.Result{}, errors.New("no snapshot available")
	}
	body, err := snap()
	if err != nil {
		return gjson.Result{}, fmt.Errorf("snapshot: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON in snapshot")
	}
	return gjson.GetBytes(body, convertPath(path)), nil
}

// convertPath converts JSONPath syntax to gjson path format.
// $.foo.bar -> foo.bar
// $.items[0].id -> items.0.id
// $.data[*].name -> data.#.name
func convertPath(path string) string {
	if strings.HasPrefix(path, "$.") {
		path = path[2:]
	} else if strings.HasPrefix(path, "$") {
		path = path[1:]
	}

	var result strings.Builder
	i := 0
	for i < len(path) {
		if path[i] == '[' {
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				content := path[i+1 : j]
				if content == "*" {
					result.WriteString(".#")
				} else {
					result.WriteByte('.')
					result.WriteString(content)
				}
				i = j + 1
				continue
			}
		}
		result.WriteByte(path[i])
		i++
	}

	return result.String()
}
