package resolve

import (
	"strings"

	"github.com/fyrsmithlabs/intentd/internal/intent"
)

// Extract returns the body of the named section of a node. The heading
// match is exact and case-sensitive: "Contracts" never captures
// "Contract Violations". Absence is a normal outcome.
func Extract(node *intent.Node, name string) (string, bool) {
	if node == nil {
		return "", false
	}
	sec, ok := node.Section(name)
	if !ok {
		return "", false
	}
	body := strings.TrimRight(sec.Body, "\n")
	body = strings.TrimPrefix(body, "\n")
	if strings.TrimSpace(body) == "" {
		return "", false
	}
	return body, true
}
