// Package reconcile merges a client's locally buffered chat history with
// the server's stored history without duplicating messages that exist on
// both sides under different ids.
package reconcile

import (
	"fmt"
	"sort"
	"strings"

	"purpleos/internal/models"
)

// serverIDThreshold separates server-assigned ids from short provisional
// client ids. Ids longer than this are treated as authoritative and
// matched directly.
const serverIDThreshold = 20

// Signature produces the content identity of a message: role, trimmed
// content and the creation timestamp truncated to whole seconds. Two
// messages with equal signatures are the same message regardless of id.
func Signature(m models.ChatMessage) string {
	return fmt.Sprintf("%s|%s|%d", m.Role, strings.TrimSpace(m.Content), m.CreatedAt.Unix())
}

// Merge combines local (client-buffered) and server messages into one
// deduplicated, chronologically ascending history.
//
// Server messages are authoritative: a local message whose signature, or
// whose sufficiently long id, matches a server message is dropped in
// favor of the server copy. Local messages with no server counterpart
// are retained so an in-flight optimistic message is never lost.
func Merge(local, server []models.ChatMessage) []models.ChatMessage {
	bySignature := make(map[string]struct{}, len(server))
	byID := make(map[string]struct{}, len(server))
	for _, m := range server {
		bySignature[Signature(m)] = struct{}{}
		if len(m.ID) > serverIDThreshold {
			byID[m.ID] = struct{}{}
		}
	}

	merged := make([]models.ChatMessage, 0, len(server)+len(local))
	merged = append(merged, server...)

	for _, m := range local {
		if _, ok := bySignature[Signature(m)]; ok {
			continue
		}
		if _, ok := byID[m.ID]; ok {
			continue
		}
		merged = append(merged, m)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.Before(merged[j].CreatedAt)
	})

	return dedupeByID(merged)
}

// dedupeByID keeps the first occurrence of each id. Messages with empty
// ids pass through untouched.
func dedupeByID(msgs []models.ChatMessage) []models.ChatMessage {
	seen := make(map[string]struct{}, len(msgs))
	out := msgs[:0]
	for _, m := range msgs {
		if m.ID != "" {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
		}
		out = append(out, m)
	}
	return out
}
