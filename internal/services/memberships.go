// memberships.go
//
// The shared toggle primitive behind follows, circle memberships and
// project collaboration: one call flips the actor in or out of a roster
// and reports which way it went.

package services

// toggleID adds id to ids if absent, removes it if present. Returns the
// updated list and true when the id was added.
func toggleID(ids []string, id string) ([]string, bool) {
	for i, existing := range ids {
		if existing == id {
			return append(ids[:i:i], ids[i+1:]...), false
		}
	}
	return append(ids, id), true
}

// containsID reports whether id is in ids.
func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// removeID filters id out of ids.
func removeID(ids []string, id string) []string {
	filtered := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	return filtered
}
