package reconcile

import (
	"sort"

	"modeltidy/internal/store"
)

// tagDuplicates groups OK and in-place entries by content hash and marks the
// members. The ExternalHash sentinel never forms a group. Primary categories
// are left untouched; duplicate membership is an additional label.
func tagDuplicates(entries []Entry) []DuplicateGroup {
	byHash := make(map[string][]int)
	for i, entry := range entries {
		if entry.Category != CategoryOK && entry.Category != CategoryInPlace {
			continue
		}
		if entry.Record == nil {
			continue
		}
		hash := entry.Record.ContentHash()
		if hash == store.ExternalHash {
			continue
		}
		byHash[hash] = append(byHash[hash], i)
	}

	hashes := make([]string, 0, len(byHash))
	for hash, members := range byHash {
		if len(members) < 2 {
			continue
		}
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)

	groups := make([]DuplicateGroup, 0, len(hashes))
	for _, hash := range hashes {
		members := byHash[hash]
		// Keeper first: earliest creation time, insertion order on ties.
		sort.SliceStable(members, func(a, b int) bool {
			ra, rb := entries[members[a]].Record, entries[members[b]].Record
			if !ra.CreatedAt.Equal(rb.CreatedAt) {
				return ra.CreatedAt.Before(rb.CreatedAt)
			}
			return ra.RowID < rb.RowID
		})

		group := DuplicateGroup{Hash: hash, Members: make([]string, 0, len(members))}
		for _, idx := range members {
			entries[idx].DuplicateKey = hash
			group.Members = append(group.Members, entries[idx].ID)
		}
		groups = append(groups, group)
	}
	return groups
}
