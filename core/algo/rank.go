package algo

import (
	"sort"

	"github.com/huangsam/devpulse/schema"
)

// RankGroups sorts group means by value in descending order, breaking ties by
// group name, and returns the top 'limit' groups. A limit <= 0 keeps all groups.
func RankGroups(groups []schema.GroupMean, limit int) []schema.GroupMean {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Value != groups[j].Value {
			return groups[i].Value > groups[j].Value
		}
		return groups[i].Group < groups[j].Group
	})
	if limit > 0 && len(groups) > limit {
		return groups[:limit]
	}
	return groups
}

// TopGroup returns the group with the highest value.
func TopGroup(groups []schema.GroupMean) (schema.GroupMean, bool) {
	if len(groups) == 0 {
		return schema.GroupMean{}, false
	}
	ranked := RankGroups(append([]schema.GroupMean(nil), groups...), 1)
	return ranked[0], true
}
