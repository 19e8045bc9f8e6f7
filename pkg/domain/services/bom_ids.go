package services

import (
	"strconv"
	"strings"

	"github.com/vsinha/bomview/pkg/domain/entities"
)

// GenerateBomIDs assigns hierarchical ids ("1", "1.1", "1.2", "2", ...) to a
// pre-order list. The result has the same length and order as items and only
// depends on the sequence of levels.
func GenerateBomIDs(items []entities.FlatTreeItem) []string {
	ids := make([]string, len(items))
	var counters []int

	for i, item := range items {
		level := item.Level
		if level < 0 {
			level = 0
		}
		for len(counters) <= level {
			counters = append(counters, 0)
		}

		counters[level]++
		for deeper := level + 1; deeper < len(counters); deeper++ {
			counters[deeper] = 0
		}

		var sb strings.Builder
		for l := 0; l <= level; l++ {
			if l > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(strconv.Itoa(counters[l]))
		}
		ids[i] = sb.String()
	}

	return ids
}
