package engine

import (
	"fmt"
	"sort"
	"strings"
)

// LinkAlternatives partitions a flat, ordered list of raw answers into answer
// groups. Answers are co-grouped when they share an explicit alternative_id,
// when their linked_alternatives arrays reference each other, or when
// consecutive answers declare the same alternative_type. Answers with no
// linkage metadata become standalone groups of one.
//
// The returned warnings record linked_alternatives symmetry violations; these
// are source data-quality notes, not failures, and the best-effort grouping
// still proceeds.
func LinkAlternatives(raw []RawAnswer) ([]AnswerGroup, []string) {
	n := len(raw)
	if n == 0 {
		return nil, nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	var warnings []string

	for i, a := range raw {
		for _, linked := range a.LinkedAlternatives {
			// linked_alternatives entries are 1-based ordinal indices
			j := linked - 1
			if j < 0 || j >= n || j == i {
				warnings = append(warnings, fmt.Sprintf("alternative %d links out-of-range alternative %d", i+1, linked))
				continue
			}
			if !containsInt(raw[j].LinkedAlternatives, i+1) {
				warnings = append(warnings, fmt.Sprintf("alternative %d links alternative %d but is not linked back", i+1, linked))
			}
			union(i, j)
		}
	}

	for i := 1; i < n; i++ {
		prev, cur := raw[i-1], raw[i]
		if cur.AlternativeID != nil && prev.AlternativeID != nil && *cur.AlternativeID == *prev.AlternativeID {
			union(i-1, i)
			continue
		}
		t := strings.TrimSpace(strings.ToLower(cur.AlternativeType))
		if t != "" && t != string(CardinalityStandalone) && t == strings.TrimSpace(strings.ToLower(prev.AlternativeType)) {
			union(i-1, i)
		}
	}

	members := make(map[int][]int, n)
	order := make([]int, 0, n)
	for i := 0; i < n; i++ {
		root := find(i)
		if _, seen := members[root]; !seen {
			order = append(order, root)
		}
		members[root] = append(members[root], i)
	}

	groups := make([]AnswerGroup, 0, len(order))
	for _, root := range order {
		idx := members[root]
		sort.Ints(idx)
		group := AnswerGroup{
			Cardinality:  groupCardinality(raw, idx),
			Alternatives: make([]AnswerAlternative, 0, len(idx)),
		}
		for _, i := range idx {
			group.Alternatives = append(group.Alternatives, newAlternative(raw[i], i+1, idx))
		}
		groups = append(groups, group)
	}
	return groups, warnings
}

// groupCardinality resolves the group's rule from its members' declared
// alternative_type tags; the first recognised declaration wins.
func groupCardinality(raw []RawAnswer, idx []int) GroupCardinality {
	for _, i := range idx {
		switch strings.TrimSpace(strings.ToLower(raw[i].AlternativeType)) {
		case string(CardinalityOneRequired):
			return CardinalityOneRequired
		case string(CardinalityAllRequired):
			return CardinalityAllRequired
		}
	}
	return CardinalityStandalone
}

func newAlternative(a RawAnswer, index int, groupIdx []int) AnswerAlternative {
	marks := 0.0
	if a.Marks != nil {
		marks = *a.Marks
	}
	siblings := make([]int, 0, len(groupIdx)-1)
	for _, i := range groupIdx {
		if i+1 != index {
			siblings = append(siblings, i+1)
		}
	}
	return AnswerAlternative{
		Index:                     index,
		Text:                      strings.TrimSpace(a.Answer),
		Marks:                     marks,
		Working:                   strings.TrimSpace(a.Working),
		AcceptsEquivalentPhrasing: a.AcceptsEquivalentPhrasing,
		AcceptsReverseArgument:    a.AcceptsReverseArgument,
		ErrorCarriedForward:       a.ErrorCarriedForward,
		CaseSensitive:             a.CaseSensitive,
		Unit:                      strings.TrimSpace(a.Unit),
		Variations:                a.AlternativeTexts,
		LinkedAlternatives:        siblings,
	}
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
