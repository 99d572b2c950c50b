// Package fuzzy ranks candidate strings against a typed query using ordered
// subsequence matching.
//
// A key matches when every rune of the query appears in the key, in order,
// after both have been case folded. Matching keys are scored with a weighted
// sum that rewards contiguous runs and word-start matches and penalises sprawl
// and long keys; everything that does not match is dropped from the result.
package fuzzy

import (
	"sort"
	"unicode"
)

// Scoring weights. Only the ordering they produce matters, so they can be tuned
// freely as long as the ranking tests keep passing.
const (
	// ScoreMatch is awarded for every matched rune.
	ScoreMatch = 16
	// BonusConsecutive is multiplied by the squared length of every run of
	// adjacent matched runes.
	BonusConsecutive = 8
	// BonusStart is awarded to a run that begins at the first rune of the key.
	BonusStart = 32
	// BonusBoundary is awarded to a run that begins right after a separator.
	BonusBoundary = 20
	// PenaltySpan is subtracted per rune between the first and last match.
	PenaltySpan = 3
	// PenaltyLength is subtracted per rune of the key.
	PenaltyLength = 1

	// MinScore is the score floor of a matching key. Every match is kept,
	// however weak.
	MinScore = 1
)

// Item is one rankable entry. Key is matched against the query; Secondary only
// breaks ties between equal keys (an identifier, typically).
type Item[T any] struct {
	Key       string
	Secondary string
	Payload   T
}

// Candidate is an Item that matched the query.
type Candidate[T any] struct {
	Key       string
	Secondary string
	Payload   T
	Score     int
	// Positions holds the rune indexes of Key that matched, ascending.
	Positions []int
}

// Rank returns the items matching query, best first. Equal scores are ordered
// by Key, then Secondary, then input order. An empty query matches every item
// with the same score, so the result is simply the tie-break order.
func Rank[T any](query string, items []Item[T]) []Candidate[T] {
	q := fold(query)
	out := make([]Candidate[T], 0, len(items))
	var scratch []int

	for _, item := range items {
		if len(q) == 0 {
			out = append(out, Candidate[T]{
				Key:       item.Key,
				Secondary: item.Secondary,
				Payload:   item.Payload,
				Score:     MinScore,
			})
			continue
		}

		score, positions, ok := match(q, fold(item.Key), &scratch)
		if !ok {
			continue
		}
		out = append(out, Candidate[T]{
			Key:       item.Key,
			Secondary: item.Secondary,
			Payload:   item.Payload,
			Score:     score,
			Positions: positions,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		return a.Secondary < b.Secondary
	})
	return out
}

// Match scores a single key. It reports false when query is not an ordered
// subsequence of key.
func Match(query, key string) (int, []int, bool) {
	q := fold(query)
	if len(q) == 0 {
		return MinScore, nil, true
	}
	var scratch []int
	return match(q, fold(key), &scratch)
}

// match tries every occurrence of the first query rune as an anchor and keeps
// the best scoring greedy alignment.
func match(q, key []rune, scratch *[]int) (int, []int, bool) {
	if len(q) > len(key) || !isSubsequence(q, key) {
		return 0, nil, false
	}

	best := -1 << 31
	var bestPositions []int

	for start := 0; start+len(q) <= len(key); start++ {
		if key[start] != q[0] {
			continue
		}
		positions := (*scratch)[:0]
		positions = append(positions, start)
		qi := 1
		for ki := start + 1; ki < len(key) && qi < len(q); ki++ {
			if key[ki] == q[qi] {
				positions = append(positions, ki)
				qi++
			}
		}
		*scratch = positions
		if qi < len(q) {
			// later anchors can only see fewer runes
			break
		}
		if s := score(key, positions); s > best {
			best = s
			bestPositions = append(bestPositions[:0], positions...)
		}
	}

	if bestPositions == nil {
		return 0, nil, false
	}
	if best < MinScore {
		best = MinScore
	}
	return best, bestPositions, true
}

func score(key []rune, positions []int) int {
	s := len(positions) * ScoreMatch

	run := 1
	for i := 1; i <= len(positions); i++ {
		if i < len(positions) && positions[i] == positions[i-1]+1 {
			run++
			continue
		}
		s += BonusConsecutive * run * run
		run = 1
	}

	for i, p := range positions {
		if i > 0 && positions[i-1] == p-1 {
			continue
		}
		switch {
		case p == 0:
			s += BonusStart
		case isSeparator(key[p-1]):
			s += BonusBoundary
		}
	}

	s -= PenaltySpan * (positions[len(positions)-1] - positions[0])
	s -= PenaltyLength * len(key)
	return s
}

func isSubsequence(q, key []rune) bool {
	qi := 0
	for _, r := range key {
		if qi < len(q) && r == q[qi] {
			qi++
		}
	}
	return qi == len(q)
}

func isSeparator(r rune) bool {
	switch r {
	case '-', '_', ' ', '/', '.', ':':
		return true
	}
	return false
}

// fold lower-cases rune by rune so indexes into the folded slice line up with
// the runes of the original string.
func fold(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}
