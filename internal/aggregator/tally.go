package aggregator

import "sort"

// Tally is a sparse count per key. Keys appear only once they have been seen.
type Tally map[string]int

// Entry is one ranked tally row.
type Entry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Ranked returns the entries ordered by count descending, then key ascending.
func (t Tally) Ranked() []Entry {
	entries := make([]Entry, 0, len(t))
	for k, v := range t {
		entries = append(entries, Entry{Key: k, Count: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Key < entries[j].Key
	})
	return entries
}

// Max returns the entry with the highest count. Among equal counts the
// lexicographically smallest key wins. ok is false for an empty tally.
func (t Tally) Max() (best Entry, ok bool) {
	for k, v := range t {
		if !ok || v > best.Count || (v == best.Count && k < best.Key) {
			best = Entry{Key: k, Count: v}
			ok = true
		}
	}
	return best, ok
}

// Sum returns the total of all counts.
func (t Tally) Sum() int {
	var n int
	for _, v := range t {
		n += v
	}
	return n
}

// Clone returns an independent copy.
func (t Tally) Clone() Tally {
	c := make(Tally, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}
