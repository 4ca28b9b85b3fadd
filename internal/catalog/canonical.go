package catalog

import (
	"regexp"
	"time"
)

var (
	dateSuffixPattern       = regexp.MustCompile(`^(.+)-(\d{8})$`)
	dashedDateSuffixPattern = regexp.MustCompile(`^(.+)-(\d{4})-(\d{2})-(\d{2})$`)
	trailingVersionPattern  = regexp.MustCompile(`-(\d{1,2})-(\d{1,2})$`)
)

const (
	minSnapshotYear = 2020
	maxSnapshotYear = 2099
)

// Canonicalize strips a trailing -YYYYMMDD or -YYYY-MM-DD snapshot date and turns the
// version segments left at the end of the id into dotted form, e.g.
// claude-sonnet-4-5-20250929 becomes claude-sonnet-4.5. Ids without a
// valid date suffix are returned unchanged.
func Canonicalize(id string) string {
	base, _, ok := splitSnapshotDate(id)
	if !ok {
		return id
	}
	return trailingVersionPattern.ReplaceAllString(base, "-$1.$2")
}

// SnapshotDate returns the snapshot date of id as YYYYMMDD, or "" when it
// has none. Dashed dates are normalized so dates compare lexicographically.
func SnapshotDate(id string) string {
	_, date, _ := splitSnapshotDate(id)
	return date
}

func splitSnapshotDate(id string) (base, date string, ok bool) {
	if m := dateSuffixPattern.FindStringSubmatch(id); m != nil {
		base, date = m[1], m[2]
	} else if m := dashedDateSuffixPattern.FindStringSubmatch(id); m != nil {
		base, date = m[1], m[2]+m[3]+m[4]
	} else {
		return id, "", false
	}
	if !validSnapshotDate(date) {
		return id, "", false
	}
	return base, date, true
}

func validSnapshotDate(date string) bool {
	parsed, err := time.Parse("20060102", date)
	if err != nil {
		return false
	}
	return parsed.Year() >= minSnapshotYear && parsed.Year() <= maxSnapshotYear
}

// LatestSnapshots keeps one raw model per canonical id: the one with the
// lexicographically largest snapshot date. Undated entries count as "".
// The relative order of the surviving entries is preserved.
func LatestSnapshots(raw []RawModel) []RawModel {
	best := make(map[string]int, len(raw))
	order := make([]string, 0, len(raw))

	for i, r := range raw {
		key := Canonicalize(r.LocalID)
		j, seen := best[key]
		if !seen {
			best[key] = i
			order = append(order, key)
			continue
		}
		if SnapshotDate(r.LocalID) > SnapshotDate(raw[j].LocalID) {
			best[key] = i
		}
	}

	out := make([]RawModel, 0, len(order))
	for _, key := range order {
		out = append(out, raw[best[key]])
	}
	return out
}
