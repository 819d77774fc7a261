package catalog

import "sort"

// DiffReport is the outcome of comparing the key sets of several languages.
// All slices are sorted.
type DiffReport struct {
	Languages []string
	AllKeys   []string
	// Missing[L] holds the keys some other language has and L lacks.
	Missing map[string][]string
	// Exclusive[L] holds the keys only L has.
	Exclusive map[string][]string
	// Counts[L] is the number of keys L has.
	Counts map[string]int
}

// Diff computes missing and exclusive key sets for every language in flat.
func Diff(flat map[string]FlatMap) DiffReport {
	r := DiffReport{
		Languages: make([]string, 0, len(flat)),
		Missing:   make(map[string][]string, len(flat)),
		Exclusive: make(map[string][]string, len(flat)),
		Counts:    make(map[string]int, len(flat)),
	}

	// owners[k] counts the languages holding k.
	owners := make(map[string]int)
	for lang, m := range flat {
		r.Languages = append(r.Languages, lang)
		r.Counts[lang] = len(m)
		for k := range m {
			owners[k]++
		}
	}
	sort.Strings(r.Languages)

	r.AllKeys = make([]string, 0, len(owners))
	for k := range owners {
		r.AllKeys = append(r.AllKeys, k)
	}
	sort.Strings(r.AllKeys)

	for _, lang := range r.Languages {
		m := flat[lang]
		missing := []string{}
		exclusive := []string{}
		for _, k := range r.AllKeys {
			if _, ok := m[k]; !ok {
				missing = append(missing, k)
			} else if owners[k] == 1 {
				exclusive = append(exclusive, k)
			}
		}
		r.Missing[lang] = missing
		r.Exclusive[lang] = exclusive
	}
	return r
}

// InParity reports whether no language is missing any key.
func (r DiffReport) InParity() bool {
	return r.TotalMissing() == 0
}

// TotalMissing sums the missing keys over all languages.
func (r DiffReport) TotalMissing() int {
	n := 0
	for _, keys := range r.Missing {
		n += len(keys)
	}
	return n
}

// HasExclusive reports whether any language holds a key no other language has.
func (r DiffReport) HasExclusive() bool {
	for _, keys := range r.Exclusive {
		if len(keys) > 0 {
			return true
		}
	}
	return false
}
