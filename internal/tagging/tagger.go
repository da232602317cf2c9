// Package tagging extracts canonical element tags from free text labels.
package tagging

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/paulmach/orb/geojson"
	"golang.org/x/text/unicode/norm"
)

// Tag is an uppercase element symbol or composite group from the catalog
type Tag string

// TagSet is an unordered set of tags
type TagSet map[Tag]struct{}

// NewTagSet builds a set from the given tags
func NewTagSet(tags ...Tag) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s.Add(t)
	}
	return s
}

// Add inserts t
func (s TagSet) Add(t Tag) {
	s[t] = struct{}{}
}

// Has reports whether t is in the set
func (s TagSet) Has(t Tag) bool {
	_, ok := s[t]
	return ok
}

// Union adds every member of other to s
func (s TagSet) Union(other TagSet) {
	for t := range other {
		s[t] = struct{}{}
	}
}

// Sorted returns the members in lexical order
func (s TagSet) Sorted() []Tag {
	out := make([]Tag, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Strings returns the sorted members as plain strings
func (s TagSet) Strings() []string {
	sorted := s.Sorted()
	out := make([]string, len(sorted))
	for i, t := range sorted {
		out[i] = string(t)
	}
	return out
}

// MarshalJSON encodes the set as a sorted array
func (s TagSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of tags
func (s *TagSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	set := make(TagSet, len(items))
	for _, item := range items {
		set.Add(Tag(strings.ToUpper(item)))
	}
	*s = set
	return nil
}

var punctuation = strings.NewReplacer(
	".", " ", ",", " ", "/", " ", "#", " ", "!", " ", "$", " ", "%", " ",
	"^", " ", "&", " ", "*", " ", ";", " ", ":", " ", "{", " ", "}", " ",
	"=", " ", "-", " ", "_", " ", "`", " ", "~", " ", "(", " ", ")", " ",
)

// normalize uppercases text and turns the punctuation set into spaces.
// Dotted capital I is folded so Turkish-cased input hits the same keys.
func normalize(text string) string {
	upper := strings.ToUpper(norm.NFC.String(text))
	upper = strings.ReplaceAll(upper, "İ", "I")
	return punctuation.Replace(upper)
}

// ExtractTags returns the tags named by whole tokens of text. Tokens that
// are neither a catalog symbol nor an alias are dropped.
func ExtractTags(text string) TagSet {
	tags := make(TagSet)
	for _, token := range strings.Fields(normalize(text)) {
		if tag, ok := lookup(token); ok {
			tags.Add(tag)
		}
	}
	return tags
}

// ExtractAll tags several text fields at once
func ExtractAll(texts ...string) TagSet {
	return ExtractTags(strings.Join(texts, " "))
}

// Lookup resolves a single raw token to its tag
func Lookup(token string) (Tag, bool) {
	fields := strings.Fields(normalize(token))
	if len(fields) != 1 {
		return "", false
	}
	return lookup(fields[0])
}

func lookup(token string) (Tag, bool) {
	if IsCatalogTag(Tag(token)) {
		return Tag(token), true
	}
	if tag, ok := aliases[token]; ok {
		return tag, true
	}
	return "", false
}

// featureTextKeys are the properties scanned on imported features
var featureTextKeys = []string{"name", "Name", "description", "Description"}

// FeatureText joins the text properties of a feature. Values that are not
// strings are ignored.
func FeatureText(f *geojson.Feature) string {
	if f == nil {
		return ""
	}
	var parts []string
	for _, key := range featureTextKeys {
		if s, ok := f.Properties[key].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

// ScanFeatureCollection tags every feature of fc. It returns the union for
// the whole collection and one set per feature, index aligned with fc.Features.
func ScanFeatureCollection(fc *geojson.FeatureCollection) (TagSet, []TagSet) {
	all := make(TagSet)
	if fc == nil {
		return all, nil
	}
	perFeature := make([]TagSet, len(fc.Features))
	for i, f := range fc.Features {
		perFeature[i] = ExtractTags(FeatureText(f))
		all.Union(perFeature[i])
	}
	return all, perFeature
}
