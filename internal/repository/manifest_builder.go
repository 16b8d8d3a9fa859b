package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const imperfectSuffix = "-imparfe"

// commonVerbs are listed first, each followed by its imperfect-tense topic.
var commonVerbs = []string{
	"etre", "avoir", "aller", "faire", "dire", "pouvoir",
	"vouloir", "voir", "savoir", "venir", "devoir", "parler",
	"finir", "mettre", "prendre",
}

// topicCategories orders the non-verb topics.
var topicCategories = [][]string{
	{"daily-activities", "work-tasks", "hobbies", "gardening"},
	{"basic-colors", "advanced-colors"},
	{"basic-clothing", "clothing", "clothing-accessories", "seasonal-clothing", "shoes"},
	{"home-items", "household-items", "household-maintenance", "home-improvement",
		"furniture", "rooms", "bathroom-items", "kitchen-appliances", "storage-solutions",
		"lighting", "windows-doors", "flooring", "heating-cooling", "exterior-features", "decor"},
	{"food", "fruits-vegetables", "dairy-products", "meat-fish", "beverages"},
	{"cleaning-supplies", "cleaning-appliances", "waste-management"},
	{"family-members", "extended-family", "relationships", "age-groups", "body-parts"},
	{"places", "public-buildings", "city-locations", "shops-stores"},
	{"domestic-animals", "wild-animals", "forest-animals"},
	{"numbers", "large-numbers"},
	{"technology", "transportation", "safety-equipment", "security", "personal-items"},
}

// OrderTopics sorts topic ids for the manifest: common verbs with their
// imperfect variants, other verbs, then topics by category, then the rest alphabetically.
func OrderTopics(ids []string) []string {
	isCommon := make(map[string]bool, len(commonVerbs))
	for _, v := range commonVerbs {
		isCommon[v] = true
	}

	verbGroups := make(map[string][]string)
	var others []string
	for _, id := range ids {
		base := strings.TrimSuffix(id, imperfectSuffix)
		if isCommon[id] || strings.HasSuffix(id, imperfectSuffix) {
			verbGroups[base] = append(verbGroups[base], id)
			continue
		}
		others = append(others, id)
	}

	out := make([]string, 0, len(ids))
	for _, v := range commonVerbs {
		if group, ok := verbGroups[v]; ok {
			sort.Strings(group)
			out = append(out, group...)
			delete(verbGroups, v)
		}
	}

	rest := make([]string, 0, len(verbGroups))
	for base := range verbGroups {
		rest = append(rest, base)
	}
	sort.Strings(rest)
	for _, base := range rest {
		group := verbGroups[base]
		sort.Strings(group)
		out = append(out, group...)
	}

	used := make(map[string]bool, len(others))
	for _, category := range topicCategories {
		var matched []string
		for _, id := range others {
			for _, c := range category {
				if id == c {
					matched = append(matched, id)
					break
				}
			}
		}
		sort.Strings(matched)
		for _, id := range matched {
			used[id] = true
		}
		out = append(out, matched...)
	}

	var remaining []string
	for _, id := range others {
		if !used[id] {
			remaining = append(remaining, id)
		}
	}
	sort.Strings(remaining)

	return append(out, remaining...)
}

// ListTopicFiles returns topic ids for every JSON file in dir except the manifest.
func ListTopicFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".json" || name == ManifestFile {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	return ids, nil
}

// EncodeManifest renders {"topics": {...}} keeping the given id order.
func EncodeManifest(ids []string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n  \"topics\": {")
	for i, id := range ids {
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(id + ".json")
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "\n    %s: %s", key, val)
	}
	if len(ids) > 0 {
		buf.WriteString("\n  ")
	}
	buf.WriteString("}\n}\n")
	return buf.Bytes(), nil
}

// WriteManifest builds the manifest for dir and writes it to dir/config.json.
// It returns the ordered topic ids.
func WriteManifest(dir string) ([]string, error) {
	ids, err := ListTopicFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	ordered := OrderTopics(ids)
	data, err := EncodeManifest(ordered)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return nil, fmt.Errorf("write manifest: %w", err)
	}
	return ordered, nil
}
