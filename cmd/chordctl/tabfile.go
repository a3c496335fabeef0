package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Conceptual-Machines/melody-api/internal/models"
	"gopkg.in/yaml.v3"
)

// loadTabs reads tab files. A file holds a single tab or a list of tabs, as
// JSON (.json) or YAML (anything else).
func loadTabs(paths []string) ([]models.Tab, error) {
	var all []models.Tab
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		tabs, err := decodeTabs(data, strings.EqualFold(filepath.Ext(path), ".json"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		all = append(all, tabs...)
	}
	return all, nil
}

func decodeTabs(data []byte, isJSON bool) ([]models.Tab, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if isJSON {
		if trimmed[0] == '[' {
			var tabs []models.Tab
			return tabs, json.Unmarshal(trimmed, &tabs)
		}
		var tab models.Tab
		if err := json.Unmarshal(trimmed, &tab); err != nil {
			return nil, err
		}
		return []models.Tab{tab}, nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, err
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var tabs []models.Tab
		return tabs, node.Decode(&tabs)
	}
	var tab models.Tab
	if err := node.Decode(&tab); err != nil {
		return nil, err
	}
	return []models.Tab{tab}, nil
}

// validateTab checks the fields ingestion cannot do without.
func validateTab(tab models.Tab) error {
	switch {
	case strings.TrimSpace(tab.Artist) == "":
		return fmt.Errorf("tab is missing an artist")
	case strings.TrimSpace(tab.Track) == "":
		return fmt.Errorf("tab %q is missing a track", tab.Artist)
	case len(tab.Sections) == 0:
		return fmt.Errorf("tab %s has no sections", tab.Label())
	}
	return nil
}
