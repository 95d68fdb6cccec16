package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/user/aisec-dash/pkg/engine"
	"github.com/user/aisec-dash/pkg/logger"
)

//go:embed fixtures/demo.yaml
var demoFixture []byte

// Default returns a fresh copy of the embedded demo data
func Default() (*engine.Dataset, error) {
	ds, err := Parse(demoFixture)
	if err != nil {
		return nil, fmt.Errorf("embedded fixture: %w", err)
	}
	return ds, nil
}

// Parse decodes one YAML document, assigns missing ids and links records to
// their systems
func Parse(data []byte) (*engine.Dataset, error) {
	ds, err := decode(data)
	if err != nil {
		return nil, err
	}
	link(ds)
	return ds, nil
}

// decode assigns missing ids but leaves system links alone, since a name
// unique in one file may be ambiguous once files are merged
func decode(data []byte) (*engine.Dataset, error) {
	var ds engine.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, err
	}
	normalize(&ds)
	return &ds, nil
}

// Load reads a single YAML file, or every *.yaml / *.yml file of a
// directory merged in file-name order. An empty path loads the demo data.
func Load(path string) (*engine.Dataset, error) {
	if path == "" {
		return Default()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		ds, err := loadFile(path)
		if err != nil {
			return nil, err
		}
		link(ds)
		return ds, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isYAML(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no YAML files in %s", path)
	}
	sort.Strings(names)

	merged := &engine.Dataset{}
	for _, name := range names {
		part, err := loadFile(filepath.Join(path, name))
		if err != nil {
			return nil, err
		}
		merge(merged, part)
	}
	link(merged)
	return merged, nil
}

func isYAML(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func loadFile(path string) (*engine.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ds, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	logger.Named("dataset").Debug("Loaded dataset file",
		zap.String("file", path),
		zap.Int("systems", len(ds.Systems)),
		zap.Int("vulnerabilities", len(ds.Vulnerabilities)),
		zap.Int("alerts", len(ds.Alerts)),
		zap.Int("frameworks", len(ds.Frameworks)),
	)
	return ds, nil
}

// merge appends every collection of src to dst. A non-empty overview block
// in a later file replaces the earlier one.
func merge(dst, src *engine.Dataset) {
	if src.Overview != (engine.OverviewStats{}) {
		dst.Overview = src.Overview
	}
	dst.Systems = append(dst.Systems, src.Systems...)
	dst.Vulnerabilities = append(dst.Vulnerabilities, src.Vulnerabilities...)
	dst.Alerts = append(dst.Alerts, src.Alerts...)
	dst.Frameworks = append(dst.Frameworks, src.Frameworks...)
	dst.Activity = append(dst.Activity, src.Activity...)
	dst.ScanHistory = append(dst.ScanHistory, src.ScanHistory...)
}

func normalize(ds *engine.Dataset) {
	for i := range ds.Systems {
		ensureID(&ds.Systems[i].ID)
	}
	for i := range ds.Vulnerabilities {
		ensureID(&ds.Vulnerabilities[i].ID)
	}
	for i := range ds.Alerts {
		ensureID(&ds.Alerts[i].ID)
	}
	for i := range ds.Frameworks {
		fw := &ds.Frameworks[i]
		ensureID(&fw.ID)
		for j := range fw.Requirements {
			ensureID(&fw.Requirements[j].ID)
		}
	}
	for i := range ds.Activity {
		ensureID(&ds.Activity[i].ID)
	}
}

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// link fills the system id of vulnerabilities and alerts that only carry a
// display name, when exactly one system has that name
func link(ds *engine.Dataset) {
	byName := make(map[string]string, len(ds.Systems))
	dup := make(map[string]bool)
	for _, s := range ds.Systems {
		if _, ok := byName[s.Name]; ok {
			dup[s.Name] = true
		}
		byName[s.Name] = s.ID
	}
	resolve := func(id *string, name string) {
		if *id != "" || dup[name] {
			return
		}
		if sid, ok := byName[name]; ok {
			*id = sid
		}
	}
	for i := range ds.Vulnerabilities {
		v := &ds.Vulnerabilities[i]
		resolve(&v.SystemID, v.SystemName)
	}
	for i := range ds.Alerts {
		a := &ds.Alerts[i]
		resolve(&a.SystemID, a.SystemName)
	}
}
