package content

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/rpg-rewards/internal/errors"
)

// Parse builds a catalog from one YAML document
func Parse(data []byte) (*Catalog, error) {
	f, err := decode(data)
	if err != nil {
		return nil, err
	}
	return build(f)
}

// LoadFile builds a catalog from one YAML file
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read content file %s", path)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid content file %s", path)
	}
	return catalog, nil
}

// Load builds a catalog from every .yaml and .yml file in dir, in name order
func Load(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read content directory %s", dir)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, errors.NotFoundf("no content files in %s", dir)
	}

	merged := &File{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) // #nosec G304 -- path is inside the content directory
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read content file %s", path)
		}
		f, err := decode(data)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid content file %s", path)
		}
		merged.merge(f)
	}

	catalog, err := build(merged)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid content in %s", dir)
	}

	slog.Info("Content loaded",
		"dir", dir,
		"files", len(names),
		"items", len(catalog.items),
		"loot_tables", len(catalog.tables),
		"proficiencies", len(catalog.proficiencies))

	return catalog, nil
}

// ParseRewardSpecs decodes a YAML list of rewards, as written in a reward file
func ParseRewardSpecs(data []byte) ([]RewardSpec, error) {
	var specs []RewardSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse rewards")
	}
	return specs, nil
}

func decode(data []byte) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		if err == io.EOF {
			return f, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to parse content")
	}
	return f, nil
}
