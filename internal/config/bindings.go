package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v2"

	"sheetload/internal/errors"
)

// FileBinding associates one remote file with one destination table. The
// header policy and fan-out mode are properties of a known external file
// shape, selected per binding rather than inferred from content.
type FileBinding struct {
	Name       string `yaml:"name"`
	RemotePath string `yaml:"path"`
	TableName  string `yaml:"table"`
	// HeaderSkip discards N leading metadata rows before the header row.
	// Zero means the first row is the header.
	HeaderSkip int `yaml:"header_skip"`
	// AllSheets imports every non-empty sheet into {table}_{sheet} instead
	// of only the first sheet into {table}.
	AllSheets bool `yaml:"all_sheets"`
}

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

func (b FileBinding) validate(ordinal int) error {
	label := b.Name
	if label == "" {
		label = fmt.Sprintf("binding %d", ordinal)
	}
	switch {
	case b.Name == "":
		return errors.ConfigInvalid(fmt.Sprintf("%s: name is required", label))
	case b.RemotePath == "":
		return errors.ConfigInvalid(fmt.Sprintf("%s: path is required", label))
	case b.TableName == "":
		return errors.ConfigInvalid(fmt.Sprintf("%s: table is required", label))
	case !tableNamePattern.MatchString(b.TableName):
		return errors.ConfigInvalid(fmt.Sprintf("%s: table %q is not a valid identifier", label, b.TableName))
	case b.HeaderSkip < 0:
		return errors.ConfigInvalid(fmt.Sprintf("%s: header_skip must not be negative", label))
	}
	return nil
}

// LoadBindings reads the ordered binding list from a YAML file
func LoadBindings(path string) ([]FileBinding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to read bindings file %s", path)
	}

	var file struct {
		Bindings []FileBinding `yaml:"bindings"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(errors.ConfigInvalid(err.Error()), "failed to parse bindings file %s", path)
	}
	if len(file.Bindings) == 0 {
		return nil, errors.ConfigInvalid("bindings file defines no bindings")
	}

	for i, b := range file.Bindings {
		if err := b.validate(i); err != nil {
			return nil, err
		}
	}
	return file.Bindings, nil
}
