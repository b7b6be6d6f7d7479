package question

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// bankFile is the document layout of a question bank, in YAML or JSON.
type bankFile struct {
	Questions []Question `yaml:"questions" json:"questions"`
}

func readYamlFile[T any](path string) (T, error) {
	var result T

	file, err := os.Open(path)
	if err != nil {
		return result, fmt.Errorf("os.Open(%s)> %w", path, err)
	}
	defer func() {
		_ = file.Close()
	}()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&result); err != nil {
		return result, fmt.Errorf("yaml.NewDecoder().Decode()> %w", err)
	}
	return result, nil
}

func isBankFile(path string, info os.FileInfo) bool {
	if info.IsDir() {
		return false
	}
	ext := filepath.Ext(path)
	return ext == ".yml" || ext == ".yaml"
}

// LoadDirectories reads every YAML bank file under dirs into one Catalog.
func LoadDirectories(dirs ...string) (*Catalog, error) {
	var questions []Question
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !isBankFile(path, info) {
				return nil
			}

			contents, err := readYamlFile[bankFile](path)
			if err != nil {
				return fmt.Errorf("readYamlFile(%s) > %w", path, err)
			}
			questions = append(questions, contents.Questions...)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("filepath.Walk(%s) > %w", dir, err)
		}
	}

	catalog, err := NewCatalog(questions)
	if err != nil {
		return nil, fmt.Errorf("NewCatalog > %w", err)
	}
	return catalog, nil
}
