package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/NickyBoy89/pharbuild/phar"
)

// stringList is a plugin.yml field that is either a single string, or a list
// of them
type stringList []string

func (l *stringList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var single string
	if err := unmarshal(&single); err == nil {
		*l = stringList{single}
		return nil
	}
	var list []string
	if err := unmarshal(&list); err != nil {
		return err
	}
	*l = list
	return nil
}

// PluginDescription is the part of a plugin's plugin.yml that ends up in the
// archive's metadata
type PluginDescription struct {
	Name        string     `yaml:"name"`
	Version     string     `yaml:"version"`
	Main        string     `yaml:"main"`
	API         stringList `yaml:"api"`
	Depend      stringList `yaml:"depend"`
	Description string     `yaml:"description"`
	Author      string     `yaml:"author"`
	Authors     stringList `yaml:"authors"`
	Website     string     `yaml:"website"`
}

func ReadPluginDescription(dir string) (*PluginDescription, error) {
	data, err := os.ReadFile(filepath.Join(dir, "plugin.yml"))
	if err != nil {
		return nil, err
	}
	var description PluginDescription
	if err := yaml.Unmarshal(data, &description); err != nil {
		return nil, fmt.Errorf("plugin.yml: %w", err)
	}
	if description.Name == "" || description.Version == "" {
		return nil, fmt.Errorf("plugin.yml: a name and a version are required")
	}
	return &description, nil
}

// ArchiveName is the file name the plugin is packed into
func (d PluginDescription) ArchiveName() string {
	return fmt.Sprintf("%s_v%s.phar", d.Name, d.Version)
}

// Metadata lists the description in the order it is stored in the archive
func (d PluginDescription) Metadata(created time.Time) phar.Metadata {
	authors := []string{}
	if d.Author != "" {
		authors = append(authors, d.Author)
	}
	authors = append(authors, d.Authors...)

	return phar.Metadata{
		{Key: "name", Value: d.Name},
		{Key: "version", Value: d.Version},
		{Key: "main", Value: d.Main},
		{Key: "api", Value: []string(d.API)},
		{Key: "depend", Value: []string(d.Depend)},
		{Key: "description", Value: d.Description},
		{Key: "authors", Value: authors},
		{Key: "website", Value: d.Website},
		{Key: "creationDate", Value: created.Unix()},
	}
}
