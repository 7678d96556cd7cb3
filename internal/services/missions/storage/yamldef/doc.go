// Package yamldef loads mission definitions from a directory of YAML files.
//
// A definitions directory holds:
//   - categories.yml: an ordered mapping of category name to weight
//   - default.yml: a "default" section with fallback display fields
//   - any other *.yml file: a mapping of mission key to mission fields
//
// Mission files are parsed concurrently; the resulting table is compiled
// in one step so a bad file never yields a partial table.
package yamldef
