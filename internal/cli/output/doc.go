// Package output renders command results.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables, with wide mode for extra columns
//   - columns.go: typed column definitions for record lists
//   - json.go: indented JSON
//   - yaml.go: YAML keyed by the JSON field names
//   - spinner.go: activity indicator for slow requests
package output
