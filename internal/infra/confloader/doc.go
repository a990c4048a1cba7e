// Package confloader loads layered configuration with koanf.
//
// Sources are applied in the order defaults (the target struct as
// passed in), YAML file, CMSADMIN_* environment variables, then flag
// values. The Watcher reports changes to the config file so that a
// long-running shell can reload it.
package confloader
