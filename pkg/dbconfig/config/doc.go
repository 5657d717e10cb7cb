/*
Package config reads dbconfig settings files into a loosely typed map.

# Overview

config wraps a map[string]any and provides accessors that never fail.
dbconfig.Apply walks Keys and validates every value itself, so this package
only needs to answer "is the key there" and "what raw value does it hold".

# File Loading

Load configuration from YAML or JSON files:

	cfg, err := config.FromFile("dbconfig.yaml")
	if err != nil {
	    return err
	}

	raw, ok := cfg.Lookup("hook_prefix")

	// Or load from bytes
	cfg, err = config.FromYAML(yamlBytes)
	cfg, err = config.FromJSON(jsonBytes)
	cfg, err = config.Parse(data, config.FormatJSON)

The top level must be a mapping. Nested mappings are reached with Section:

	db, ok := cfg.Section("dbconfig")

A typical settings file:

	hook_prefix: acme_
	database_query_exception: dberr.QueryError

# Thread Safety

Config is safe for concurrent read access. The underlying map is not
modified after creation.
*/
package config
