// Package manifest loads the installer manifest (newtonium.config.json).
//
// The manifest has two required sections:
//
//	{
//	  "installer": {"title": "My App Setup"},
//	  "app": {"name": "My App", "package_name": "my-app", "icon": "icon.png"}
//	}
//
// YAML (.yaml, .yml) and TOML (.toml) documents with the same shape are
// accepted too. The manifest is loaded and validated once at startup; every
// missing or malformed key is reported in a single error, and the resulting
// *Manifest is never mutated afterwards, so it is shared without locking.
package manifest
