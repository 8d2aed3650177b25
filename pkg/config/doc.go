// Package config provides configuration types and loading for larkbot.
//
// This package defines the structures read from a larkbot.yaml (or .yml,
// .json) file:
//   - Config: Top-level file with shared defaults, template search
//     directories, and named targets
//   - Target: A single webhook destination with its URL, signing secret
//     source, and per-target variables
//
// Secrets never live in the file itself. A target names the environment
// variable that holds its signing secret via secret_env, and the value
// is resolved at send time.
//
// File-based Configuration:
//
// Configuration can be loaded from YAML or JSON files:
//
//	cfg, err := config.LoadFromFile("larkbot.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The YAML format follows the Config structure:
//
//	defaults:
//	  team: platform
//	template_dirs:
//	  - templates
//	targets:
//	  alerts:
//	    url: https://open.larksuite.com/open-apis/bot/v2/hook/xxx
//	    secret_env: LARK_ALERTS_SECRET
//	    template_file: alert.json.tmpl
//	    vars:
//	      channel: alerts
package config
