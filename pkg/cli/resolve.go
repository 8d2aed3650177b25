package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/hugo-setiawan/action-lark-bot/pkg/config"
	"github.com/hugo-setiawan/action-lark-bot/pkg/variables"
)

// Environment variables consulted between flags and the config file.
const (
	envWebhookURL    = "LARKBOT_WEBHOOK_URL"
	envWebhookSecret = "LARKBOT_WEBHOOK_SECRET"
	envTimeoutMS     = "LARKBOT_TIMEOUT_MS"
	envConfigPath    = "LARKBOT_CONFIG"
)

// loadConfigIfAny loads the config file named by the flag, by
// LARKBOT_CONFIG, or discovered in the working directory. Returns
// (nil, nil) when no config exists and none was explicitly requested.
func loadConfigIfAny(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv(envConfigPath)
	}
	if path == "" {
		discovered, err := config.Discover(".")
		if err != nil {
			return nil, nil
		}
		path = discovered
	}
	return config.LoadFromFile(path)
}

// resolveTarget returns the named target, or nil when no target was
// requested.
func resolveTarget(cfg *config.Config, name string) (*config.Target, error) {
	if name == "" {
		return nil, nil
	}
	if cfg == nil {
		return nil, fmt.Errorf("--target %s needs a config file (larkbot.yaml or --config)", name)
	}
	return cfg.Target(name)
}

// resolveURL returns the webhook URL from the highest-precedence
// source: the --url flag, LARKBOT_WEBHOOK_URL, then the target.
func resolveURL(target *config.Target, url string) (string, error) {
	if url != "" {
		return url, nil
	}
	if v := os.Getenv(envWebhookURL); v != "" {
		return v, nil
	}
	if target != nil && target.URL != "" {
		return target.URL, nil
	}
	return "", errors.New("no webhook URL: use --url, LARKBOT_WEBHOOK_URL, or a config target")
}

// resolveSecret returns the signing secret from the highest-precedence
// source: --secret, --secret-env, LARKBOT_WEBHOOK_SECRET, then the
// target's secret_env. Empty means unsigned.
func resolveSecret(target *config.Target, secret, secretEnv string) string {
	if secret != "" {
		return secret
	}
	if secretEnv != "" {
		return os.Getenv(secretEnv)
	}
	if v := os.Getenv(envWebhookSecret); v != "" {
		return v
	}
	if target != nil {
		return target.Secret()
	}
	return ""
}

// resolveTemplateText returns the message template text from the
// highest-precedence source: the inline --template flag, an explicit
// --template-file path, a --template-name looked up through the
// config's template_dirs, then the target's template_file.
func resolveTemplateText(cfg *config.Config, target *config.Target, inline, file, name string) (string, error) {
	readResolved := func(templateName string) (string, error) {
		if cfg == nil {
			return "", fmt.Errorf("template %q needs a config file with template_dirs", templateName)
		}
		path, err := cfg.ResolveTemplate(templateName)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template %s: %w", path, err)
		}
		return string(data), nil
	}

	switch {
	case inline != "":
		return inline, nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	case name != "":
		return readResolved(name)
	case target != nil && target.TemplateFile != "":
		return readResolved(target.TemplateFile)
	}
	return "", errors.New("no message template: use --template, --template-file, --template-name, or a target with template_file")
}

// resolveVars layers variables from lowest to highest precedence:
// config defaults, target vars, a vars file, then repeatable --var
// entries.
func resolveVars(cfg *config.Config, target *config.Target, varsFile string, varFlags []string) (variables.Variables, error) {
	merged := variables.Variables{}
	if cfg != nil {
		for k, v := range cfg.VarsFor(target) {
			merged[k] = v
		}
	}

	if varsFile != "" {
		data, err := os.ReadFile(varsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read vars file: %w", err)
		}
		for k, v := range variables.Parse(string(data)) {
			merged[k] = v
		}
	}

	for _, kv := range varFlags {
		parsed := variables.Parse(kv)
		if len(parsed) == 0 {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", kv)
		}
		for k, v := range parsed {
			merged[k] = v
		}
	}

	return merged, nil
}
