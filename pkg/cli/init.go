package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/hugo-setiawan/action-lark-bot/pkg/util"
)

var (
	initDir         string
	initForce       bool
	initInteractive bool
)

// placeholderURL marks the spot users must fill in with their bot's
// real webhook address.
const placeholderURL = "https://open.larksuite.com/open-apis/bot/v2/hook/REPLACE_ME"

// starterTemplate is the sample message written by larkbot init. The
// unresolved placeholders stay literal until send provides variables,
// so the file renders as valid JSON out of the box.
const starterTemplate = `{
  "msg_type": "text",
  "content": {
    "text": "{{project}} deploy by {{actor}}: {{status}}"
  }
}
`

// initOptions carries the answers that shape the generated files.
type initOptions struct {
	TargetName     string
	URL            string
	SecretEnv      string
	SampleTemplate bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter larkbot.yaml and example template",
	Long: `Init scaffolds a config file with one target and a sample message
template, ready to edit and test with larkbot send --dry-run.

Interactive mode prompts for the target name, webhook URL, and the
environment variable that holds the signing secret.`,
	Example: `  # Create larkbot.yaml in the current directory
  larkbot init

  # Interactive setup
  larkbot init -i

  # Scaffold into a subdirectory, overwriting existing files
  larkbot init --dir ci --force`,
	RunE: runInit,
}

func runInit(_ *cobra.Command, _ []string) error {
	opts := initOptions{
		TargetName:     "ci-alerts",
		URL:            placeholderURL,
		SampleTemplate: true,
	}
	if initInteractive {
		if err := promptInitOptions(&opts); err != nil {
			return err
		}
	}

	created, err := scaffoldWorkspace(initDir, initForce, opts)
	if err != nil {
		return err
	}

	for _, path := range created {
		fmt.Printf("Created %s\n", path)
	}
	fmt.Println()
	fmt.Println("Next steps:")
	if opts.URL == placeholderURL {
		fmt.Println("  edit larkbot.yaml and set your bot's webhook URL")
	}
	if opts.SecretEnv != "" {
		fmt.Printf("  export %s=<bot signing secret>\n", opts.SecretEnv)
	}
	fmt.Printf("  larkbot send --target %s --var actor=$USER --var status=testing --dry-run\n", opts.TargetName)

	return nil
}

// promptInitOptions fills opts from an interactive form. Empty answers
// keep the defaults already in opts.
func promptInitOptions(opts *initOptions) error {
	var formName, formURL, formSecretEnv string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Target name").
				Placeholder(opts.TargetName).
				Value(&formName).
				Validate(func(s string) error {
					if strings.ContainsAny(s, " \t") {
						return errors.New("target name must not contain spaces")
					}
					return nil
				}),
			huh.NewInput().
				Title("Webhook URL").
				Placeholder(placeholderURL).
				Value(&formURL).
				Validate(func(s string) error {
					if s != "" && !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return errors.New("webhook URL must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().
				Title("Secret environment variable (empty to skip signing)").
				Placeholder("LARK_SECRET").
				Value(&formSecretEnv),
			huh.NewConfirm().
				Title("Create a sample template?").
				Value(&opts.SampleTemplate),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if formName != "" {
		opts.TargetName = formName
	}
	if formURL != "" {
		opts.URL = formURL
	}
	if formSecretEnv != "" {
		opts.SecretEnv = formSecretEnv
	}
	return nil
}

// scaffoldWorkspace writes the starter files under dir and returns the
// paths it created.
func scaffoldWorkspace(dir string, force bool, opts initOptions) ([]string, error) {
	configPath := filepath.Join(dir, "larkbot.yaml")
	if _, err := os.Stat(configPath); err == nil && !force {
		return nil, fmt.Errorf("file already exists: %s\n\nUse --force to overwrite", configPath)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(buildConfigYAML(opts)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	created := []string{configPath}

	if opts.SampleTemplate {
		// The target name becomes a file name; keep it inside the scaffold dir.
		rel, ok := util.SafeFilePath(filepath.Join("templates", opts.TargetName+".json.tmpl"))
		if !ok {
			return nil, fmt.Errorf("invalid target name: %s", opts.TargetName)
		}
		templatePath := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(templatePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		if err := os.WriteFile(templatePath, []byte(starterTemplate), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write file: %w", err)
		}
		created = append(created, templatePath)
	}

	return created, nil
}

// buildConfigYAML generates the starter config with header comments.
func buildConfigYAML(opts initOptions) string {
	var b strings.Builder
	b.WriteString("# larkbot.yaml\n")
	b.WriteString("# Generated by: larkbot init\n")
	b.WriteString("#\n")
	b.WriteString("# Render locally: larkbot render --target " + opts.TargetName + " --raw\n")
	b.WriteString("# Test delivery:  larkbot send --target " + opts.TargetName + " --dry-run\n")
	b.WriteString("\n")
	b.WriteString("defaults:\n")
	b.WriteString("  project: my-project\n")
	b.WriteString("\n")
	b.WriteString("template_dirs:\n")
	b.WriteString("  - templates\n")
	b.WriteString("\n")
	b.WriteString("targets:\n")
	b.WriteString("  " + opts.TargetName + ":\n")
	b.WriteString("    url: " + opts.URL + "\n")
	if opts.SecretEnv != "" {
		b.WriteString("    secret_env: " + opts.SecretEnv + "\n")
	} else {
		b.WriteString("    # secret_env: LARK_SECRET\n")
	}
	if opts.SampleTemplate {
		b.WriteString("    template_file: " + opts.TargetName + ".json.tmpl\n")
	}
	b.WriteString("    vars:\n")
	b.WriteString("      channel: ci\n")
	return b.String()
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&initDir, "dir", ".", "Directory to scaffold into")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Interactive mode - prompts for configuration")
}
