package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hugo-setiawan/action-lark-bot/pkg/cli/internal/output"
	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
	"github.com/hugo-setiawan/action-lark-bot/pkg/template"
)

var (
	renderTemplate     string
	renderTemplateFile string
	renderTemplateName string
	renderVars         []string
	renderVarsFile     string
	renderSchemaFile   string
	renderConfigPath   string
	renderTarget       string
	renderRaw          bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a message template without sending it",
	Long: `Render substitutes variables into a message template and checks that
the result is valid JSON. Nothing is signed and nothing is delivered,
so it is safe to run against production targets while iterating on a
template.

By default the validated payload is pretty-printed; --raw writes the
rendered text byte for byte instead.`,
	Example: `  # Render an inline template
  larkbot render --template '{"msg_type":"text","content":{"text":"{{status}}"}}' \
    --var status=ok

  # Render a config target's template and pipe it elsewhere
  larkbot render --target ci-alerts --raw | jq .content`,
	RunE: runRender,
}

func runRender(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfigIfAny(renderConfigPath)
	if err != nil {
		return err
	}
	target, err := resolveTarget(cfg, renderTarget)
	if err != nil {
		return err
	}

	templateText, err := resolveTemplateText(cfg, target,
		renderTemplate, renderTemplateFile, renderTemplateName)
	if err != nil {
		return err
	}
	vars, err := resolveVars(cfg, target, renderVarsFile, renderVars)
	if err != nil {
		return err
	}

	rendered, err := template.Render(templateText, vars)
	if err != nil {
		return err
	}
	body, err := payload.Validate(rendered)
	if err != nil {
		return err
	}
	if renderSchemaFile != "" {
		schema, err := os.ReadFile(renderSchemaFile)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		if err := payload.CheckSchema(body, schema); err != nil {
			return err
		}
	}

	if renderRaw {
		_, err := os.Stdout.WriteString(rendered)
		return err
	}
	return output.JSON(body)
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "Inline message template")
	renderCmd.Flags().StringVar(&renderTemplateFile, "template-file", "", "Path to a message template file")
	renderCmd.Flags().StringVar(&renderTemplateName, "template-name", "", "Template file name resolved through the config's template_dirs")
	renderCmd.Flags().StringArrayVar(&renderVars, "var", nil, "Template variable as key=value (repeatable)")
	renderCmd.Flags().StringVar(&renderVarsFile, "vars-file", "", "Path to a variables file (JSON object or key=value lines)")
	renderCmd.Flags().StringVar(&renderSchemaFile, "schema", "", "Path to a JSON Schema the payload must satisfy")
	renderCmd.Flags().StringVar(&renderConfigPath, "config", "", "Path to the config file (default: discover larkbot.yaml)")
	renderCmd.Flags().StringVar(&renderTarget, "target", "", "Named target from the config file")
	renderCmd.Flags().BoolVar(&renderRaw, "raw", false, "Print the rendered text byte for byte instead of pretty JSON")
}
