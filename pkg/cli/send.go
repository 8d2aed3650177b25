package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/hugo-setiawan/action-lark-bot/pkg/action"
	"github.com/hugo-setiawan/action-lark-bot/pkg/cli/internal/output"
)

var (
	sendURL          string
	sendSecret       string
	sendSecretEnv    string
	sendTemplate     string
	sendTemplateFile string
	sendTemplateName string
	sendVars         []string
	sendVarsFile     string
	sendTimeoutMS    int64
	sendSchemaFile   string
	sendWhen         string
	sendDryRun       bool
	sendFailOnError  bool
	sendConfigPath   string
	sendTarget       string
)

// sendResult is the machine-readable summary printed with --json.
type sendResult struct {
	OK           bool   `json:"ok"`
	Status       int    `json:"status"`
	ResponseText string `json:"response_text"`
}

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Render a message template and deliver it to a webhook",
	Long: `Send renders a JSON message template with variables and posts it to a
Lark custom-bot webhook, signing the payload when a secret is
configured.

Settings are resolved with the precedence flags > environment
(LARKBOT_WEBHOOK_URL, LARKBOT_WEBHOOK_SECRET, LARKBOT_TIMEOUT_MS) >
config file target > defaults.`,
	Example: `  # Send an inline template
  larkbot send --url https://open.larksuite.com/open-apis/bot/v2/hook/xxx \
    --template '{"msg_type":"text","content":{"text":"build {{status}}"}}' \
    --var status=success

  # Send a config target with extra variables
  larkbot send --target ci-alerts --var actor=hugo

  # Preview without delivering
  larkbot send --target ci-alerts --dry-run`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := loadConfigIfAny(sendConfigPath)
	if err != nil {
		return err
	}
	target, err := resolveTarget(cfg, sendTarget)
	if err != nil {
		return err
	}

	url, err := resolveURL(target, sendURL)
	if err != nil {
		return err
	}

	templateText, err := resolveTemplateText(cfg, target,
		sendTemplate, sendTemplateFile, sendTemplateName)
	if err != nil {
		return err
	}

	vars, err := resolveVars(cfg, target, sendVarsFile, sendVars)
	if err != nil {
		return err
	}
	// action.Run owns the pipeline and takes the raw variables input;
	// hand it the merged mapping as a JSON object.
	varsJSON, err := json.Marshal(vars)
	if err != nil {
		return fmt.Errorf("failed to encode variables: %w", err)
	}

	var schema string
	if sendSchemaFile != "" {
		data, err := os.ReadFile(sendSchemaFile)
		if err != nil {
			return fmt.Errorf("failed to read schema file: %w", err)
		}
		schema = string(data)
	}

	in := action.Inputs{
		WebhookURL:      url,
		MessageTemplate: templateText,
		WebhookSecret:   resolveSecret(target, sendSecret, sendSecretEnv),
		Variables:       string(varsJSON),
		PayloadSchema:   schema,
		When:            sendWhen,
		Timeout:         resolveSendTimeout(cmd),
		DryRun:          sendDryRun,
		FailOnHTTPError: sendFailOnError,
	}

	out, runErr := action.Run(cmd.Context(), in, logger)

	// A failed delivery still produced a response worth showing.
	if runErr == nil || out.Status != 0 {
		if err := printSendResult(out); err != nil {
			return err
		}
	}
	return runErr
}

// resolveSendTimeout applies LARKBOT_TIMEOUT_MS when --timeout-ms was
// not given. A malformed environment value keeps the flag default.
func resolveSendTimeout(cmd *cobra.Command) time.Duration {
	ms := sendTimeoutMS
	if !cmd.Flags().Changed("timeout-ms") {
		if raw := os.Getenv(envTimeoutMS); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 0 {
				output.Warn("ignoring %s=%q: not a non-negative integer", envTimeoutMS, raw)
			} else {
				ms = parsed
			}
		}
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

func printSendResult(out action.Outputs) error {
	if jsonOutput {
		return output.JSON(sendResult{
			OK:           out.OK,
			Status:       out.Status,
			ResponseText: out.ResponseText,
		})
	}

	w := output.Table()
	fmt.Fprintf(w, "ok:\t%v\n", out.OK)
	fmt.Fprintf(w, "status:\t%d\n", out.Status)
	fmt.Fprintf(w, "response:\t%s\n", out.ResponseText)
	return w.Flush()
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVar(&sendURL, "url", "", "Webhook URL")
	sendCmd.Flags().StringVar(&sendSecret, "secret", "", "Signing secret (prefer --secret-env)")
	sendCmd.Flags().StringVar(&sendSecretEnv, "secret-env", "", "Name of the environment variable holding the signing secret")
	sendCmd.Flags().StringVar(&sendTemplate, "template", "", "Inline message template")
	sendCmd.Flags().StringVar(&sendTemplateFile, "template-file", "", "Path to a message template file")
	sendCmd.Flags().StringVar(&sendTemplateName, "template-name", "", "Template file name resolved through the config's template_dirs")
	sendCmd.Flags().StringArrayVar(&sendVars, "var", nil, "Template variable as key=value (repeatable)")
	sendCmd.Flags().StringVar(&sendVarsFile, "vars-file", "", "Path to a variables file (JSON object or key=value lines)")
	sendCmd.Flags().Int64Var(&sendTimeoutMS, "timeout-ms", 10000, "Request timeout in milliseconds (0 disables)")
	sendCmd.Flags().StringVar(&sendSchemaFile, "schema", "", "Path to a JSON Schema the payload must satisfy")
	sendCmd.Flags().StringVar(&sendWhen, "when", "", "Boolean expression; false skips the send")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "Render and validate without delivering")
	sendCmd.Flags().BoolVar(&sendFailOnError, "fail-on-error", true, "Exit non-zero when the webhook returns a non-2xx status")
	sendCmd.Flags().StringVar(&sendConfigPath, "config", "", "Path to the config file (default: discover larkbot.yaml)")
	sendCmd.Flags().StringVar(&sendTarget, "target", "", "Named target from the config file")
}
