// Package cli provides the command-line interface for larkbot.
//
// The cli package implements the commands for sending webhook messages:
//   - send: Render a message template and deliver it to a webhook
//   - render: Render and validate a template without sending
//   - action: Run as a GitHub Actions step (INPUT_* env, GITHUB_OUTPUT)
//   - listen: Run a local receiver that mimics a Lark custom bot
//   - init: Scaffold a starter larkbot.yaml and sample template
//   - version: Show larkbot version
//
// send and render resolve their settings from flags, the LARKBOT_*
// environment variables, and a discovered larkbot.yaml, in that order.
// The action command instead reads GitHub's INPUT_* convention and
// writes step outputs, so a workflow can consume ok, status, and
// response_text from later steps.
//
// Usage:
//
//	larkbot init -i
//	larkbot render --target ci-alerts --var status=ok
//	larkbot send --target ci-alerts --var actor=$USER --dry-run
//	larkbot send --url https://open.larksuite.com/open-apis/bot/v2/hook/xxx \
//	  --template '{"msg_type":"text","content":{"text":"{{status}}"}}' \
//	  --var status=success
//	larkbot listen --secret-env LARK_SECRET
package cli
