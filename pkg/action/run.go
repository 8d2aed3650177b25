package action

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/expr-lang/expr"

	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
	"github.com/hugo-setiawan/action-lark-bot/pkg/template"
	"github.com/hugo-setiawan/action-lark-bot/pkg/variables"
	"github.com/hugo-setiawan/action-lark-bot/pkg/webhook"
)

// Run executes one send pipeline: parse variables, evaluate the when
// condition, render and validate the message template, then sign and
// deliver the payload (or stop short in dry-run mode).
//
// The returned Outputs are meaningful even when err is non-nil, so
// callers can report them before failing the run.
func Run(ctx context.Context, in Inputs, logger *slog.Logger) (Outputs, error) {
	vars := variables.Parse(in.Variables)

	if in.When != "" {
		send, err := evalWhen(in.When, vars)
		if err != nil {
			return Outputs{}, err
		}
		if !send {
			logger.Info("when condition is false, skipping send", "when", in.When)
			return Outputs{OK: true, Status: 0, ResponseText: "skipped"}, nil
		}
	}

	rendered, err := template.Render(in.MessageTemplate, vars)
	if err != nil {
		return Outputs{}, err
	}

	body, err := payload.Validate(rendered)
	if err != nil {
		return Outputs{}, err
	}

	if in.PayloadSchema != "" {
		if err := payload.CheckSchema(body, []byte(in.PayloadSchema)); err != nil {
			return Outputs{}, err
		}
	}

	if in.DryRun {
		if in.WebhookSecret != "" {
			// Probe the signing precondition without keeping the
			// augmented body; dry-run output never shows the
			// timestamp and sign fields.
			if _, err := payload.Augment(body, in.WebhookSecret, 0); err != nil {
				return Outputs{}, err
			}
		}
		logger.Info("dry run, skipping delivery", "payload", rendered)
		return Outputs{OK: true, Status: 0, ResponseText: "dry_run"}, nil
	}

	client := webhook.New(in.WebhookURL,
		webhook.WithSecret(in.WebhookSecret),
		webhook.WithTimeout(in.Timeout),
		webhook.WithLogger(logger),
	)

	result, err := client.Send(ctx, body)
	if err != nil {
		return Outputs{}, err
	}

	out := Outputs{OK: result.OK(), Status: result.Status, ResponseText: result.Text()}
	if in.FailOnHTTPError {
		if err := result.StatusError(); err != nil {
			return out, err
		}
	}
	return out, nil
}

// evalWhen evaluates an expr condition against the variable mapping.
// Undefined variables evaluate as nil, so a comparison against a
// missing field skips the send instead of failing the workflow.
func evalWhen(condition string, vars variables.Variables) (bool, error) {
	env := map[string]any(vars)

	program, err := expr.Compile(condition,
		expr.Env(env),
		expr.AllowUndefinedVariables(),
		expr.AsBool(),
	)
	if err != nil {
		return false, fmt.Errorf("invalid when condition %q: %w", condition, err)
	}

	result, err := expr.Run(program, env)
	if err != nil {
		return false, fmt.Errorf("failed to evaluate when condition %q: %w", condition, err)
	}

	send, _ := result.(bool)
	return send, nil
}
