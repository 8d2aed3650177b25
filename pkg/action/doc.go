// Package action implements the GitHub Actions entrypoint.
//
// Inputs arrive as INPUT_* environment variables, outputs are appended
// to the file named by GITHUB_OUTPUT, and fatal failures surface as
// ::error:: workflow annotations. Run wires the full pipeline: parse
// variables, evaluate the optional when condition, render and validate
// the message template, then sign and deliver the payload.
package action
