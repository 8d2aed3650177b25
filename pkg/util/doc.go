// Package util provides shared helpers for safe file-path validation and
// log-body truncation used across larkbot packages.
//
//   - SafeFilePath / SafeFilePathAllowAbsolute reject path-traversal attempts
//   - TruncateBody caps payload/response text for safe logging
package util
