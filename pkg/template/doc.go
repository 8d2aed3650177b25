// Package template renders JSON message templates with variable
// substitution. It supports {{name}} and {{dotted.path}} placeholders
// plus helpers for injecting values into JSON text.
//
// # Placeholders
//
// Plain placeholders interpolate variable values as text:
//   - {{name}} - Top-level variable
//   - {{user.name}} - Nested field via dotted path
//   - {{items[0].id}} - Array element via index path
//
// Strings render without quotes or escaping, numbers in plain decimal
// form, booleans as true/false, null as null, and lists and mappings as
// compact JSON. A placeholder that resolves to nothing renders as the
// empty string. A top-level variable whose name contains dots is
// matched directly before path resolution kicks in.
//
// # Helpers
//
// Helpers take one argument and accept both {{helper(value)}} and
// {{helper value}} forms:
//   - {{json value}} - JSON serialization of the value, injected
//     verbatim. Use outside string quotes.
//   - {{jstr value}} - Contents of the JSON string form of the value
//     with the surrounding double quotes stripped. Use inside an
//     existing quote pair; embedded escapes stay intact.
//
// # Built-in Variables
//
//   - {{now}} - Current time in RFC3339 format
//   - {{timestamp}} - Current Unix timestamp
//   - {{uuid}} - Random UUID v4
//
// Variables always win over built-ins: a variable named timestamp
// shadows the clock.
//
// Rendered output is plain text and not guaranteed to be valid JSON;
// callers validate the result before use.
package template
