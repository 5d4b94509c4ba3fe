// Package utils hosts cross-cutting helpers shared by the CLI commands:
// logger construction, configuration loading, and small path utilities.
package utils
