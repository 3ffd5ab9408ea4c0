// Package journal persists run history to SQLite so past runs can be
// inspected with the status command.
package journal
