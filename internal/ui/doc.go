// Package ui formats human-readable console output for gitcare commands.
//
// ConsoleCommandEventLogger narrates git invocations while structured telemetry continues to flow
// through zap, and ReportPrinter renders findings and routine outcomes as prefixed status lines.
package ui
