// Package testsupport provides git-backed fixtures and executor stubs shared by gitcare package tests.
package testsupport
