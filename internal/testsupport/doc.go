// Package testsupport provides shared fixtures for postsweep tests: per-test
// configs with temp paths and helpers that render archive files in the
// exported format.
package testsupport
