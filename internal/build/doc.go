// Package build runs production builds.
//
// Driver performs a single compilation: it invokes the bundler once,
// normalises the diagnostics, keeps only the first error and, when the CI
// environment variable is set, treats warnings as errors. Service wraps the
// driver with the rest of the workflow: pre-flight validation, measuring the
// previous output, emptying and repopulating the output directory and
// writing the asset manifest.
//
// Neither type exits the process; callers map returned errors to exit codes.
package build
