// Package workspace manages the build output directory.
//
// The output directory is owned by a single build at a time. Before each
// build its contents are removed while the directory itself is kept, so a
// shell sitting inside it is not left in a deleted directory. The public
// folder is then copied in with symlinks dereferenced.
package workspace
