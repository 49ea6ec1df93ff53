// Package io reads and writes the inputs orca lays out.
//
// # Overview
//
// Two input forms exist:
//
//   - Program text in the small let/print language of [ast.Parse]. These
//     files conventionally end in ".orca".
//   - A flat tree in JSON: the preorder branch counts and tokens that
//     germination produces. Any tool that can emit this format can use the
//     orca layout and renderers without writing a Go seed.
//
// # JSON Format
//
// A flat tree has one required top-level array. Nodes appear in depth-first
// preorder; each names its token and its number of direct children:
//
//	{
//	  "nodes": [
//	    {"token": "print", "branch": 1},
//	    {"token": "+", "branch": 2},
//	    {"token": "4"},
//	    {"token": "2"}
//	  ]
//	}
//
// "branch" defaults to 0. The counts must exactly partition the sequence:
// [ReadTree] checks this with [tree.Validate] and fails with
// errors.ErrCodeInvalidInput instead of panicking later in a traversal.
//
// # Import
//
// Use [ImportSource] or [ImportTree] to read from a file path, or
// [ReadSource] and [ReadTree] to read from any io.Reader:
//
//	t, tokens, err := io.ImportTree("tree.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// [Import] picks the form from the file extension.
//
// # Export
//
// Use [ExportTree] to write a flat tree to a file, or [WriteTree] to write to
// any io.Writer. The output re-imports identically.
//
// # Layout Export
//
// This package exports the tree shape and tokens only. For computed fits,
// bounds and positions, use the JSON sink in [render/sink].
//
// [ast.Parse]: github.com/matzehuels/orca/pkg/ast.Parse
// [tree.Validate]: github.com/matzehuels/orca/pkg/tree.Validate
// [render/sink]: github.com/matzehuels/orca/pkg/render/sink
package io
