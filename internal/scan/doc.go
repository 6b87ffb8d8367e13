// Package scan inventories the models directory.
//
// The expected layout is one level of identifier folders, each holding a model
// payload: {models}/{identifier}/{file}. Diffusers-style models may nest
// additional files under the identifier folder; the folder is sized as a
// whole. Entries that cannot be read are skipped with a warning so a single
// bad folder never fails the scan.
package scan
