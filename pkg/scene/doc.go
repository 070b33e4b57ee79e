// Package scene holds the drafting document model: placed objects,
// nested assemblies, world-transform resolution, hierarchy mutation,
// alignment, and snapshot-based undo history.
package scene
