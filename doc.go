// Package hedge is a half-edge mesh toolkit: an index-based half-edge
// arena with topological editing operators (pkg/hemesh), subdivision
// schemes built on top of it (pkg/hemesh/subdiv), a projection-based
// constraint solver for mesh geometry (pkg/dynamics), and glue to SDF
// geometry and polygon-mesh interchange (pkg/kernel, pkg/tessellate).
//
// The root package only carries the shared logger.
package hedge
