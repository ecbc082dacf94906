// Package build registers the documentation pipeline on a task graph.
//
// The pipeline restores the host project, clones the documented repository
// into the staging directory and runs docfx twice: once to extract API
// metadata and once to build the site.
//
//	Clean (optional) -> Restore -> GenerateMetadata -> GenerateBuild -> Generate
//
// Projects lists the projects of the cloned solution and is only run on
// request.
package build
