// Package capability provides the central catalog of plugin step families.
//
// A Capability binds together everything the pipeline needs to know about one
// plugin family: how to recognize it in free text, which orchestrator plugin
// provider implements it, whether it runs per node, and how to turn a matched
// payload into the provider's configuration map.
//
// During application startup the catalog is populated and then validated to
// ensure every registered capability is internally complete, preventing a
// class of runtime errors where the classifier emits a plugin step that the
// encoder cannot express.
package capability
