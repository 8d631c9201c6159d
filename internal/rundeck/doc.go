// Package rundeck talks to the orchestrator's REST API. It implements both
// halves of the lifecycle contract: the mutating Transport and the read-only
// Catalog.
//
// Connection details come from the environment. RUNDECK_URL and
// RUNDECK_API_TOKEN configure the primary server; RUNDECK_URL_1 through
// RUNDECK_URL_9 (with matching _TOKEN/_NAME/_API_VERSION variables) add
// named alternates, so one process can steer several installations.
package rundeck
