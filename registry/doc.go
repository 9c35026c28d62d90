/*
Package registry manages entity registration for ObjectGraph.

The registry system enables:
  - Allocation of native instances by entity name (InsertNew on a store context)
  - Materialization of typed objects from raw store records
  - Sub-entity hierarchies under a shared collection
  - Flexible DynamoDB key patterns through index maps

Entity Registry:
Maps entity names to factory functions:

	registry.RegisterEntity("Article", func() any {
	    return &Article{}
	})

Sub-entities:
Declares that one entity's records live inside another's collection:

	registry.RegisterSubentity("Article", "FeaturedArticle")

Index Map Registry:
Associates entity names with DynamoDB key patterns:

	registry.RegisterIndexMap("Article", map[string]string{
	    "PK": "ARTICLE#{ID}",
	    "SK": "ARTICLE#{ID}",
	})

The registry is thread-safe and should be populated during initialization,
typically in init() functions or through code generated by the processor
package.
*/
package registry
