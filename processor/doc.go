/*
Package processor provides code generation for ObjectGraph entity
registrations.

The processor reads a YAML manifest describing entities, their sub-entity
hierarchy, and their DynamoDB index maps, and generates the init()
registration code the registry package expects.

Manifest:

	package: models
	entities:
	  - name: Article
	    subentities:
	      - FeaturedArticle
	    indexMap:
	      PK: "ARTICLE#{ID}"
	      SK: "ARTICLE#{ID}"
	  - name: FeaturedArticle
	    indexMap:
	      PK: "ARTICLE#{ID}"
	      SK: "FEATURED"

Generated Code:

	func init() {
	    registry.RegisterEntity("Article", func() any { return &Article{} })
	    registry.RegisterIndexMap("Article", map[string]string{
	        "PK": "ARTICLE#{ID}",
	        "SK": "ARTICLE#{ID}",
	    })
	    registry.RegisterSubentity("Article", "FeaturedArticle")
	    ...
	}

This automation reduces boilerplate and keeps the entity manifest and the
runtime registry consistent.
*/
package processor
