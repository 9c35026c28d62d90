/*
Package ddb provides a DynamoDB implementation of the store.Context contract.

The Context follows a single-table design:
  - Macro-based key expansion (e.g. "ARTICLE#{ID}") from the index-map
    registry
  - Automatic EntityType injection for polymorphic materialization
  - Staged inserts and deletes flushed on Commit via BatchWriteItem,
    25 items per chunk, with bounded resubmission of unprocessed items
  - Predicate compilation to scan filter expressions

Key Expansion:
Keys use macros that are replaced with entity field values at commit time:

	registry.RegisterIndexMap("Article", map[string]string{
	    "PK": "ARTICLE#{ID}", // Becomes "ARTICLE#123"
	    "SK": "ARTICLE#{ID}",
	})

Macros name attributes as the DynamoDB marshaler emits them, which for
untagged fields is the Go field name; json tags are not consulted. A macro
that does not resolve to a non-empty value fails the commit, so a mistyped
macro can never collapse records onto a shared key.

Unit-of-work semantics:
Reads overlay the context's pending changes on the table state, so staged
inserts are visible to Execute and Count before Commit, and records staged
for deletion are hidden. Object identifiers encode the entity name and table
key; identifiers of staged inserts are provisional until Commit assigns the
key.

For usage examples, see the integration tests.
*/
package ddb
