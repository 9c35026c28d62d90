/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/objectgraph/store"
	"github.com/suparena/objectgraph/store/testmodels"
)

func init() {
	testmodels.RegisterArticle()
}

func TestExpandMacros(t *testing.T) {
	article := &testmodels.Article{ID: "a-123", Title: "go", Views: 7}

	t.Run("StringMacro", func(t *testing.T) {
		expanded, err := expandMacros(map[string]string{
			"PK": "ARTICLE#{ID}",
			"SK": "ARTICLE#{ID}",
		}, article)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["PK"] != "ARTICLE#a-123" || expanded["SK"] != "ARTICLE#a-123" {
			t.Errorf("Unexpected expansion: %v", expanded)
		}
	})

	t.Run("NumericMacro", func(t *testing.T) {
		expanded, err := expandMacros(map[string]string{"PK": "VIEWS#{Views}"}, article)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["PK"] != "VIEWS#7" {
			t.Errorf("Unexpected expansion: %v", expanded)
		}
	})

	t.Run("StaticTemplate", func(t *testing.T) {
		expanded, err := expandMacros(map[string]string{"SK": "PROFILE"}, article)
		if err != nil {
			t.Fatalf("expandMacros failed: %v", err)
		}
		if expanded["SK"] != "PROFILE" {
			t.Errorf("Unexpected expansion: %v", expanded)
		}
	})

	t.Run("UnknownAttributeErrors", func(t *testing.T) {
		if _, err := expandMacros(map[string]string{"PK": "X#{Nope}"}, article); err == nil {
			t.Error("Expected error for a macro with no matching attribute")
		}
	})

	t.Run("JSONTagNameErrors", func(t *testing.T) {
		// The marshaler ignores json tags, so a macro keyed by the tag name
		// ("Id") instead of the field name ("ID") must fail loudly rather
		// than expand every record to the same constant key.
		if _, err := expandMacros(map[string]string{"PK": "ARTICLE#{Id}"}, article); err == nil {
			t.Error("Expected error for a macro keyed by a json tag name")
		}
	})

	t.Run("EmptyValueErrors", func(t *testing.T) {
		if _, err := expandMacros(map[string]string{"PK": "ARTICLE#{ID}"}, &testmodels.Article{}); err == nil {
			t.Error("Expected error when the keyed field is empty")
		}
	})
}

func TestObjectIDCodec(t *testing.T) {
	id := makeObjectID("Article", "ARTICLE#a-1", "ARTICLE#a-1")

	entity, pk, sk, err := parseObjectID(id)
	if err != nil {
		t.Fatalf("parseObjectID failed: %v", err)
	}
	if entity != "Article" || pk != "ARTICLE#a-1" || sk != "ARTICLE#a-1" {
		t.Errorf("Unexpected parse: %s %s %s", entity, pk, sk)
	}

	for _, bad := range []store.ObjectID{"", "Article", "Article|pk", "||"} {
		if _, _, _, err := parseObjectID(bad); err == nil {
			t.Errorf("Expected error for malformed identifier %q", bad)
		}
	}
}

func TestCompileFilter(t *testing.T) {
	t.Run("EntityOnly", func(t *testing.T) {
		expr, names, vals, err := compileFilter([]string{"Article"}, nil)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if expr != "#et = :et0" {
			t.Errorf("Unexpected expression %q", expr)
		}
		if names["#et"] != entityTypeAttr {
			t.Errorf("Unexpected names %v", names)
		}
		et, ok := vals[":et0"].(*types.AttributeValueMemberS)
		if !ok || et.Value != "Article" {
			t.Errorf("Unexpected entity value %v", vals[":et0"])
		}
	})

	t.Run("SubentityIN", func(t *testing.T) {
		expr, _, vals, err := compileFilter([]string{"Article", "FeaturedArticle"}, nil)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}
		if expr != "#et IN (:et0, :et1)" {
			t.Errorf("Unexpected expression %q", expr)
		}
		if len(vals) != 2 {
			t.Errorf("Expected 2 values, got %d", len(vals))
		}
	})

	t.Run("Conditions", func(t *testing.T) {
		pred := store.Where("Views", store.OpGt, 10).
			And("Title", store.OpBeginsWith, "go").
			And("Body", store.OpContains, "generics")
		expr, names, vals, err := compileFilter([]string{"Article"}, pred)
		if err != nil {
			t.Fatalf("compileFilter failed: %v", err)
		}

		for _, want := range []string{
			"#et = :et0",
			"#f0 > :v0",
			"begins_with(#f1, :v1)",
			"contains(#f2, :v2)",
		} {
			if !strings.Contains(expr, want) {
				t.Errorf("Expression %q missing clause %q", expr, want)
			}
		}
		if names["#f0"] != "Views" || names["#f1"] != "Title" || names["#f2"] != "Body" {
			t.Errorf("Unexpected attribute names %v", names)
		}
		n, ok := vals[":v0"].(*types.AttributeValueMemberN)
		if !ok || n.Value != "10" {
			t.Errorf("Unexpected numeric value %v", vals[":v0"])
		}
	})

	t.Run("UnsupportedOperator", func(t *testing.T) {
		_, _, _, err := compileFilter([]string{"Article"}, store.Predicate{{Field: "Views", Op: "~", Value: 1}})
		if err == nil {
			t.Error("Expected error for unsupported operator")
		}
	})
}

func TestItemFor(t *testing.T) {
	c := NewContext(nil, "objectgraph-test")
	article := &testmodels.Article{ID: "a-9", Title: "go", Published: true}

	item, expanded, err := c.itemFor("Article", article)
	if err != nil {
		t.Fatalf("itemFor failed: %v", err)
	}

	if expanded["PK"] != "ARTICLE#a-9" || expanded["SK"] != "ARTICLE#a-9" {
		t.Errorf("Unexpected key expansion %v", expanded)
	}
	pk, ok := item["PK"].(*types.AttributeValueMemberS)
	if !ok || pk.Value != "ARTICLE#a-9" {
		t.Errorf("Unexpected PK attribute %v", item["PK"])
	}
	et, ok := item[entityTypeAttr].(*types.AttributeValueMemberS)
	if !ok || et.Value != "Article" {
		t.Errorf("Expected injected EntityType attribute, got %v", item[entityTypeAttr])
	}
	if _, ok := item["Title"]; !ok {
		t.Error("Expected entity attributes to be marshaled into the item")
	}
}

func TestItemForMissingIndexMap(t *testing.T) {
	c := NewContext(nil, "objectgraph-test")
	if _, _, err := c.itemFor("Unmapped", struct{ ID string }{ID: "x"}); err == nil {
		t.Error("Expected error for entity without an index map")
	}
}

func TestStagedLifecycleWithoutTable(t *testing.T) {
	// Staging and identifier bookkeeping never touch DynamoDB, so they are
	// testable without a client.
	c := NewContext(nil, "objectgraph-test")
	ctx := context.Background()

	obj, err := c.InsertNew(ctx, "Article")
	if err != nil {
		t.Fatalf("InsertNew failed: %v", err)
	}
	a := obj.(*testmodels.Article)

	id, ok := c.IdentifierFor(a)
	if !ok {
		t.Fatal("IdentifierFor should know a staged insert")
	}
	if !strings.HasPrefix(string(id), pendingPrefix) {
		t.Errorf("Staged insert should carry a provisional identifier, got %q", id)
	}

	c.MarkDeleted(a)
	if err := c.Commit(ctx); err != nil {
		t.Fatalf("Commit of a cancelled insert should be a no-op: %v", err)
	}
	if _, ok := c.IdentifierFor(a); ok {
		t.Error("Cancelled insert should no longer be tracked")
	}
}

func TestIdentifierOnlyMaterialization(t *testing.T) {
	c := NewContext(nil, "objectgraph-test")

	keyOnly := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: "ARTICLE#a-7"},
		"SK":           &types.AttributeValueMemberS{Value: "ARTICLE#a-7"},
		entityTypeAttr: &types.AttributeValueMemberS{Value: "Article"},
	}

	obj, skip, err := c.materialize(keyOnly, true)
	if err != nil || skip {
		t.Fatalf("materialize failed: skip=%v err=%v", skip, err)
	}
	partial := obj.(*testmodels.Article)
	if partial.ID != "" {
		t.Fatalf("Identifier-only instance should carry no property values, got %+v", partial)
	}

	id, ok := c.IdentifierFor(partial)
	if !ok {
		t.Fatal("IdentifierFor should know a materialized record")
	}
	if c.hydrated[id] {
		t.Error("Identifier-only instance must not count as hydrated")
	}

	full := map[string]types.AttributeValue{
		"PK":           keyOnly["PK"],
		"SK":           keyOnly["SK"],
		entityTypeAttr: keyOnly[entityTypeAttr],
		"ID":           &types.AttributeValueMemberS{Value: "a-7"},
		"Title":        &types.AttributeValueMemberS{Value: "go"},
		"Views":        &types.AttributeValueMemberN{Value: "3"},
	}
	obj2, skip, err := c.materialize(full, false)
	if err != nil || skip {
		t.Fatalf("materialize failed: skip=%v err=%v", skip, err)
	}
	if obj2 != obj {
		t.Fatal("A full item for a tracked key should return the existing instance")
	}
	if partial.ID != "a-7" || partial.Title != "go" || partial.Views != 3 {
		t.Errorf("Instance should be backfilled in place, got %+v", partial)
	}
	if !c.hydrated[id] {
		t.Error("Backfilled instance should count as hydrated")
	}

	// Hydrating an already-hydrated record never touches the table; a nil
	// client would panic otherwise.
	if err := c.hydrate(context.Background(), id); err != nil {
		t.Errorf("hydrate of a hydrated record should be a no-op: %v", err)
	}
}

func TestMarkDeletedUntrackedPoisonsCommit(t *testing.T) {
	c := NewContext(nil, "objectgraph-test")
	c.MarkDeleted(&testmodels.Article{ID: "ghost"})
	if err := c.Commit(context.Background()); err == nil {
		t.Error("Commit should fail after marking an untracked record")
	}
}
