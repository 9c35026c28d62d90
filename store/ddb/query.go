/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	ogerrors "github.com/suparena/objectgraph/errors"
	"github.com/suparena/objectgraph/registry"
	"github.com/suparena/objectgraph/store"
)

// Execute scans the table for the query's entity collections, materializes
// each item through the entity registry, and overlays this context's staged
// state: staged deletes are hidden, staged inserts matching the predicate are
// appended. Results are sorted client-side; DynamoDB scans have no
// server-side ordering.
func (c *Context) Execute(ctx context.Context, q *store.Query) ([]any, error) {
	names := registry.CollectionNames(q.Entity, q.IncludesSubentities)
	filterExpr, exprNames, exprVals, err := compileFilter(names, q.Predicate)
	if err != nil {
		return nil, err
	}

	input := &sdk.ScanInput{
		TableName:                 &c.table,
		FilterExpression:          &filterExpr,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprVals,
	}
	if q.IdentifiersOnly {
		proj := fmt.Sprintf("PK, SK, %s", entityTypeAttr)
		input.ProjectionExpression = &proj
	}

	var out []any
	for {
		res, err := c.client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		for _, item := range res.Items {
			obj, skip, err := c.materialize(item, q.IdentifiersOnly)
			if err != nil {
				return nil, err
			}
			if !skip {
				out = append(out, obj)
			}
		}
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}

	nameSet := toSet(names)
	for _, id := range c.insertOrder {
		if !c.inserted[id] || c.deleted[id] {
			continue
		}
		if !nameSet[c.entities[id]] {
			continue
		}
		obj := c.live[id]
		if !q.Predicate.Matches(obj) {
			continue
		}
		out = append(out, obj)
	}

	store.SortRecords(out, q.Orderings)
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Count runs a count-only scan, then adjusts for staged state: staged deletes
// of committed items are subtracted, staged inserts matching the predicate
// are added. No entities are materialized.
func (c *Context) Count(ctx context.Context, q *store.Query) (int, error) {
	names := registry.CollectionNames(q.Entity, q.IncludesSubentities)
	filterExpr, exprNames, exprVals, err := compileFilter(names, q.Predicate)
	if err != nil {
		return 0, err
	}

	input := &sdk.ScanInput{
		TableName:                 &c.table,
		FilterExpression:          &filterExpr,
		ExpressionAttributeNames:  exprNames,
		ExpressionAttributeValues: exprVals,
		Select:                    types.SelectCount,
	}

	total := 0
	for {
		res, err := c.client.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("count scan error: %w", err)
		}
		total += int(res.Count)
		if len(res.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = res.LastEvaluatedKey
	}

	nameSet := toSet(names)
	for id := range c.deleted {
		if strings.HasPrefix(string(id), pendingPrefix) {
			continue
		}
		if !nameSet[c.entities[id]] {
			continue
		}
		if len(q.Predicate) > 0 {
			// Instances from an identifier-only fetch carry no property
			// values; backfill before matching them against the predicate.
			if err := c.hydrate(ctx, id); err != nil {
				return 0, err
			}
		}
		if q.Predicate.Matches(c.live[id]) {
			total--
		}
	}
	for _, id := range c.insertOrder {
		if !c.inserted[id] || c.deleted[id] {
			continue
		}
		if !nameSet[c.entities[id]] {
			continue
		}
		if q.Predicate.Matches(c.live[id]) {
			total++
		}
	}
	if total < 0 {
		total = 0
	}
	return total, nil
}

// Resolve looks up one record by identifier via GetItem, returning a stale
// identifier error when the item is gone or the identifier was never
// committed.
func (c *Context) Resolve(ctx context.Context, id store.ObjectID) (any, error) {
	if c.deleted[id] {
		return nil, ogerrors.NewStaleIdentifierError(c.entities[id], string(id))
	}
	if obj, ok := c.live[id]; ok {
		return obj, nil
	}
	if strings.HasPrefix(string(id), pendingPrefix) {
		return nil, ogerrors.NewStaleIdentifierError("", string(id))
	}

	entity, pk, sk, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}

	out, err := c.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &c.table,
		Key:       keyAttrs(pk, sk),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, ogerrors.NewStaleIdentifierError(entity, string(id))
	}

	obj, skip, err := c.materialize(out.Item, false)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, ogerrors.NewStaleIdentifierError(entity, string(id))
	}
	return obj, nil
}

// hydrate backfills property values onto a live instance materialized from an
// identifier-only fetch. No-op for instances that already carry full values.
func (c *Context) hydrate(ctx context.Context, id store.ObjectID) error {
	if c.hydrated[id] {
		return nil
	}
	_, pk, sk, err := parseObjectID(id)
	if err != nil {
		return err
	}

	out, err := c.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &c.table,
		Key:       keyAttrs(pk, sk),
	})
	if err != nil {
		return fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		// Gone from the table between fetch and hydration; the partial
		// instance keeps its zero values.
		return nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, c.live[id]); err != nil {
		return fmt.Errorf("failed to hydrate entity %q: %w", c.entities[id], err)
	}
	c.hydrated[id] = true
	return nil
}

// materialize turns a raw item into a tracked live record. Items whose key is
// staged for deletion are skipped; items already tracked return the live
// instance so one context never holds two copies of a record. partial marks
// identifier-only items, whose instances carry no property values until
// hydrated.
func (c *Context) materialize(item map[string]types.AttributeValue, partial bool) (any, bool, error) {
	var entity string
	attr, ok := item[entityTypeAttr]
	if !ok {
		return nil, false, fmt.Errorf("missing %s attribute in item", entityTypeAttr)
	}
	if err := attributevalue.Unmarshal(attr, &entity); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal %s: %w", entityTypeAttr, err)
	}

	pk, sk, err := itemKey(item)
	if err != nil {
		return nil, false, err
	}
	id := makeObjectID(entity, pk, sk)

	if c.deleted[id] {
		return nil, true, nil
	}
	if obj, ok := c.live[id]; ok {
		if !partial && !c.hydrated[id] {
			// A full item arrived for an instance first seen through an
			// identifier-only fetch; backfill it in place.
			if err := attributevalue.UnmarshalMap(item, obj); err != nil {
				return nil, false, fmt.Errorf("failed to unmarshal item for entity %q: %w", entity, err)
			}
			c.hydrated[id] = true
		}
		return obj, false, nil
	}

	obj, err := registry.NewInstance(entity)
	if err != nil {
		return nil, false, err
	}
	if err := attributevalue.UnmarshalMap(item, obj); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal item for entity %q: %w", entity, err)
	}
	c.register(id, entity, obj, !partial)
	return obj, false, nil
}

func itemKey(item map[string]types.AttributeValue) (pk, sk string, err error) {
	pkAttr, ok := item["PK"].(*types.AttributeValueMemberS)
	if !ok {
		return "", "", fmt.Errorf("item missing string PK attribute")
	}
	skAttr, ok := item["SK"].(*types.AttributeValueMemberS)
	if !ok {
		return "", "", fmt.Errorf("item missing string SK attribute")
	}
	return pkAttr.Value, skAttr.Value, nil
}

// compileFilter builds a scan filter expression covering the entity
// collections and the predicate conditions. Attribute names always go through
// expression placeholders so reserved words cannot break a query.
func compileFilter(names []string, pred store.Predicate) (string, map[string]string, map[string]types.AttributeValue, error) {
	exprNames := map[string]string{"#et": entityTypeAttr}
	exprVals := make(map[string]types.AttributeValue)

	var clauses []string
	if len(names) == 1 {
		exprVals[":et0"] = &types.AttributeValueMemberS{Value: names[0]}
		clauses = append(clauses, "#et = :et0")
	} else {
		placeholders := make([]string, len(names))
		for i, name := range names {
			ph := fmt.Sprintf(":et%d", i)
			exprVals[ph] = &types.AttributeValueMemberS{Value: name}
			placeholders[i] = ph
		}
		clauses = append(clauses, fmt.Sprintf("#et IN (%s)", strings.Join(placeholders, ", ")))
	}

	for i, cond := range pred {
		namePH := fmt.Sprintf("#f%d", i)
		valPH := fmt.Sprintf(":v%d", i)
		exprNames[namePH] = cond.Field

		val, err := attributevalue.Marshal(cond.Value)
		if err != nil {
			return "", nil, nil, fmt.Errorf("failed to marshal predicate value for field %q: %w", cond.Field, err)
		}
		exprVals[valPH] = val

		switch cond.Op {
		case store.OpEq, store.OpNe, store.OpLt, store.OpLe, store.OpGt, store.OpGe:
			clauses = append(clauses, fmt.Sprintf("%s %s %s", namePH, cond.Op, valPH))
		case store.OpContains:
			clauses = append(clauses, fmt.Sprintf("contains(%s, %s)", namePH, valPH))
		case store.OpBeginsWith:
			clauses = append(clauses, fmt.Sprintf("begins_with(%s, %s)", namePH, valPH))
		default:
			return "", nil, nil, fmt.Errorf("unsupported predicate operator %q", cond.Op)
		}
	}

	return strings.Join(clauses, " AND "), exprNames, exprVals, nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
