/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/suparena/objectgraph/registry"
	"github.com/suparena/objectgraph/store"
)

// entityTypeAttr is injected into every persisted item so records can be
// materialized polymorphically from one table.
const entityTypeAttr = "EntityType"

// pendingPrefix marks provisional identifiers of staged inserts that have not
// been assigned a table key yet.
const pendingPrefix = "pending|"

const maxBatchWriteSize = 25

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// NewClient initializes a DynamoDB client using static AWS credentials.
func NewClient(awsAccessKey, awsSecretKey, awsRegion string) (*sdk.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sdk.NewFromConfig(cfg), nil
}

// Context implements store.Context on a single DynamoDB table. Items carry an
// EntityType attribute and macro-expanded PK/SK keys from the index-map
// registry. Staged inserts and deletes flush on Commit via BatchWriteItem.
// Not safe for concurrent use.
type Context struct {
	client      *sdk.Client
	table       string
	log         *zap.Logger
	live        map[store.ObjectID]any
	entities    map[store.ObjectID]string
	ids         map[any]store.ObjectID
	inserted    map[store.ObjectID]bool
	insertOrder []store.ObjectID
	deleted     map[store.ObjectID]bool
	// hydrated records whether a live instance carries full property values.
	// Identifier-only fetches materialize partial instances that must not be
	// evaluated against predicates until backfilled.
	hydrated    map[store.ObjectID]bool
	invalidMark int
}

var _ store.Context = (*Context)(nil)

// Option configures a Context.
type Option func(*Context)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(log *zap.Logger) Option {
	return func(c *Context) {
		c.log = log
	}
}

// NewContext opens a unit-of-work against one DynamoDB table. The returned
// context must be confined to one goroutine.
func NewContext(client *sdk.Client, table string, opts ...Option) *Context {
	c := &Context{
		client:   client,
		table:    table,
		log:      zap.NewNop(),
		live:     make(map[store.ObjectID]any),
		entities: make(map[store.ObjectID]string),
		ids:      make(map[any]store.ObjectID),
		inserted: make(map[store.ObjectID]bool),
		deleted:  make(map[store.ObjectID]bool),
		hydrated: make(map[store.ObjectID]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InsertNew allocates a new instance of the named entity under a provisional
// identifier. The table key is derived from the instance's fields at commit
// time, once the caller has populated them.
func (c *Context) InsertNew(_ context.Context, entity string) (any, error) {
	obj, err := registry.NewInstance(entity)
	if err != nil {
		return nil, err
	}

	id := store.ObjectID(pendingPrefix + uuid.NewString())
	c.register(id, entity, obj, true)
	c.inserted[id] = true
	c.insertOrder = append(c.insertOrder, id)
	return obj, nil
}

// MarkDeleted stages removal of a tracked record. Marking an object this
// context does not track poisons the next Commit rather than silently
// dropping the delete.
func (c *Context) MarkDeleted(obj any) {
	id, ok := c.ids[obj]
	if !ok {
		c.invalidMark++
		c.log.Warn("marked object is not tracked by this context",
			zap.String("type", fmt.Sprintf("%T", obj)))
		return
	}
	if c.inserted[id] {
		delete(c.inserted, id)
	}
	c.deleted[id] = true
}

// IdentifierFor returns the stable identifier of a tracked record. Staged
// inserts carry a provisional identifier until Commit assigns their table key.
func (c *Context) IdentifierFor(obj any) (store.ObjectID, bool) {
	id, ok := c.ids[obj]
	return id, ok
}

// Commit flushes staged inserts and deletes in BatchWriteItem chunks.
// Unprocessed items are resubmitted a bounded number of times before the
// commit fails.
func (c *Context) Commit(ctx context.Context) error {
	if c.invalidMark > 0 {
		return fmt.Errorf("%d marked records are not tracked by this context", c.invalidMark)
	}

	type rebind struct {
		oldID store.ObjectID
		newID store.ObjectID
	}

	var writes []types.WriteRequest
	var rebinds []rebind

	for _, id := range c.insertOrder {
		if !c.inserted[id] {
			continue
		}
		entity := c.entities[id]
		obj := c.live[id]

		item, expanded, err := c.itemFor(entity, obj)
		if err != nil {
			return err
		}
		writes = append(writes, types.WriteRequest{
			PutRequest: &types.PutRequest{Item: item},
		})
		rebinds = append(rebinds, rebind{
			oldID: id,
			newID: makeObjectID(entity, expanded["PK"], expanded["SK"]),
		})
	}

	var purge []store.ObjectID
	for id := range c.deleted {
		if strings.HasPrefix(string(id), pendingPrefix) {
			// A staged insert that was deleted before commit never
			// reaches the table.
			purge = append(purge, id)
			continue
		}
		_, pk, sk, err := parseObjectID(id)
		if err != nil {
			return err
		}
		writes = append(writes, types.WriteRequest{
			DeleteRequest: &types.DeleteRequest{Key: keyAttrs(pk, sk)},
		})
		purge = append(purge, id)
	}

	if err := c.flush(ctx, writes); err != nil {
		return err
	}

	for _, rb := range rebinds {
		obj := c.live[rb.oldID]
		entity := c.entities[rb.oldID]
		delete(c.live, rb.oldID)
		delete(c.entities, rb.oldID)
		delete(c.hydrated, rb.oldID)
		c.register(rb.newID, entity, obj, true)
	}
	for _, id := range purge {
		if obj, ok := c.live[id]; ok {
			delete(c.ids, obj)
		}
		delete(c.live, id)
		delete(c.entities, id)
		delete(c.deleted, id)
		delete(c.hydrated, id)
	}
	c.inserted = make(map[store.ObjectID]bool)
	c.insertOrder = nil
	return nil
}

func (c *Context) flush(ctx context.Context, writes []types.WriteRequest) error {
	for start := 0; start < len(writes); start += maxBatchWriteSize {
		end := start + maxBatchWriteSize
		if end > len(writes) {
			end = len(writes)
		}
		chunk := writes[start:end]

		for attempt := 0; ; attempt++ {
			out, err := c.client.BatchWriteItem(ctx, &sdk.BatchWriteItemInput{
				RequestItems: map[string][]types.WriteRequest{c.table: chunk},
			})
			if err != nil {
				return fmt.Errorf("BatchWriteItem failed: %w", err)
			}
			chunk = out.UnprocessedItems[c.table]
			if len(chunk) == 0 {
				break
			}
			if attempt >= 2 {
				return fmt.Errorf("BatchWriteItem left %d unprocessed items after %d attempts",
					len(chunk), attempt+1)
			}
			c.log.Warn("resubmitting unprocessed batch items",
				zap.Int("remaining", len(chunk)),
				zap.Int("attempt", attempt+1))
		}
	}
	return nil
}

// itemFor marshals a record, expands its key templates, and injects the key
// and EntityType attributes.
func (c *Context) itemFor(entity string, obj any) (map[string]types.AttributeValue, map[string]string, error) {
	indexMap, ok := registry.GetIndexMap(entity)
	if !ok {
		return nil, nil, fmt.Errorf("no index map registered for entity %q", entity)
	}

	item, err := attributevalue.MarshalMap(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal entity %q: %w", entity, err)
	}

	expanded, err := expandMacros(indexMap, obj)
	if err != nil {
		return nil, nil, err
	}
	if expanded["PK"] == "" || expanded["SK"] == "" {
		return nil, nil, fmt.Errorf("index map for entity %q expanded to an empty PK or SK", entity)
	}

	for k, v := range expanded {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	item[entityTypeAttr] = &types.AttributeValueMemberS{Value: entity}
	return item, expanded, nil
}

func (c *Context) register(id store.ObjectID, entity string, obj any, full bool) {
	c.live[id] = obj
	c.entities[id] = entity
	c.ids[obj] = id
	c.hydrated[id] = full
}

// expandMacros expands key templates like "ARTICLE#{ID}" against a record's
// marshaled attribute values. Macros reference attribute names as the SDK
// marshals them, which for untagged fields is the Go field name. A macro that
// resolves to no attribute, or to an empty value, is an error: a partially
// expanded template would silently collapse every record onto one table key.
func expandMacros(indexMap map[string]string, obj any) (map[string]string, error) {
	av, err := attributevalue.MarshalMap(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record for key expansion: %w", err)
	}

	res := make(map[string]string, len(indexMap))
	for fieldName, template := range indexMap {
		var badMacro string
		expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
			key := strings.Trim(macro, "{}")
			val, ok := av[key]
			if !ok {
				badMacro = macro
				return ""
			}
			var s string
			switch tv := val.(type) {
			case *types.AttributeValueMemberS:
				s = tv.Value
			case *types.AttributeValueMemberN:
				s = tv.Value
			case *types.AttributeValueMemberBOOL:
				s = fmt.Sprintf("%v", tv.Value)
			}
			if s == "" {
				badMacro = macro
			}
			return s
		})
		if badMacro != "" {
			return nil, fmt.Errorf("macro %s in key template %q did not resolve to a value", badMacro, template)
		}
		res[fieldName] = expanded
	}
	return res, nil
}

func keyAttrs(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: pk},
		"SK": &types.AttributeValueMemberS{Value: sk},
	}
}

// makeObjectID encodes a stable identifier from an item's entity name and
// table key.
func makeObjectID(entity, pk, sk string) store.ObjectID {
	return store.ObjectID(entity + "|" + pk + "|" + sk)
}

func parseObjectID(id store.ObjectID) (entity, pk, sk string, err error) {
	parts := strings.SplitN(string(id), "|", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return "", "", "", errors.New("malformed object identifier")
	}
	return parts[0], parts[1], parts[2], nil
}
