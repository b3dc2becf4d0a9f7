package postgres

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// whereClause renders filter as a SQL predicate over the documents table,
// scoped to collection. Arguments are numbered from $1.
//
// IDField compares against the id column. A nil value matches a missing or
// null field. Any other value becomes a JSONB containment test, so nested
// paths compare the same Extended JSON representation that was stored.
func whereClause(collection string, filter store.Filter) (string, []any, error) {
	conds := []string{"collection = $1"}
	args := []any{collection}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := filter[key]
		if key == "" || strings.HasPrefix(key, "$") {
			return "", nil, fmt.Errorf("%w: unsupported filter key %q", store.ErrInvalidFilter, key)
		}

		if key == store.IDField {
			id, ok := value.(primitive.ObjectID)
			if !ok {
				return "", nil, fmt.Errorf("%w: %s must be an ObjectID, got %T", store.ErrInvalidFilter, store.IDField, value)
			}
			args = append(args, id.Hex())
			conds = append(conds, "id = "+placeholder(len(args)))
			continue
		}

		path := store.SplitPath(key)
		if value == nil {
			args = append(args, path)
			p := placeholder(len(args))
			conds = append(conds, fmt.Sprintf(
				"(doc #> %s::text[] IS NULL OR doc #> %s::text[] = 'null'::jsonb)", p, p))
			continue
		}

		contained, err := containment(path, value)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", store.ErrInvalidFilter, err)
		}
		args = append(args, contained)
		conds = append(conds, "doc @> "+placeholder(len(args))+"::jsonb")
	}

	return strings.Join(conds, " AND "), args, nil
}

// containment builds the Extended JSON object {"a":{"b":value}} for path a.b.
func containment(path []string, value any) (string, error) {
	var doc any = value
	for i := len(path) - 1; i >= 0; i-- {
		doc = bson.D{{Key: path[i], Value: doc}}
	}
	data, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// setPatch encodes update fields as an Extended JSON object, keys sorted.
func setPatch(set store.Fields) (string, error) {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := make(bson.D, 0, len(keys))
	for _, k := range keys {
		d = append(d, bson.E{Key: k, Value: set[k]})
	}
	data, err := bson.MarshalExtJSON(d, false, false)
	if err != nil {
		return "", fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	return string(data), nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
