package memory

import (
	"fmt"
	"strings"

	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

// Match reports whether doc satisfies every equality condition in filter.
// Values are compared in their BSON encoding, so the type must match as well
// as the value. A null condition also matches a missing field, as in MongoDB.
func Match(doc bson.Raw, filter store.Filter) (bool, error) {
	for path, want := range filter {
		if path == "" || strings.HasPrefix(path, "$") {
			return false, fmt.Errorf("%w: unsupported filter key %q", store.ErrInvalidFilter, path)
		}

		wantVal, err := rawValue(want)
		if err != nil {
			return false, fmt.Errorf("%w: %v", store.ErrInvalidFilter, err)
		}

		got, err := doc.LookupErr(store.SplitPath(path)...)
		if err != nil {
			if wantVal.Type == bson.TypeNull {
				continue
			}
			return false, nil
		}

		if !got.Equal(wantVal) {
			return false, nil
		}
	}
	return true, nil
}

func rawValue(v any) (bson.RawValue, error) {
	t, data, err := bson.MarshalValue(v)
	if err != nil {
		return bson.RawValue{}, err
	}
	return bson.RawValue{Type: t, Value: data}, nil
}
