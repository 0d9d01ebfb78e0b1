package domain

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const saveAttempts = 3

// mutation edits a private copy of the collection. Returning changed=false skips the write.
type mutation func(col *ActivityCollection) (changed bool, events []Event, err error)

// updateCollection runs a read-modify-write cycle against the owner's document and repeats it
// when the store reports a concurrent write.
func updateCollection(ctx context.Context, store ActivityStore, username string, fn mutation) (ActivityCollection, error) {
	var result ActivityCollection
	err := retry.Do(
		func() error {
			stored, err := store.GetCollection(ctx, username)
			if err != nil {
				return dependency("load activities", err)
			}
			col := ActivityCollection{Username: username}
			if stored != nil {
				col = stored.clone()
			}

			changed, events, err := fn(&col)
			if err != nil {
				return err
			}
			if changed {
				if err := store.SaveCollection(ctx, col, events...); err != nil {
					if errors.Is(err, ErrVersionConflict) {
						return err
					}
					return dependency("save activities", err)
				}
				col.Version++
			}
			result = col
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(saveAttempts),
		retry.Delay(5*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, ErrVersionConflict)
		}),
	)
	if errors.Is(err, ErrVersionConflict) {
		return ActivityCollection{}, dependency("save activities", err)
	}
	return result, err
}

// backfillIDs assigns an id to every activity that lacks one and reports whether any changed.
func backfillIDs(activities []Activity, newID func() string) bool {
	changed := false
	for i := range activities {
		if activities[i].ID == "" {
			activities[i].ID = newID()
			changed = true
		}
	}
	return changed
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct converts validator failures into a *ValidationError naming the JSON fields.
func validateStruct(v *validator.Validate, value any) error {
	err := v.Struct(value)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return &ValidationError{}
	}
	fields := make([]string, 0, len(violations))
	for _, violation := range violations {
		fields = append(fields, violation.Field())
	}
	return &ValidationError{Fields: fields}
}

func newUUID() string {
	return uuid.NewString()
}
