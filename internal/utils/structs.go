package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// StructTagValues returns the ColumnTag value of every exported, tagged field
// of input in declaration order. Fields tagged "-" are skipped.
func StructTagValues(input any) []string {
	var result []string
	eachColumn(input, func(column string, _ reflect.Value) {
		result = append(result, column)
	})
	return result
}

// StructToMap maps each column of input to its field value.
func StructToMap(input any) map[string]any {
	result := make(map[string]any)
	eachColumn(input, func(column string, v reflect.Value) {
		result[column] = v.Interface()
	})
	return result
}

func eachColumn(input any, fn func(column string, v reflect.Value)) {
	value := reflect.ValueOf(input)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	if value.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	typ := value.Type()
	for i := 0; i < value.NumField(); i++ {
		field := typ.Field(i)
		if field.PkgPath != "" {
			continue
		}

		column := field.Tag.Get(ColumnTag)
		if column == "" || column == "-" {
			continue
		}

		fn(column, value.Field(i))
	}
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
