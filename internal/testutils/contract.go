package testutils

import (
	"reflect"
	"testing"
)

type structInfo struct {
	Name         string
	FieldTypeMap map[string]string
}

// getStructFieldInfo maps the json name of every serialised field of v
// to its Go type, fields tagged `json:"-"` are left out
func getStructFieldInfo(v any) structInfo {
	result := structInfo{FieldTypeMap: map[string]string{}}

	typ := reflect.TypeOf(v)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return result
	}
	result.Name = typ.Name()

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		jsonName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag == "-" {
			continue
		} else if jsonTag != "" {
			jsonName = jsonTag
		}
		result.FieldTypeMap[jsonName] = field.Type.String()
	}
	return result
}

// ValidateModelContract fails t when a json field of server is missing
// from client or is typed differently there
func ValidateModelContract(t testing.TB, server any, client any) {
	t.Helper()
	structA := getStructFieldInfo(server)
	structB := getStructFieldInfo(client)
	for structAField, structAType := range structA.FieldTypeMap {
		structBType, ok := structB.FieldTypeMap[structAField]
		if !ok {
			t.Errorf(
				"%s[%s] doesn't exist in %s",
				structA.Name,
				structAField,
				structB.Name,
			)
			continue
		}
		if structAType != structBType {
			t.Errorf(
				"%s[%s]'s type[%s] doesn't match %s[%s]'s type[%s]",
				structA.Name,
				structAField,
				structAType,
				structB.Name,
				structAField,
				structBType,
			)
		}
	}
}
