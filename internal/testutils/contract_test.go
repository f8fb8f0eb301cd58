package testutils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type serverShape struct {
	Id       string  `json:"id"`
	Name     *string `json:"name"`
	Internal string  `json:"-"`
}

type clientShape struct {
	Id    string  `json:"id"`
	Name  *string `json:"name"`
	Extra int     `json:"extra"`
}

type errorRecorder struct {
	testing.TB
	errors []string
}

func (r *errorRecorder) Helper() {}

func (r *errorRecorder) Errorf(format string, args ...any) {
	r.errors = append(r.errors, fmt.Sprintf(format, args...))
}

func TestGetStructFieldInfo(t *testing.T) {
	info := getStructFieldInfo(&serverShape{})
	require.Equal(t, "serverShape", info.Name)
	require.Equal(t, map[string]string{"id": "string", "name": "*string"}, info.FieldTypeMap)

	require.Empty(t, getStructFieldInfo("not a struct").FieldTypeMap)
}

func TestValidateModelContract(t *testing.T) {
	ValidateModelContract(t, serverShape{}, clientShape{})

	recorder := &errorRecorder{TB: t}
	ValidateModelContract(recorder, clientShape{}, serverShape{})
	require.Equal(t, []string{"clientShape[extra] doesn't exist in serverShape"}, recorder.errors)
}
