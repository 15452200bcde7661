package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateJSON_ValidJSON(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "valid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	assert.NoError(t, err)
}

func TestValidateJSON_InvalidJSON_MissingField(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "invalid_json.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateJSON_InvalidJSON_WrongType(t *testing.T) {
	schemaPath := filepath.Join("testdata", "valid_schema.json")
	jsonPath := filepath.Join("testdata", "type_mismatch.json")

	err := ValidateJSON(schemaPath, jsonPath)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, "count", validationErr.Errors[0].Field)
}

func TestValidateJSON_MissingFiles(t *testing.T) {
	err := ValidateJSON(filepath.Join("testdata", "nope.json"), filepath.Join("testdata", "valid_json.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema file not found")

	err = ValidateJSON(filepath.Join("testdata", "valid_schema.json"), filepath.Join("testdata", "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JSON file not found")
}

func TestValidateJSONString_BrokenSchema(t *testing.T) {
	err := ValidateJSONString(`{"type": 12}`, `{}`)
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestOutputSchema_IsValidJSON(t *testing.T) {
	var v map[string]any
	require.NoError(t, json.Unmarshal([]byte(OutputSchema), &v))
	assert.Equal(t, "array", v["type"])
}

func TestValidateOutput(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"empty array", `[]`, false},
		{"name only", `[{"name": "Down Co"}]`, false},
		{"full record", `[{"name": "Acme", "founders": "Jane Doe", "foundedYear": "2015", "employeeCount": "42", "location": "Austin", "hiring": "3", "description": "text"}]`, false},
		{"empty description", `[{"name": "Acme", "description": ""}]`, false},
		{"missing name", `[{"location": "Austin"}]`, true},
		{"bad year", `[{"name": "Acme", "foundedYear": "15"}]`, true},
		{"null field", `[{"name": "Acme", "hiring": null}]`, true},
		{"unknown field", `[{"name": "Acme", "ceo": "x"}]`, true},
		{"not an array", `{"name": "Acme"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutput([]byte(tt.doc))
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scraped.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "Acme"}]`), 0644))
	assert.NoError(t, ValidateOutputFile(path))

	err := ValidateOutputFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{{Field: "0.name", Message: "name is required"}}}
	assert.Equal(t, "validation failed:\n  1. 0.name: name is required\n", err.Error())
}

func TestValidateOutput_MatchesEmbeddedSchemaString(t *testing.T) {
	doc := `[{"name": "Acme", "hiring": "many"}]`

	fromBytes := ValidateOutput([]byte(doc))
	fromString := ValidateJSONString(OutputSchema, doc)

	require.Error(t, fromBytes)
	assert.Equal(t, fromString.Error(), fromBytes.Error())
}
