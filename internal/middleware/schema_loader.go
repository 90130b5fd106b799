package middleware

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"

	contextutils "studyapp/internal/utils"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed openapi/openapi.yaml
var openapiFS embed.FS

// OpenAPIPath is the embedded API description.
const OpenAPIPath = "openapi/openapi.yaml"

const schemaRefPrefix = "#/components/schemas/"

var pathParam = regexp.MustCompile(`\{([^}]+)\}`)

// Endpoint is one documented method and path. Path uses gin syntax.
type Endpoint struct {
	Method string
	Path   string
	// RequestSchema names the component schema of the JSON body, if any.
	RequestSchema string
}

// SchemaLoader holds the compiled request schemas and the documented
// endpoints of the API description.
type SchemaLoader struct {
	schemas   map[string]*gojsonschema.Schema
	endpoints map[string]Endpoint
}

// OpenAPISpec returns the raw embedded API description.
func OpenAPISpec() []byte {
	data, err := openapiFS.ReadFile(OpenAPIPath)
	if err != nil {
		// The file is embedded above.
		panic(err)
	}
	return data
}

// LoadSchemas parses the embedded API description.
func LoadSchemas() (*SchemaLoader, error) {
	return ParseSchemas(OpenAPISpec())
}

type openapiDoc struct {
	Paths      map[string]map[string]operation `yaml:"paths"`
	Components struct {
		Schemas map[string]interface{} `yaml:"schemas"`
	} `yaml:"components"`
}

type operation struct {
	RequestBody struct {
		Content map[string]struct {
			Schema struct {
				Ref string `yaml:"$ref"`
			} `yaml:"schema"`
		} `yaml:"content"`
	} `yaml:"requestBody"`
}

// ParseSchemas builds a loader from an OpenAPI 3 document in YAML.
func ParseSchemas(data []byte) (*SchemaLoader, error) {
	var doc openapiDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, contextutils.WrapError(err, "failed to parse API description as YAML")
	}

	sl := &SchemaLoader{
		schemas:   make(map[string]*gojsonschema.Schema),
		endpoints: make(map[string]Endpoint),
	}

	for name := range doc.Components.Schemas {
		// Every schema is compiled inside the full components tree so that
		// $ref between components resolves.
		full := map[string]interface{}{
			"$schema":    "http://json-schema.org/draft-07/schema#",
			"components": map[string]interface{}{"schemas": doc.Components.Schemas},
			"$ref":       schemaRefPrefix + name,
		}
		raw, err := json.Marshal(full)
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to marshal schema %s", name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, contextutils.WrapErrorf(err, "failed to compile schema %s", name)
		}
		sl.schemas[name] = schema
	}

	for path, ops := range doc.Paths {
		ginPath := pathParam.ReplaceAllString(path, ":$1")
		for method, op := range ops {
			ep := Endpoint{Method: strings.ToUpper(method), Path: ginPath}
			if body, ok := op.RequestBody.Content["application/json"]; ok && body.Schema.Ref != "" {
				ep.RequestSchema = strings.TrimPrefix(body.Schema.Ref, schemaRefPrefix)
				if _, known := sl.schemas[ep.RequestSchema]; !known {
					return nil, contextutils.WrapErrorf(contextutils.ErrInvalidInput,
						"%s %s references unknown schema %s", ep.Method, path, ep.RequestSchema)
				}
			}
			sl.endpoints[ep.Method+" "+ginPath] = ep
		}
	}
	return sl, nil
}

// Endpoints lists the documented endpoints sorted by path and method.
func (sl *SchemaLoader) Endpoints() []Endpoint {
	out := make([]Endpoint, 0, len(sl.endpoints))
	for _, ep := range sl.endpoints {
		out = append(out, ep)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Endpoint returns the documented endpoint for a gin route.
func (sl *SchemaLoader) Endpoint(method, ginPath string) (Endpoint, bool) {
	ep, ok := sl.endpoints[method+" "+ginPath]
	return ep, ok
}

// IsEndpointDocumented reports whether the gin route is described.
func (sl *SchemaLoader) IsEndpointDocumented(method, ginPath string) bool {
	_, ok := sl.Endpoint(method, ginPath)
	return ok
}

// ValidateJSON validates a raw JSON document against a component schema.
func (sl *SchemaLoader) ValidateJSON(data []byte, schemaName string) error {
	schema, exists := sl.schemas[schemaName]
	if !exists {
		return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "schema %s not found", schemaName)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return contextutils.WrapErrorf(contextutils.ErrInvalidFormat, "request body is not valid JSON: %v", err)
	}
	if !result.Valid() {
		var validationErrors []string
		for _, validationErr := range result.Errors() {
			validationErrors = append(validationErrors, fmt.Sprintf("%s: %s", validationErr.Field(), validationErr.Description()))
		}
		return contextutils.NewAppError(
			contextutils.ErrorCodeValidationFailed,
			contextutils.SeverityWarn,
			"Request data does not match the API description",
			strings.Join(validationErrors, "; "),
		)
	}
	return nil
}

// hasBody reports whether requests with method carry a body to validate.
func hasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}
