package content

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	contextutils "studyapp/internal/utils"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var (
	schemasOnce sync.Once
	schemas     map[string]*gojsonschema.Schema
	schemasErr  error
)

func loadSchemas() (map[string]*gojsonschema.Schema, error) {
	schemasOnce.Do(func() {
		out := make(map[string]*gojsonschema.Schema, len(Documents()))
		for _, name := range Documents() {
			raw, err := schemaFS.ReadFile(path.Join("schemas", name))
			if err != nil {
				schemasErr = contextutils.WrapErrorf(err, "failed to read schema for %s", name)
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				schemasErr = contextutils.WrapErrorf(err, "failed to compile schema for %s", name)
				return
			}
			out[name] = schema
		}
		schemas = out
	})
	return schemas, schemasErr
}

// ValidateDocument checks raw document bytes against the JSON schema
// registered for name.
func ValidateDocument(name string, data []byte) error {
	all, err := loadSchemas()
	if err != nil {
		return err
	}
	schema, ok := all[name]
	if !ok {
		return contextutils.WrapErrorf(contextutils.ErrRecordNotFound, "no schema for document %q", name)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return unavailable(name, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
		}
		return contextutils.NewAppError(
			contextutils.ErrorCodeValidationFailed,
			contextutils.SeverityWarn,
			fmt.Sprintf("%s failed schema validation", name),
			strings.Join(problems, "; "),
		)
	}
	return nil
}
