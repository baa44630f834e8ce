// internal/submission/intake/validation.go
package intake

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"package-directory/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// submissionSchema constrains the incoming field tuple. Name, project type,
// current version and repository URL are required; the rest is optional.
var submissionSchema = map[string]interface{}{
	"type": "object",
	"properties": map[string]interface{}{
		"name": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 128,
		},
		"project_type": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 64,
		},
		"current_version": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 64,
		},
		"versions_tested": map[string]interface{}{
			"type":      "string",
			"maxLength": 128,
		},
		"repository_url": map[string]interface{}{
			"type":      "string",
			"minLength": 1,
			"maxLength": 512,
		},
		"license": map[string]interface{}{
			"type":      "string",
			"maxLength": 64,
		},
		"tag": map[string]interface{}{
			"type":      "string",
			"maxLength": 64,
		},
		"icon": map[string]interface{}{
			"type":      "string",
			"maxLength": 512,
		},
	},
	"required": []interface{}{"name", "project_type", "current_version", "repository_url"},
}

// validateInput checks the submission payload against the schema and verifies
// the repository URL is well formed.
func validateInput(input *Input) error {
	doc, err := toDocument(input)
	if err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("decode payload: %v", err))
	}

	schemaLoader := gojsonschema.NewGoLoader(submissionSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("schema validation error: %v", err))
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewValidationFailedError(strings.Join(errs, "; "))
	}

	if err := validateRepositoryURL(input.RepositoryURL); err != nil {
		return err
	}

	return nil
}

func validateRepositoryURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("repository_url is not a valid URL: %v", err))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.NewValidationFailedError(
			fmt.Sprintf("repository_url must use http or https, got %q", u.Scheme))
	}
	if u.Host == "" {
		return errors.NewValidationFailedError("repository_url is missing a host")
	}
	return nil
}

func toDocument(input *Input) (map[string]interface{}, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
